package bus

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/media"
	"github.com/matheus3301/whatsterm/internal/state"
	"github.com/matheus3301/whatsterm/internal/store"
)

// Event is the closed set of inputs the application loop consumes.
type Event interface {
	isEvent()
}

// Redraw asks for a new frame without changing state.
type Redraw struct{}

// Terminal wraps a key, resize or other terminal event.
type Terminal struct {
	Event tcell.Event
}

// SyncProgress reports history sync completion in percent.
type SyncProgress struct {
	Percent int
}

// StateSyncComplete signals that app state (contacts, groups) finished syncing.
type StateSyncComplete struct{}

// OfflineSyncComplete signals that messages queued while offline have
// all been delivered.
type OfflineSyncComplete struct {
	Count int
}

// Receipt reports that messages reached a delivery or read milestone.
type Receipt struct {
	Kind       string
	Chat       string
	MessageIDs []string
}

// InboundMessage delivers a message from the backend.
type InboundMessage struct {
	Message     store.Message
	HistorySync bool
}

// Connected reports that the backend connection is up.
type Connected struct{}

// Disconnected reports that the backend connection dropped.
type Disconnected struct{}

// LoggedOut reports that the device was unlinked.
type LoggedOut struct {
	Reason string
}

// PairingQR carries a QR payload to show while pairing.
type PairingQR struct {
	Code string
}

// PairingCode is the result of pairing with a phone number.
type PairingCode struct {
	Code string
	Err  error
}

// ContactsLoaded is the result of a contact and group fetch.
type ContactsLoaded struct {
	Contacts []store.Contact
	Err      error
}

// SendResult is the outcome of an outbound send. On success Message is
// the sent message as the local model should store it.
type SendResult struct {
	RequestID string
	Chat      string
	Message   store.Message
	Err       error
}

// DownloadRequested asks for a message's file to be fetched.
type DownloadRequested struct {
	MessageID string
}

// DownloadFinished reports a completed or failed download.
type DownloadFinished struct {
	MessageID string
	Path      string
	Err       error
}

// PreviewLoadRequested asks for a downloaded image to be decoded.
type PreviewLoadRequested struct {
	MessageID string
}

// PreviewReady carries a decoded bitmap, or the decode error.
type PreviewReady struct {
	MessageID string
	Path      string
	Bitmap    *media.Bitmap
	Err       error
}

// FileStateChanged forces a message's file state.
type FileStateChanged struct {
	MessageID string
	State     state.FileState
}

func (Redraw) isEvent()               {}
func (Terminal) isEvent()             {}
func (SyncProgress) isEvent()         {}
func (StateSyncComplete) isEvent()    {}
func (OfflineSyncComplete) isEvent()  {}
func (Receipt) isEvent()              {}
func (InboundMessage) isEvent()       {}
func (Connected) isEvent()            {}
func (Disconnected) isEvent()         {}
func (LoggedOut) isEvent()            {}
func (PairingQR) isEvent()            {}
func (PairingCode) isEvent()          {}
func (ContactsLoaded) isEvent()       {}
func (SendResult) isEvent()           {}
func (DownloadRequested) isEvent()    {}
func (DownloadFinished) isEvent()     {}
func (PreviewLoadRequested) isEvent() {}
func (PreviewReady) isEvent()         {}
func (FileStateChanged) isEvent()     {}
