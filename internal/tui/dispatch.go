package tui

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/whatsterm/internal/bus"
	"github.com/matheus3301/whatsterm/internal/media"
	"github.com/matheus3301/whatsterm/internal/state"
	"github.com/matheus3301/whatsterm/internal/status"
	"go.uber.org/zap"
)

// dispatch applies one bus event to the model. It runs on the application
// loop only.
func (a *App) dispatch(evt bus.Event) {
	switch e := evt.(type) {
	case bus.Redraw:
	case bus.Terminal:
		a.handleTerminal(e.Event)

	case bus.PairingQR:
		a.pairingQR = e.Code
		a.setStatus(status.Pairing)
		if a.opts.Phone != "" && !a.phoneRequested {
			a.phoneRequested = true
			a.commands.PairPhone(a.opts.Phone)
		}
	case bus.PairingCode:
		if e.Err != nil {
			a.logger.Warn("phone pairing failed", zap.Error(e.Err))
			a.flash.Err(fmt.Errorf("phone pairing: %w", e.Err))
			return
		}
		a.pairingCode = e.Code
	case bus.Connected:
		a.pairingQR, a.pairingCode = "", ""
		a.setStatus(status.Syncing)
	case bus.Disconnected:
		a.setStatus(status.Disconnected)
	case bus.LoggedOut:
		a.logger.Warn("logged out", zap.String("reason", e.Reason))
		a.logoutReason = e.Reason
		a.setStatus(status.LoggedOut)
		a.flash.Warn("device unlinked, restart to pair again")

	case bus.SyncProgress:
		a.syncPercent = e.Percent
		if e.Percent >= 100 {
			a.setStatus(status.Ready)
		}
	case bus.StateSyncComplete:
		a.commands.FetchContacts()
		a.setStatus(status.Ready)
	case bus.OfflineSyncComplete:
		a.logger.Info("offline messages delivered", zap.Int("count", e.Count))
		a.setStatus(status.Ready)
	case bus.ContactsLoaded:
		if e.Err != nil {
			a.logger.Warn("contact fetch failed", zap.Error(e.Err))
			a.flash.Warn("could not load contacts")
			return
		}
		n := a.state.ApplyContactSync(e.Contacts)
		a.logger.Info("contacts applied", zap.Int("contacts", len(e.Contacts)), zap.Int("applied", n))

	case bus.InboundMessage:
		a.state.ApplyInboundMessage(e.Message)
		if !e.HistorySync && a.status.Current() == status.Syncing {
			a.setStatus(status.Ready)
		}
	case bus.Receipt:
		a.state.ApplyReceipt(e.Chat, e.MessageIDs, e.Kind)
	case bus.SendResult:
		if e.Err != nil {
			a.logger.Error("send failed", zap.String("request_id", e.RequestID), zap.String("chat", e.Chat), zap.Error(e.Err))
			a.flash.Err(fmt.Errorf("send failed: %w", e.Err))
			return
		}
		a.state.ApplyInboundMessage(e.Message)

	case bus.DownloadRequested:
		a.startDownload(e.MessageID)
	case bus.DownloadFinished:
		if e.Err != nil {
			a.logger.Warn("download failed", zap.String("msg_id", e.MessageID), zap.Error(e.Err))
			a.state.SetFileState(e.MessageID, state.DownloadFailed)
			return
		}
		a.state.SetFileState(e.MessageID, state.Downloaded)
	case bus.PreviewLoadRequested:
		a.startDecode(e.MessageID)
	case bus.PreviewReady:
		a.applyPreview(e)
	case bus.FileStateChanged:
		a.state.SetFileState(e.MessageID, e.State)

	default:
		a.logger.Debug("unhandled event", zap.String("type", fmt.Sprintf("%T", evt)))
	}
}

func (a *App) handleTerminal(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventResize:
		if a.screen != nil {
			a.screen.Sync()
		}
	}
}

func (a *App) startDownload(id string) {
	if !a.state.RequestDownload(id) {
		return
	}
	m, _ := a.state.Message(id)
	a.downloads.Enqueue(media.DownloadJob{
		MessageID: id,
		FileID:    m.File.FileID,
		Dest:      filepath.Join(a.opts.MediaDir, m.File.Path),
	})
}

func (a *App) startDecode(id string) {
	if !a.state.RequestPreview(id) {
		return
	}
	m, _ := a.state.Message(id)
	a.decodes.Enqueue(media.DecodeJob{
		MessageID: id,
		Path:      filepath.Join(a.opts.MediaDir, m.File.Path),
	})
}

// applyPreview stores a decoded bitmap. A bitmap encoded for a protocol
// that is no longer active is dropped and the image decoded again.
func (a *App) applyPreview(e bus.PreviewReady) {
	if e.Err != nil {
		a.logger.Warn("preview failed", zap.String("msg_id", e.MessageID), zap.Error(e.Err))
		a.state.SetFileState(e.MessageID, state.LoadFailed)
		return
	}
	if e.Bitmap.Kind != a.picker.Current().Kind() {
		a.state.SetFileState(e.MessageID, state.Downloaded)
		return
	}
	m, ok := a.state.Message(e.MessageID)
	if !ok || !m.IsFile() {
		return
	}
	// Bitmaps are cached by media path so forwarded copies share one.
	a.state.ApplyPreview(e.MessageID, m.File.Path, e.Bitmap)
}
