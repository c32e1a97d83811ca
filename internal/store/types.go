package store

// FileKind names the media variant of a file message.
type FileKind string

const (
	FileImage    FileKind = "image"
	FileVideo    FileKind = "video"
	FileAudio    FileKind = "audio"
	FileDocument FileKind = "document"
	FileSticker  FileKind = "sticker"
)

// IsImage reports whether files of this kind can be decoded into a bitmap.
func (k FileKind) IsImage() bool {
	return k == FileImage || k == FileSticker
}

// Chat is a conversation peer, individual or group.
type Chat struct {
	JID  string
	Name string
	// LastMessageAt is nil until the first message for the chat is seen.
	LastMessageAt *int64
}

// Contact maps a JID to its display name.
type Contact struct {
	JID  string
	Name string
}

// File is the content of a media message.
type File struct {
	Kind FileKind
	// Path is relative to the media directory.
	Path    string
	FileID  string
	Caption string
}

// Message is a single chat message. Exactly one of Text or File is meaningful:
// File != nil marks a media message.
type Message struct {
	ID        string
	ChatJID   string
	SenderJID string
	Timestamp int64
	FromMe    bool
	// QuoteID references another message and may dangle.
	QuoteID   string
	ReadCount int
	Text      string
	File      *File
}

// IsFile reports whether the message carries media.
func (m *Message) IsFile() bool {
	return m.File != nil
}

// Preview returns a one-line description of the message content.
func (m *Message) Preview() string {
	if m.File == nil {
		return m.Text
	}
	if m.File.Caption != "" {
		return string(m.File.Kind) + ": " + m.File.Caption
	}
	return string(m.File.Kind) + ": " + m.File.Path
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}
