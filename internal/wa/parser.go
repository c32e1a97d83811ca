package wa

import (
	"github.com/matheus3301/whatsterm/internal/store"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
)

// normalizeJID strips the device suffix so one contact maps to one chat.
func normalizeJID(j types.JID) string {
	if j.IsEmpty() {
		return ""
	}
	return j.ToNonAD().String()
}

// ParseMessage converts a backend message into the local model. ok is
// false for messages without displayable content (reactions, protocol
// messages, polls and the like).
func ParseMessage(info types.MessageInfo, msg *waE2E.Message) (store.Message, bool) {
	out := store.Message{
		ID:        info.ID,
		ChatJID:   normalizeJID(info.Chat),
		SenderJID: normalizeJID(info.Sender),
		Timestamp: info.Timestamp.Unix(),
		FromMe:    info.IsFromMe,
	}
	if out.ID == "" || out.ChatJID == "" || msg == nil {
		return out, false
	}
	if out.SenderJID == "" {
		out.SenderJID = out.ChatJID
	}
	out.QuoteID = quoteID(msg)

	if text := extractTextBody(msg); text != "" {
		out.Text = text
		return out, true
	}
	file, ok := extractFile(out.ID, msg)
	if !ok {
		return out, false
	}
	out.File = file
	return out, true
}

func extractTextBody(msg *waE2E.Message) string {
	if msg == nil {
		return ""
	}
	if c := msg.GetConversation(); c != "" {
		return c
	}
	if ext := msg.GetExtendedTextMessage(); ext != nil {
		return ext.GetText()
	}
	return ""
}

// quoteID returns the ID of the message msg replies to, if any.
func quoteID(msg *waE2E.Message) string {
	var ci *waE2E.ContextInfo
	switch {
	case msg.GetExtendedTextMessage() != nil:
		ci = msg.GetExtendedTextMessage().GetContextInfo()
	case msg.GetImageMessage() != nil:
		ci = msg.GetImageMessage().GetContextInfo()
	case msg.GetVideoMessage() != nil:
		ci = msg.GetVideoMessage().GetContextInfo()
	case msg.GetAudioMessage() != nil:
		ci = msg.GetAudioMessage().GetContextInfo()
	case msg.GetDocumentMessage() != nil:
		ci = msg.GetDocumentMessage().GetContextInfo()
	case msg.GetStickerMessage() != nil:
		ci = msg.GetStickerMessage().GetContextInfo()
	}
	return ci.GetStanzaID()
}

type media struct {
	kind     store.FileKind
	msg      whatsmeow.DownloadableMessage
	mimetype string
	caption  string
	fileName string
}

func detectMedia(msg *waE2E.Message) (media, bool) {
	switch {
	case msg.GetImageMessage() != nil:
		m := msg.GetImageMessage()
		return media{store.FileImage, m, m.GetMimetype(), m.GetCaption(), ""}, true
	case msg.GetVideoMessage() != nil:
		m := msg.GetVideoMessage()
		return media{store.FileVideo, m, m.GetMimetype(), m.GetCaption(), ""}, true
	case msg.GetAudioMessage() != nil:
		m := msg.GetAudioMessage()
		return media{store.FileAudio, m, m.GetMimetype(), "", ""}, true
	case msg.GetDocumentMessage() != nil:
		m := msg.GetDocumentMessage()
		caption := m.GetCaption()
		if caption == "" {
			caption = m.GetFileName()
		}
		return media{store.FileDocument, m, m.GetMimetype(), caption, m.GetFileName()}, true
	case msg.GetStickerMessage() != nil:
		m := msg.GetStickerMessage()
		return media{store.FileSticker, m, m.GetMimetype(), "", ""}, true
	}
	return media{}, false
}

func extractFile(msgID string, msg *waE2E.Message) (*store.File, bool) {
	md, ok := detectMedia(msg)
	if !ok {
		return nil, false
	}
	// Without a download descriptor the file still shows as a placeholder
	// but is never requested.
	fileID, _ := EncodeFileID(md.msg)
	return &store.File{
		Kind:    md.kind,
		Path:    mediaPath(msgID, md.kind, md.mimetype, md.fileName),
		FileID:  fileID,
		Caption: md.caption,
	}, true
}
