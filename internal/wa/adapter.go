package wa

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matheus3301/whatsterm/internal/store"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	wastore "go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotLoggedIn is returned by calls that need a paired device.
var ErrNotLoggedIn = errors.New("wa: not logged in")

// Adapter wraps the whatsmeow client and manages the WhatsApp connection.
type Adapter struct {
	client    *whatsmeow.Client
	container *sqlstore.Container
	logger    *zap.Logger
}

// NewAdapter opens the device store at dbPath and creates a client.
func NewAdapter(ctx context.Context, dbPath string, logger *zap.Logger) (*Adapter, error) {
	// Set device name shown on the phone's linked devices list.
	wastore.SetOSInfo("whatsterm", [3]uint32{0, 1, 0})

	container, err := sqlstore.New(ctx, "sqlite3",
		fmt.Sprintf("file:%s?_foreign_keys=on", dbPath),
		NewLogger(logger.Named("wa-db")),
	)
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		_ = container.Close()
		return nil, fmt.Errorf("get device store: %w", err)
	}

	return &Adapter{
		client:    whatsmeow.NewClient(deviceStore, NewLogger(logger.Named("wa"))),
		container: container,
		logger:    logger,
	}, nil
}

// AddEventHandler registers a whatsmeow event handler.
func (a *Adapter) AddEventHandler(handler whatsmeow.EventHandler) uint32 {
	return a.client.AddEventHandler(handler)
}

// IsLoggedIn returns whether the adapter has valid credentials.
func (a *Adapter) IsLoggedIn() bool {
	return a.client.Store.ID != nil
}

// OwnJID returns the paired account's JID, or "" before pairing.
func (a *Adapter) OwnJID() string {
	if a.client.Store.ID == nil {
		return ""
	}
	return normalizeJID(*a.client.Store.ID)
}

// Connect opens the connection. Without credentials it starts pairing and
// calls onQR, from a background goroutine, for every QR code to display.
func (a *Adapter) Connect(ctx context.Context, onQR func(code string)) error {
	if a.IsLoggedIn() {
		a.logger.Info("connecting to WhatsApp")
		return a.client.Connect()
	}

	// GetQRChannel must be called before Connect.
	qrChan, err := a.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("get QR channel: %w", err)
	}
	a.logger.Info("connecting to WhatsApp for pairing")
	if err := a.client.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	go func() {
		for item := range qrChan {
			switch item.Event {
			case whatsmeow.QRChannelEventCode:
				onQR(item.Code)
			case whatsmeow.QRChannelSuccess.Event:
				a.logger.Info("pairing succeeded")
			case whatsmeow.QRChannelEventError:
				a.logger.Error("pairing failed", zap.Error(item.Error))
			default:
				a.logger.Warn("pairing ended", zap.String("event", item.Event))
			}
		}
	}()
	return nil
}

// Disconnect terminates the WhatsApp connection.
func (a *Adapter) Disconnect() {
	a.logger.Info("disconnecting from WhatsApp")
	a.client.Disconnect()
}

// Close disconnects and releases the device store.
func (a *Adapter) Close() error {
	a.client.Disconnect()
	return a.container.Close()
}

// PairPhone requests a pairing code for the given phone number. It must be
// called while the QR pairing flow is active.
func (a *Adapter) PairPhone(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	code, err := a.client.PairPhone(ctx, phone, true, whatsmeow.PairClientChrome, "Chrome (Linux)")
	if err != nil {
		return "", fmt.Errorf("pair phone: %w", err)
	}
	return code, nil
}

// SendMessage sends a text message, quoting another message when quote is
// set, and returns the sent message as the local model should store it.
func (a *Adapter) SendMessage(ctx context.Context, chat, text string, quote *store.Message) (store.Message, error) {
	if !a.IsLoggedIn() {
		return store.Message{}, ErrNotLoggedIn
	}
	to, err := types.ParseJID(chat)
	if err != nil {
		return store.Message{}, fmt.Errorf("parse JID: %w", err)
	}

	resp, err := a.client.SendMessage(ctx, to, buildTextMessage(text, quote))
	if err != nil {
		return store.Message{}, fmt.Errorf("send message: %w", err)
	}

	msg := store.Message{
		ID:        resp.ID,
		ChatJID:   normalizeJID(to),
		SenderJID: a.OwnJID(),
		Timestamp: resp.Timestamp.Unix(),
		FromMe:    true,
		Text:      text,
	}
	if quote != nil {
		msg.QuoteID = quote.ID
	}
	return msg, nil
}

func buildTextMessage(text string, quote *store.Message) *waE2E.Message {
	if quote == nil {
		return &waE2E.Message{Conversation: proto.String(text)}
	}
	ci := &waE2E.ContextInfo{
		StanzaID:    proto.String(quote.ID),
		Participant: proto.String(quote.SenderJID),
	}
	if quote.File == nil {
		ci.QuotedMessage = &waE2E.Message{Conversation: proto.String(quote.Text)}
	}
	return &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{
			Text:        proto.String(text),
			ContextInfo: ci,
		},
	}
}

// DownloadFile fetches and decrypts the file described by fileID into
// dest. An existing dest is kept as is.
func (a *Adapter) DownloadFile(ctx context.Context, fileID, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	info, err := DecodeFileID(fileID)
	if err != nil {
		return err
	}

	data, err := a.client.DownloadMediaWithPath(ctx, info.DirectPath, info.FileEncSHA256, info.FileSHA256,
		info.MediaKey, info.Size, info.MediaType, "")
	if err != nil {
		return fmt.Errorf("download media: %w", err)
	}
	return writeFileAtomic(dest, data)
}

func writeFileAtomic(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o700); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write media: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close media: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("rename media: %w", err)
	}
	return nil
}

// Contacts returns every known contact and joined group with its display
// name. Contacts without any name are skipped.
func (a *Adapter) Contacts(ctx context.Context) ([]store.Contact, error) {
	all, err := a.client.Store.Contacts.GetAllContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("get contacts: %w", err)
	}
	contacts := make([]store.Contact, 0, len(all))
	for jid, info := range all {
		if name := ContactName(info); name != "" {
			contacts = append(contacts, store.Contact{JID: normalizeJID(jid), Name: name})
		}
	}

	groups, err := a.client.GetJoinedGroups(ctx)
	if err != nil {
		a.logger.Warn("failed to get joined groups", zap.Error(err))
		return contacts, nil
	}
	for _, g := range groups {
		if g.Name != "" {
			contacts = append(contacts, store.Contact{JID: normalizeJID(g.JID), Name: g.Name})
		}
	}
	return contacts, nil
}

// ContactName picks a display name: full name, first name, then the
// contact's own push name or business name, marked as unverified.
func ContactName(info types.ContactInfo) string {
	switch {
	case info.FullName != "":
		return info.FullName
	case info.FirstName != "":
		return info.FirstName
	case info.PushName != "":
		return "~ " + info.PushName
	case info.BusinessName != "":
		return "+ " + info.BusinessName
	}
	return ""
}
