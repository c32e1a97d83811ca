package wa

import (
	"time"

	"github.com/matheus3301/whatsterm/internal/bus"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/proto/waHistorySync"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"go.uber.org/zap"
)

// Publisher accepts events from backend callback goroutines.
type Publisher interface {
	Publish(bus.Event)
}

// EventHandler translates whatsmeow events into bus events. It runs on
// whatsmeow's goroutines, so it only converts and publishes; all state
// changes happen on the application loop.
type EventHandler struct {
	pub    Publisher
	logger *zap.Logger
}

// NewEventHandler creates a new event handler.
func NewEventHandler(pub Publisher, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		pub:    pub,
		logger: logger,
	}
}

// Handle is the whatsmeow event handler function.
func (h *EventHandler) Handle(rawEvt any) {
	switch evt := rawEvt.(type) {
	case *events.Message:
		h.handleMessage(evt)
	case *events.HistorySync:
		h.handleHistorySync(evt)
	case *events.Receipt:
		h.handleReceipt(evt)
	case *events.AppStateSyncComplete:
		h.logger.Debug("app state sync complete", zap.String("name", string(evt.Name)))
		h.pub.Publish(bus.StateSyncComplete{})
	case *events.OfflineSyncCompleted:
		h.logger.Debug("offline sync complete", zap.Int("count", evt.Count))
		h.pub.Publish(bus.OfflineSyncComplete{Count: evt.Count})
	case *events.Connected:
		h.logger.Info("WhatsApp connected")
		h.pub.Publish(bus.Connected{})
	case *events.Disconnected:
		h.logger.Warn("WhatsApp disconnected")
		h.pub.Publish(bus.Disconnected{})
	case *events.LoggedOut:
		h.logger.Warn("WhatsApp logged out", zap.String("reason", evt.Reason.String()))
		h.pub.Publish(bus.LoggedOut{Reason: evt.Reason.String()})
	}
}

func (h *EventHandler) handleMessage(evt *events.Message) {
	msg, ok := ParseMessage(evt.Info, evt.Message)
	if !ok {
		h.logger.Debug("skipping message without content", zap.String("msg_id", evt.Info.ID))
		return
	}
	h.pub.Publish(bus.InboundMessage{Message: msg})
}

func (h *EventHandler) handleHistorySync(evt *events.HistorySync) {
	data := evt.Data
	if data == nil {
		return
	}

	count := 0
	for _, conv := range data.GetConversations() {
		chat, err := types.ParseJID(conv.GetID())
		if err != nil {
			h.logger.Warn("bad conversation jid in history sync", zap.String("jid", conv.GetID()), zap.Error(err))
			continue
		}
		for _, hm := range conv.GetMessages() {
			info, content, ok := historyMessage(chat, hm)
			if !ok {
				continue
			}
			if msg, ok := ParseMessage(info, content); ok {
				h.pub.Publish(bus.InboundMessage{Message: msg, HistorySync: true})
				count++
			}
		}
	}

	h.logger.Info("history sync batch",
		zap.String("type", data.GetSyncType().String()),
		zap.Int("messages", count),
		zap.Uint32("progress", data.GetProgress()),
	)
	if data.Progress != nil {
		h.pub.Publish(bus.SyncProgress{Percent: int(data.GetProgress())})
	}
}

// historyMessage rebuilds the message info of a history sync entry.
func historyMessage(chat types.JID, hm *waHistorySync.HistorySyncMsg) (types.MessageInfo, *waE2E.Message, bool) {
	wmsg := hm.GetMessage()
	if wmsg == nil || wmsg.GetMessage() == nil {
		return types.MessageInfo{}, nil, false
	}
	key := wmsg.GetKey()

	sender := chat
	participant := key.GetParticipant()
	if participant == "" {
		participant = wmsg.GetParticipant()
	}
	if participant != "" {
		if jid, err := types.ParseJID(participant); err == nil {
			sender = jid
		}
	}

	info := types.MessageInfo{
		MessageSource: types.MessageSource{
			Chat:     chat,
			Sender:   sender,
			IsFromMe: key.GetFromMe(),
			IsGroup:  chat.Server == types.GroupServer,
		},
		ID:        key.GetID(),
		Timestamp: time.Unix(int64(wmsg.GetMessageTimestamp()), 0),
		PushName:  wmsg.GetPushName(),
	}
	return info, wmsg.GetMessage(), true
}

func (h *EventHandler) handleReceipt(evt *events.Receipt) {
	var kind string
	switch evt.Type {
	case types.ReceiptTypeDelivered:
		kind = "delivered"
	case types.ReceiptTypeRead:
		kind = "read"
	default:
		h.logger.Debug("ignoring receipt", zap.String("type", string(evt.Type)))
		return
	}
	if len(evt.MessageIDs) == 0 {
		return
	}
	ids := make([]string, len(evt.MessageIDs))
	for i, id := range evt.MessageIDs {
		ids[i] = string(id)
	}
	h.pub.Publish(bus.Receipt{Kind: kind, Chat: normalizeJID(evt.Chat), MessageIDs: ids})
}
