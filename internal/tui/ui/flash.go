package ui

import (
	"sync"
	"time"
)

// FlashLevel represents the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// FlashMessage is a flash notification with a level and expiry.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

// FlashModel holds the current transient notification.
type FlashModel struct {
	mu       sync.RWMutex
	current  FlashMessage
	now      func() time.Time
	onExpire func()
}

// NewFlashModel creates a new flash model. onExpire, if set, is called
// from a timer goroutine once a message times out.
func NewFlashModel(onExpire func()) *FlashModel {
	return &FlashModel{now: time.Now, onExpire: onExpire}
}

// Info sets an info-level flash message.
func (f *FlashModel) Info(msg string) {
	f.set(msg, FlashInfo, 5*time.Second)
}

// Warn sets a warn-level flash message.
func (f *FlashModel) Warn(msg string) {
	f.set(msg, FlashWarn, 8*time.Second)
}

// Err sets an error-level flash message.
func (f *FlashModel) Err(err error) {
	f.set(err.Error(), FlashErr, 10*time.Second)
}

// Clear drops the current message.
func (f *FlashModel) Clear() {
	f.mu.Lock()
	f.current = FlashMessage{}
	f.mu.Unlock()
}

func (f *FlashModel) set(msg string, level FlashLevel, d time.Duration) {
	f.mu.Lock()
	f.current = FlashMessage{
		Text:    msg,
		Level:   level,
		Expires: f.now().Add(d),
	}
	f.mu.Unlock()
	if f.onExpire != nil {
		time.AfterFunc(d, f.onExpire)
	}
}

// Get returns the current flash message text, or empty if expired.
func (f *FlashModel) Get() string {
	if m := f.GetMessage(); m != nil {
		return m.Text
	}
	return ""
}

// GetMessage returns the current flash message, or nil if expired.
func (f *FlashModel) GetMessage() *FlashMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current.Text == "" || !f.now().Before(f.current.Expires) {
		return nil
	}
	m := f.current
	return &m
}

// FlashColor returns the tview color name for a flash level.
func (t *Theme) FlashColor(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return ColorName(t.FlashWarnColor)
	case FlashErr:
		return ColorName(t.FlashErrColor)
	default:
		return ColorName(t.FlashInfoColor)
	}
}
