// Package notify carries user-visible notifications (the storefront's toasts)
// from the stateful components to whatever presents them.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is one message shown to the shopper
type Notification struct {
	Level   Level     `json:"level"`
	Op      string    `json:"op"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notifications
type Notifier interface {
	Notify(n Notification)
}

// Success sends a success notification.
func Success(n Notifier, op, message string) {
	n.Notify(Notification{Level: LevelSuccess, Op: op, Message: message, At: time.Now().UTC()})
}

// Error sends an error notification.
func Error(n Notifier, op, message string) {
	n.Notify(Notification{Level: LevelError, Op: op, Message: message, At: time.Now().UTC()})
}

// Info sends an informational notification.
func Info(n Notifier, op, message string) {
	n.Notify(Notification{Level: LevelInfo, Op: op, Message: message, At: time.Now().UTC()})
}

// Feed buffers notifications until they are drained. When full, the oldest
// notification is dropped.
type Feed struct {
	mu       sync.Mutex
	capacity int
	items    []Notification
}

// DefaultFeedCapacity is used when NewFeed receives a non-positive capacity
const DefaultFeedCapacity = 64

// NewFeed creates a feed holding at most capacity notifications.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	return &Feed{capacity: capacity}
}

func (f *Feed) Notify(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.items) == f.capacity {
		f.items = f.items[1:]
	}
	f.items = append(f.items, n)
}

// Drain returns the buffered notifications in arrival order and empties
// the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.items
	f.items = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

// Len returns the number of buffered notifications.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Log writes notifications to a zap logger.
type Log struct {
	logger *zap.Logger
}

// NewLog creates a notifier that logs every notification.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(n Notification) {
	fields := []zap.Field{
		zap.String("op", n.Op),
		zap.String("message", n.Message),
	}
	if n.Level == LevelError {
		l.logger.Warn("Shopper notified of failure", fields...)
		return
	}
	l.logger.Debug("Shopper notified", append(fields, zap.String("level", string(n.Level)))...)
}

// Multi fans notifications out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}
