// Package notify delivers the transient success/warning/error messages the
// dashboard shows as toasts. The console keeps a bounded feed of recent
// notifications so the UI can render them, and mirrors each one to the log.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Notifier interface {
	Success(title, message string)
	Warning(title, message string)
	Error(title, message string)
	Info(title, message string)
}

const feedCapacity = 100

// Hub is the default Notifier: a ring of the last notifications plus a logrus
// mirror.
type Hub struct {
	mu     sync.Mutex
	items  []Notification
	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{logger: logger}
}

func (h *Hub) push(level Level, title, message string) {
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	h.items = append(h.items, n)
	if len(h.items) > feedCapacity {
		h.items = h.items[len(h.items)-feedCapacity:]
	}
	h.mu.Unlock()

	entry := h.logger.WithFields(logrus.Fields{"title": title, "level": level})
	switch level {
	case LevelError:
		entry.Error(message)
	case LevelWarning:
		entry.Warn(message)
	default:
		entry.Info(message)
	}
}

func (h *Hub) Success(title, message string) { h.push(LevelSuccess, title, message) }
func (h *Hub) Warning(title, message string) { h.push(LevelWarning, title, message) }
func (h *Hub) Error(title, message string)   { h.push(LevelError, title, message) }
func (h *Hub) Info(title, message string)    { h.push(LevelInfo, title, message) }

// Recent returns up to limit notifications, newest first.
func (h *Hub) Recent(limit int) []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 || limit > len(h.items) {
		limit = len(h.items)
	}
	out := make([]Notification, 0, limit)
	for i := len(h.items) - 1; i >= len(h.items)-limit; i-- {
		out = append(out, h.items[i])
	}
	return out
}
