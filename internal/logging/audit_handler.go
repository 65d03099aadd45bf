package logging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/almaxtex/inventory-backend/internal/audit"
)

const flushThreshold = 50

// AuditHandler is an slog.Handler that batches ERROR+ records into the
// on-disk audit workbook, so operator-visible failures also land in the
// same trail the services write to.
type AuditHandler struct {
	logger *audit.Logger
	mu     sync.Mutex
	buffer []audit.Entry
	ticker *time.Ticker
	done   chan struct{}
}

func NewAuditHandler(logger *audit.Logger) *AuditHandler {
	h := &AuditHandler{
		logger: logger,
		buffer: make([]audit.Entry, 0, flushThreshold),
		ticker: time.NewTicker(5 * time.Second),
		done:   make(chan struct{}),
	}
	go h.flushLoop()
	return h
}

func (h *AuditHandler) flushLoop() {
	for {
		select {
		case <-h.ticker.C:
			h.flush()
		case <-h.done:
			h.flush()
			return
		}
	}
}

func (h *AuditHandler) flush() {
	h.mu.Lock()
	if len(h.buffer) == 0 {
		h.mu.Unlock()
		return
	}
	batch := h.buffer
	h.buffer = make([]audit.Entry, 0, flushThreshold)
	h.mu.Unlock()

	for _, entry := range batch {
		if err := h.logger.Append(entry); err != nil {
			// The audit trail must never take down logging itself, so
			// failures go to stdout only.
			fmt.Printf("audit flush failed: %v\n", err)
			return
		}
	}
}

func (h *AuditHandler) Stop() {
	h.ticker.Stop()
	close(h.done)
}

// Enabled only handles ERROR and above.
func (h *AuditHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *AuditHandler) Handle(_ context.Context, record slog.Record) error {
	entry := audit.Entry{
		Timestamp: record.Time,
		Category:  audit.CategoryError,
		Message:   record.Message,
		Detail:    "-",
	}

	record.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "function":
			entry.Function = a.Value.String()
		case "error":
			entry.Detail = a.Value.String()
		}
		return true
	})

	h.mu.Lock()
	h.buffer = append(h.buffer, entry)
	needFlush := len(h.buffer) >= flushThreshold
	h.mu.Unlock()

	if needFlush {
		go h.flush()
	}
	return nil
}

func (h *AuditHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *AuditHandler) WithGroup(name string) slog.Handler {
	return h
}
