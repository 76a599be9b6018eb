package dispatch

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/pawsuite/notify/internal/core/domain"
	"github.com/pawsuite/notify/internal/infra/storage/memory"
)

// fakeSender captures requests and answers with a configurable response.
// The default response is a successful send.
type fakeSender struct {
	mu       sync.Mutex
	requests []domain.NotificationRequest
	respond  func(req domain.NotificationRequest) (domain.NotificationResult, error)
}

func (f *fakeSender) Send(ctx context.Context, req domain.NotificationRequest) (domain.NotificationResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.respond != nil {
		return f.respond(req)
	}
	return domain.NotificationResult{Success: true, MessageID: "msg-" + string(req.Channel)}, nil
}

func (f *fakeSender) sent() []domain.NotificationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.NotificationRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeSender) byChannel(ch domain.Channel) (domain.NotificationRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if req.Channel == ch {
			return req, true
		}
	}
	return domain.NotificationRequest{}, false
}

func newTestDispatcher(sender *fakeSender) (*Dispatcher, *memory.MemoryStorage) {
	store := memory.NewMemoryStorage()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := NewDispatcher(sender, memory.NewReportCardRepo(store), memory.NewNotificationLogRepo(store), log)
	return d, store
}
