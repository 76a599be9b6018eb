package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/pawsuite/notify/internal/infra/storage"
	"github.com/pawsuite/notify/internal/notify/waitlist"
)

// OfferSweeper expires claim windows that have lapsed and offers the slot
// to the next customer in line. Running the cascade here, one step per
// sweep, keeps a single expiration from recursing through the whole
// waitlist in one request.
type OfferSweeper struct {
	entries   storage.WaitlistRepository
	processor *waitlist.Processor
	interval  time.Duration
	batchSize int
	log       *slog.Logger
	now       func() time.Time
}

// NewOfferSweeper creates an offer sweeper.
func NewOfferSweeper(
	entries storage.WaitlistRepository,
	processor *waitlist.Processor,
	interval time.Duration,
	log *slog.Logger,
) *OfferSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &OfferSweeper{
		entries:   entries,
		processor: processor,
		interval:  interval,
		batchSize: 50,
		log:       log,
		now:       time.Now,
	}
}

// Start runs the sweeper loop until the context is cancelled.
func (s *OfferSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *OfferSweeper) sweep(ctx context.Context) {
	expired, err := s.entries.FindExpiredOffers(ctx, s.now().UTC(), s.batchSize)
	if err != nil {
		s.log.Error("failed to find expired offers", "error", err)
		return
	}

	for _, entry := range expired {
		applied, err := s.processor.ExpireOffer(ctx, entry.ID)
		if err != nil {
			s.log.Error("failed to expire offer", "entry", entry.ID, "error", err)
			continue
		}
		if !applied {
			// Claimed (or already expired) between the fetch and the update.
			continue
		}

		res := s.processor.NotifyBatch(ctx, waitlist.BatchRequest{
			ServiceID: entry.ServiceID,
			StartsAt:  entry.PreferredDate,
			Count:     1,
		})
		if res.Error != "" {
			s.log.Warn("failed to offer slot to next in line",
				"service", entry.ServiceID,
				"error", res.Error,
			)
		}
	}
}
