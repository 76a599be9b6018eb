package waitlist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pawsuite/notify/internal/core/domain"
	"github.com/pawsuite/notify/internal/infra/storage"
	"github.com/pawsuite/notify/internal/notify/dispatch"
	"github.com/pawsuite/notify/internal/notify/metrics"
)

// maxBatchNotify bounds the fan-out of a single batch regardless of what
// the caller asks for, to cap burst notification volume.
const maxBatchNotify = 10

// Config controls offer behavior.
type Config struct {
	// OfferWindow is how long a notified customer has to claim the slot.
	OfferWindow time.Duration
	// ClaimBaseURL is the public base for claim links.
	ClaimBaseURL string
}

// DefaultOfferWindow is used when Config.OfferWindow is zero.
const DefaultOfferWindow = 2 * time.Hour

// Processor offers freed slots to waitlisted customers in strict arrival
// order. Entries move active -> notified on a successful SMS, then to
// expired_offer when the claim window passes, or to claimed externally.
type Processor struct {
	entries storage.WaitlistRepository
	sender  dispatch.Sender
	cfg     Config
	log     *slog.Logger
	now     func() time.Time
}

// NewProcessor creates a waitlist processor.
func NewProcessor(entries storage.WaitlistRepository, sender dispatch.Sender, cfg Config, log *slog.Logger) *Processor {
	if cfg.OfferWindow <= 0 {
		cfg.OfferWindow = DefaultOfferWindow
	}
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		entries: entries,
		sender:  sender,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// Slot describes the freed slot being offered.
type Slot struct {
	ServiceID   string
	ServiceName string
	StartsAt    time.Time
}

// EntryResult is the per-entry outcome of an offer attempt.
type EntryResult struct {
	EntryID    string `json:"entry_id"`
	Sent       bool   `json:"sent"`
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchRequest asks for a freed slot to be offered to up to Count
// waitlisted customers of a service.
type BatchRequest struct {
	ServiceID   string
	ServiceName string
	StartsAt    time.Time
	Count       int
}

// BatchResult aggregates a batch offer run.
type BatchResult struct {
	Total   int           `json:"total"`
	Sent    int           `json:"sent"`
	Failed  int           `json:"failed"`
	Skipped int           `json:"skipped"`
	Error   string        `json:"error,omitempty"`
	Details []EntryResult `json:"details,omitempty"`
}

// NotifyEntry offers the slot to a single waitlist entry. Waitlist offers
// go out over SMS only; a missing phone number is a skip, not a failure.
// Only after the send succeeds does the entry transition active ->
// notified, with the claim deadline stamped. The transition is a
// compare-and-set on status, so a concurrent duplicate cannot
// double-count the offer.
func (p *Processor) NotifyEntry(ctx context.Context, entry *domain.WaitlistEntry, slot Slot) EntryResult {
	res := EntryResult{EntryID: entry.ID}

	if entry.Phone == "" {
		res.Skipped = true
		res.SkipReason = "No phone number on file"
		metrics.WaitlistOffers.WithLabelValues("skipped").Inc()
		return res
	}

	date, clock := formatSlotTime(slot.StartsAt)
	tmpl := map[string]string{
		"pet_name":       entry.PetName,
		"available_date": date,
		"available_time": clock,
		"claim_url":      p.claimURL(entry.ID),
		"expires_hours":  fmt.Sprintf("%.0f", p.cfg.OfferWindow.Hours()),
	}
	if slot.ServiceName != "" {
		tmpl["service_name"] = slot.ServiceName
	}

	sendRes, err := p.sender.Send(ctx, domain.NotificationRequest{
		Type:         domain.EventWaitlistSlotOpen,
		Channel:      domain.ChannelSMS,
		Recipient:    entry.Phone,
		UserID:       entry.CustomerID,
		TemplateData: tmpl,
	})
	if err != nil {
		res.Error = err.Error()
		metrics.WaitlistOffers.WithLabelValues("failed").Inc()
		p.log.Warn("waitlist offer send failed", "entry", entry.ID, "error", err)
		return res
	}
	if !sendRes.Success {
		res.Error = sendRes.Error
		metrics.WaitlistOffers.WithLabelValues("failed").Inc()
		p.log.Warn("waitlist offer rejected by provider", "entry", entry.ID, "error", sendRes.Error)
		return res
	}

	res.Sent = true
	metrics.WaitlistOffers.WithLabelValues("sent").Inc()

	notifiedAt := p.now().UTC()
	expiresAt := notifiedAt.Add(p.cfg.OfferWindow)
	applied, err := p.entries.MarkNotified(ctx, entry.ID, notifiedAt, expiresAt)
	if err != nil {
		// The customer was notified; a failed state write must not undo that.
		p.log.Warn("failed to mark entry notified", "entry", entry.ID, "error", err)
	} else if !applied {
		p.log.Info("entry no longer active, offer state unchanged", "entry", entry.ID)
	}

	return res
}

// NotifyBatch offers a freed slot to up to req.Count waitlisted customers
// of a service. Selection is strictly FIFO by creation time; the sends
// themselves fan out concurrently since each entry's outcome is
// independent. The fan-out is clamped to [1, 10] regardless of input.
func (p *Processor) NotifyBatch(ctx context.Context, req BatchRequest) BatchResult {
	if _, err := uuid.Parse(strings.TrimSpace(req.ServiceID)); err != nil {
		return BatchResult{Error: fmt.Sprintf("invalid service id: %q", req.ServiceID)}
	}

	count := req.Count
	if count < 1 {
		count = 1
	}
	if count > maxBatchNotify {
		count = maxBatchNotify
	}

	entries, err := p.entries.FindActive(ctx, req.ServiceID, count)
	if err != nil {
		return BatchResult{Error: fmt.Sprintf("failed to fetch waitlist entries: %s", err)}
	}
	if len(entries) == 0 {
		return BatchResult{}
	}

	slot := Slot{ServiceID: req.ServiceID, ServiceName: req.ServiceName, StartsAt: req.StartsAt}
	details := make([]EntryResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			details[i] = p.NotifyEntry(gctx, entry, slot)
			return nil
		})
	}
	_ = g.Wait()

	res := BatchResult{Total: len(entries), Details: details}
	for _, d := range details {
		switch {
		case d.Sent:
			res.Sent++
		case d.Skipped:
			res.Skipped++
		default:
			res.Failed++
		}
	}

	p.log.Info("waitlist batch complete",
		"service", req.ServiceID,
		"total", res.Total,
		"sent", res.Sent,
		"failed", res.Failed,
		"skipped", res.Skipped,
	)
	return res
}

// ExpireOffer transitions a notified entry to expired_offer. It reports
// whether the transition applied; offering the slot to the next customer
// in line is owned by the periodic sweep, not done inline, so a single
// request can never fan into an unbounded cascade.
func (p *Processor) ExpireOffer(ctx context.Context, entryID string) (bool, error) {
	applied, err := p.entries.MarkExpired(ctx, entryID, p.now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to expire offer: %w", err)
	}
	if applied {
		metrics.WaitlistOffers.WithLabelValues("expired").Inc()
		p.log.Info("offer expired", "entry", entryID)
	}
	return applied, nil
}

func (p *Processor) claimURL(entryID string) string {
	base := strings.TrimRight(p.cfg.ClaimBaseURL, "/")
	return fmt.Sprintf("%s/waitlist/claim/%s", base, entryID)
}

func formatSlotTime(t time.Time) (date, clock string) {
	return t.Format("Monday, January 2, 2006"), t.Format("3:04 PM")
}
