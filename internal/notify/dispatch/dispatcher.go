package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pawsuite/notify/internal/core/domain"
	"github.com/pawsuite/notify/internal/infra/storage"
	"github.com/pawsuite/notify/internal/notify/errclass"
	"github.com/pawsuite/notify/internal/notify/metrics"
)

// Dispatcher turns business events into outbound sends. It never
// propagates a provider failure to the caller; both returned failures and
// errors are folded into the trigger result's error strings.
type Dispatcher struct {
	sender      Sender
	reportCards storage.ReportCardRepository
	logs        storage.NotificationLogRepository
	log         *slog.Logger
}

// NewDispatcher creates a dispatcher. The log repository may be nil, in
// which case delivery attempts are not recorded.
func NewDispatcher(
	sender Sender,
	reportCards storage.ReportCardRepository,
	logs storage.NotificationLogRepository,
	log *slog.Logger,
) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		sender:      sender,
		reportCards: reportCards,
		logs:        logs,
		log:         log,
	}
}

// attempt performs one channel send and classifies the outcome. The
// returned string is empty on success; otherwise it carries the
// "<label> failed: ..." or "<label> error: ..." entry for the result's
// error list.
func (d *Dispatcher) attempt(
	ctx context.Context,
	label string,
	req domain.NotificationRequest,
	retryCount int,
) (ChannelOutcome, string) {
	out := ChannelOutcome{Attempted: true}

	start := time.Now()
	res, err := d.sender.Send(ctx, req)
	metrics.SendLatency.WithLabelValues(string(req.Channel)).Observe(time.Since(start).Seconds())

	if err != nil {
		cls := errclass.Classify(err)
		metrics.SendsTotal.WithLabelValues(string(req.Type), string(req.Channel), "error").Inc()
		metrics.ErrorsClassified.WithLabelValues(string(cls.Kind)).Inc()
		d.log.Warn("send call failed",
			"event", req.Type,
			"channel", req.Channel,
			"kind", cls.Kind,
			"retryable", cls.Retryable,
			"error", cls.Message,
		)
		out.Retryable = cls.Retryable
		d.record(ctx, req, domain.NotificationResult{Error: cls.Message}, retryCount)
		return out, fmt.Sprintf("%s error: %s", label, cls.Message)
	}

	out.Result = res
	d.record(ctx, req, res, retryCount)

	if !res.Success {
		cls := errclass.Classify(errors.New(res.Error))
		metrics.SendsTotal.WithLabelValues(string(req.Type), string(req.Channel), "failed").Inc()
		metrics.ErrorsClassified.WithLabelValues(string(cls.Kind)).Inc()
		d.log.Warn("send rejected by provider",
			"event", req.Type,
			"channel", req.Channel,
			"kind", cls.Kind,
			"retryable", cls.Retryable,
			"error", res.Error,
		)
		out.Retryable = cls.Retryable
		return out, fmt.Sprintf("%s failed: %s", label, res.Error)
	}

	out.Sent = true
	metrics.SendsTotal.WithLabelValues(string(req.Type), string(req.Channel), "sent").Inc()
	return out, ""
}

func (d *Dispatcher) record(
	ctx context.Context,
	req domain.NotificationRequest,
	res domain.NotificationResult,
	retryCount int,
) {
	if d.logs == nil {
		return
	}
	entry := &domain.NotificationLog{
		ID:         uuid.NewString(),
		Event:      req.Type,
		Channel:    req.Channel,
		Recipient:  req.Recipient,
		UserID:     req.UserID,
		Success:    res.Success,
		MessageID:  res.MessageID,
		Error:      res.Error,
		RetryCount: retryCount,
		CreatedAt:  time.Now().UTC(),
	}
	if err := d.logs.Record(ctx, entry); err != nil {
		d.log.Warn("failed to record delivery attempt", "event", req.Type, "error", err)
	}
}
