package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawsuite/notify/internal/core/domain"
	redisq "github.com/pawsuite/notify/internal/infra/redis"
	"github.com/pawsuite/notify/internal/notify/dispatch"
	"github.com/pawsuite/notify/internal/notify/metrics"
	"github.com/pawsuite/notify/internal/notify/retry"
)

// retryQueue is the slice of the redis queue the sweeper needs.
type retryQueue interface {
	Schedule(ctx context.Context, job redisq.Job, due time.Time) error
	PopDue(ctx context.Context, now time.Time, limit int) ([]redisq.Job, error)
}

// RetrySweeper periodically pops due retry jobs and re-runs the matching
// trigger. Failures that are still retryable go back on the queue with
// exponential backoff; validation/permanent failures and exhausted
// budgets are dropped.
type RetrySweeper struct {
	queue      retryQueue
	dispatcher *dispatch.Dispatcher
	policy     retry.Policy
	interval   time.Duration
	batchSize  int
	log        *slog.Logger
	now        func() time.Time
}

// NewRetrySweeper creates a retry sweeper.
func NewRetrySweeper(
	queue retryQueue,
	dispatcher *dispatch.Dispatcher,
	policy retry.Policy,
	interval time.Duration,
	log *slog.Logger,
) *RetrySweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &RetrySweeper{
		queue:      queue,
		dispatcher: dispatcher,
		policy:     policy,
		interval:   interval,
		batchSize:  100,
		log:        log,
		now:        time.Now,
	}
}

// ScheduleRetry enqueues the first retry for a failed trigger. The caller
// decides to retry; the sweeper executes it when due.
func (s *RetrySweeper) ScheduleRetry(
	ctx context.Context,
	event domain.EventType,
	payload any,
	retryCount int,
) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := redisq.Job{
		ID:         uuid.NewString(),
		Event:      event,
		Payload:    raw,
		RetryCount: retryCount,
	}
	due := retry.NextAttempt(s.now(), retryCount, s.policy)
	if err := s.queue.Schedule(ctx, job, due); err != nil {
		return err
	}
	metrics.RetriesScheduled.Inc()
	return nil
}

// Start runs the sweeper loop until the context is cancelled.
func (s *RetrySweeper) Start(ctx context.Context) {
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

func (s *RetrySweeper) sweep(ctx context.Context) {
	jobs, err := s.queue.PopDue(ctx, s.now(), s.batchSize)
	if err != nil {
		s.log.Error("failed to pop due retries", "error", err)
		return
	}

	for _, job := range jobs {
		s.process(ctx, job)
	}
}

func (s *RetrySweeper) process(ctx context.Context, job redisq.Job) {
	res, ok := s.dispatchJob(ctx, job)
	if !ok {
		metrics.RetriesDropped.WithLabelValues("unknown_event").Inc()
		s.log.Warn("dropping retry with unknown event", "job", job.ID, "event", job.Event)
		return
	}

	if res.Succeeded() {
		s.log.Info("retry succeeded", "job", job.ID, "event", job.Event, "attempt", job.RetryCount)
		return
	}

	if !res.Retryable() {
		metrics.RetriesDropped.WithLabelValues("permanent").Inc()
		s.log.Warn("dropping retry, failure is not retryable",
			"job", job.ID,
			"event", job.Event,
			"errors", strings.Join(res.Errors, "; "),
		)
		return
	}

	next := job.RetryCount + 1
	if retry.Exceeded(next, s.policy.MaxRetries) {
		metrics.RetriesDropped.WithLabelValues("exhausted").Inc()
		s.log.Warn("dropping retry, budget exhausted",
			"job", job.ID,
			"event", job.Event,
			"attempts", next,
		)
		return
	}

	job.RetryCount = next
	job.LastError = strings.Join(res.Errors, "; ")
	due := retry.NextAttempt(s.now(), next, s.policy)
	if err := s.queue.Schedule(ctx, job, due); err != nil {
		s.log.Error("failed to reschedule retry", "job", job.ID, "error", err)
		return
	}
	metrics.RetriesScheduled.Inc()
	s.log.Info("retry rescheduled", "job", job.ID, "event", job.Event, "attempt", next, "due", due)
}

// dispatchJob routes a job to the trigger for its event type.
func (s *RetrySweeper) dispatchJob(ctx context.Context, job redisq.Job) (dispatch.Result, bool) {
	switch job.Event {
	case domain.EventBookingConfirmation:
		var data dispatch.BookingConfirmationData
		if err := json.Unmarshal(job.Payload, &data); err != nil {
			return dispatch.Result{}, false
		}
		data.RetryCount = job.RetryCount
		return s.dispatcher.BookingConfirmation(ctx, data), true

	case domain.EventAppointmentCheckedIn, domain.EventAppointmentReady:
		var data dispatch.StatusChangeData
		if err := json.Unmarshal(job.Payload, &data); err != nil {
			return dispatch.Result{}, false
		}
		data.RetryCount = job.RetryCount
		return s.dispatcher.AppointmentStatusChange(ctx, data), true

	case domain.EventReportCardCompleted:
		var data dispatch.ReportCardData
		if err := json.Unmarshal(job.Payload, &data); err != nil {
			return dispatch.Result{}, false
		}
		data.RetryCount = job.RetryCount
		return s.dispatcher.ReportCardCompleted(ctx, data), true
	}
	return dispatch.Result{}, false
}
