// Package grant handles boba grant payout requests: validation, Slack
// notification, and the per-event cooldown record.
package grant

import (
	"context"
	"log/slog"
	"time"

	"bobadash/internal/domain"
	"bobadash/internal/grant/metrics"
	dErrors "bobadash/pkg/domain-errors"
	"bobadash/pkg/platform/audit"
	"bobadash/pkg/requestcontext"
)

// Notifier delivers a grant request to the payout channel.
type Notifier interface {
	Configured() bool
	Notify(ctx context.Context, req domain.GrantRequest) error
}

// Service runs the grant request pipeline. Validation runs to completion
// before any side effect; the notification is the authoritative record, so
// the cooldown marker is written only after delivery succeeds.
type Service struct {
	notifier  Notifier
	cooldowns CooldownStore
	auditor   audit.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(notifier Notifier, cooldowns CooldownStore, auditor audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		notifier:  notifier,
		cooldowns: cooldowns,
		auditor:   auditor,
		metrics:   m,
		logger:    logger,
	}
}

// Result is the pipeline outcome returned to the client.
type Result struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	RequestedAt time.Time `json:"requestedAt"`
}

// Submit validates, notifies, and records the request. Identity is required;
// the event code in the body is trusted as far as the dashboard trusts it
// anywhere (possession of the code is the access rule).
func (s *Service) Submit(ctx context.Context, submitted Submitted) (Result, error) {
	identity := requestcontext.Identity(ctx)
	if identity.IsZero() {
		return Result{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	req, err := Prepare(submitted)
	if err != nil {
		s.metrics.IncrementRequestOutcome("validation_error")
		s.auditor.Publish(audit.Event{
			SlackID:   identity.SlackID,
			Action:    audit.EventGrantRejected,
			EventCode: submitted.EventCode,
			Reason:    err.Error(),
			RequestID: requestcontext.RequestID(ctx),
			ClientIP:  requestcontext.ClientIP(ctx),
			UserAgent: requestcontext.UserAgent(ctx),
		})
		return Result{}, err
	}

	requestedAt := requestcontext.Now(ctx)

	if !s.notifier.Configured() {
		s.metrics.IncrementRequestOutcome("accepted_unnotified")
		s.logger.WarnContext(ctx, "grant request accepted without notification",
			slog.String("event_code", req.EventCode),
			slog.String("request_id", requestcontext.RequestID(ctx)),
		)
		s.recordCooldown(ctx, req.EventCode, requestedAt)
		return Result{
			Success:     true,
			Message:     "Grant request received (Slack notifications not configured)",
			RequestedAt: requestedAt,
		}, nil
	}

	start := time.Now()
	err = s.notifier.Notify(ctx, req)
	s.metrics.ObserveNotifyLatency(time.Since(start))
	if err != nil {
		s.metrics.IncrementRequestOutcome("notification_failed")
		s.auditor.Publish(audit.Event{
			SlackID:   identity.SlackID,
			Action:    audit.EventNotificationFailed,
			EventCode: req.EventCode,
			Reason:    err.Error(),
			RequestID: requestcontext.RequestID(ctx),
		})
		return Result{}, dErrors.Wrap(err, dErrors.CodeNotificationFailed, "failed to deliver grant notification")
	}

	s.recordCooldown(ctx, req.EventCode, requestedAt)

	s.metrics.IncrementRequestOutcome("accepted")
	s.auditor.Publish(audit.Event{
		SlackID:   identity.SlackID,
		Action:    audit.EventGrantRequested,
		EventCode: req.EventCode,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
	})

	return Result{
		Success:     true,
		Message:     "Grant request submitted successfully",
		RequestedAt: requestedAt,
	}, nil
}

// recordCooldown starts the 24h window after an accepted request. The write
// is best-effort: the request itself already succeeded, so a store hiccup
// must not fail the call.
func (s *Service) recordCooldown(ctx context.Context, eventCode string, requestedAt time.Time) {
	marker := domain.CooldownMarker{EventCode: eventCode, RequestedAt: requestedAt}
	if err := s.cooldowns.Put(ctx, marker); err != nil {
		s.logger.ErrorContext(ctx, "failed to record grant cooldown",
			slog.String("event_code", eventCode),
			slog.String("error", err.Error()),
		)
	}
}
