// Package event lists workshop event records for the dashboard index.
package event

import (
	"context"
	"errors"
	"fmt"

	"bobadash/internal/airbridge"
	"bobadash/internal/authz"
	"bobadash/internal/domain"
	dErrors "bobadash/pkg/domain-errors"
	"bobadash/pkg/platform/audit"
	"bobadash/pkg/platform/sentinel"
	"bobadash/pkg/requestcontext"
)

const tableEventCodes = "Event Codes"

// Upstream fetches raw records from the spreadsheet-backed store.
type Upstream interface {
	List(ctx context.Context, table string, q airbridge.Query) ([]airbridge.Record, error)
}

// Service lists events under the admin/owner scoping rules.
type Service struct {
	upstream   Upstream
	authorizer *authz.Authorizer
	auditor    audit.Publisher
}

func NewService(upstream Upstream, authorizer *authz.Authorizer, auditor audit.Publisher) *Service {
	return &Service{upstream: upstream, authorizer: authorizer, auditor: auditor}
}

// ListAll returns every event record. Admin scope only.
func (s *Service) ListAll(ctx context.Context) ([]domain.EventRecord, error) {
	identity := requestcontext.Identity(ctx)
	if _, err := s.authorizer.Decide(identity, authz.AllEvents()); err != nil {
		s.publishDenied(ctx, identity, err)
		return nil, err
	}

	records, err := s.upstream.List(ctx, tableEventCodes, airbridge.Query{
		Fields: []string{"Event Code", "Status", "Organizer Name", "Slack ID"},
	})
	if err != nil {
		return nil, translateUpstream(err)
	}

	s.auditor.Publish(audit.Event{
		SlackID:   identity.SlackID,
		Action:    audit.EventEventsListed,
		Decision:  string(authz.DecisionAllowAll),
		RequestID: requestcontext.RequestID(ctx),
	})

	return normalizeEvents(records), nil
}

// ListByOwner returns the events owned by the given Slack ID. Callers may
// list their own events; admins may list anyone's.
func (s *Service) ListByOwner(ctx context.Context, ownerSlackID string) ([]domain.EventRecord, error) {
	if ownerSlackID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "missing owner slack id")
	}

	identity := requestcontext.Identity(ctx)
	decision, err := s.authorizer.Decide(identity, authz.EventsOwnedBy(ownerSlackID))
	if err != nil {
		s.publishDenied(ctx, identity, err)
		return nil, err
	}

	records, err := s.upstream.List(ctx, tableEventCodes, airbridge.Query{
		Fields:          []string{"Event Code", "Status", "Organizer Name"},
		FilterByFormula: fmt.Sprintf("{Slack ID} = '%s'", airbridge.EscapeFormulaValue(ownerSlackID)),
	})
	if err != nil {
		return nil, translateUpstream(err)
	}

	s.auditor.Publish(audit.Event{
		SlackID:   identity.SlackID,
		Action:    audit.EventEventsListed,
		Decision:  string(decision),
		RequestID: requestcontext.RequestID(ctx),
	})

	return normalizeEvents(records), nil
}

func normalizeEvents(records []airbridge.Record) []domain.EventRecord {
	out := make([]domain.EventRecord, 0, len(records))
	for _, r := range records {
		status := r.Str("Status", "status")
		if status == "" {
			status = string(domain.EventActive)
		}
		out = append(out, domain.EventRecord{
			ID:            r.ID,
			Code:          r.Str("Event Code", "code"),
			Status:        status,
			OrganizerName: r.Str("Organizer Name"),
			SlackID:       r.Str("Slack ID"),
		})
	}
	return out
}

func (s *Service) publishDenied(ctx context.Context, identity domain.Identity, err error) {
	s.auditor.Publish(audit.Event{
		SlackID:   identity.SlackID,
		Action:    audit.EventAuthzDenied,
		Reason:    err.Error(),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
	})
}

func translateUpstream(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrTimeout):
		return dErrors.Wrap(err, dErrors.CodeUpstreamTimeout, "upstream request timed out after 8s")
	case errors.Is(err, sentinel.ErrBadPayload):
		return dErrors.Wrap(err, dErrors.CodeBadUpstream, "bad JSON from upstream")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeBadUpstream, "upstream error")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "event listing failed")
	}
}
