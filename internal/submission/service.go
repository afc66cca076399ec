package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bobadash/internal/airbridge"
	"bobadash/internal/authz"
	"bobadash/internal/domain"
	"bobadash/internal/submission/metrics"
	dErrors "bobadash/pkg/domain-errors"
	"bobadash/pkg/platform/audit"
	"bobadash/pkg/platform/sentinel"
	"bobadash/pkg/requestcontext"
)

// Upstream fetches raw records from the spreadsheet-backed store.
type Upstream interface {
	List(ctx context.Context, table string, q airbridge.Query) ([]airbridge.Record, error)
}

// CooldownReader looks up the grant-request cooldown marker for an event.
// A nil marker means no request is on record.
type CooldownReader interface {
	Get(ctx context.Context, eventCode string) (*domain.CooldownMarker, error)
}

const (
	tableEventCodes = "Event Codes"
	tableWebsites   = "Websites"
)

// Service resolves an event code and produces the filtered, paginated
// submission view with its grant eligibility.
type Service struct {
	upstream   Upstream
	authorizer *authz.Authorizer
	cooldowns  CooldownReader
	auditor    audit.Publisher
	metrics    *metrics.Metrics
}

func NewService(upstream Upstream, authorizer *authz.Authorizer, cooldowns CooldownReader, auditor audit.Publisher, m *metrics.Metrics) *Service {
	return &Service{
		upstream:   upstream,
		authorizer: authorizer,
		cooldowns:  cooldowns,
		auditor:    auditor,
		metrics:    m,
	}
}

// ListRequest carries the caller-owned view state.
type ListRequest struct {
	EventCode string
	Query     string
	Status    StatusFilter
	Page      int
}

// Listing is the submission view for one page.
type Listing struct {
	Records     []domain.Submission `json:"records"`
	Total       int                 `json:"total"`
	Page        int                 `json:"page"`
	PageCount   int                 `json:"pageCount"`
	EventStatus string              `json:"eventStatus"`
	Eligibility Eligibility         `json:"eligibility"`
}

// List implements the event-detail pipeline: authorize, resolve the event
// code to its record id, fetch and normalize submissions, filter, compute
// eligibility, slice the requested page.
func (s *Service) List(ctx context.Context, req ListRequest) (*Listing, error) {
	identity := requestcontext.Identity(ctx)
	if err := s.authorizer.DecideRead(identity); err != nil {
		s.publishDenied(ctx, identity, req.EventCode, err)
		return nil, err
	}

	event, err := s.resolveEvent(ctx, req.EventCode)
	if err != nil {
		s.metrics.IncrementListOutcome(outcomeOf(err))
		return nil, err
	}

	subs, err := s.fetchSubmissions(ctx, event.ID)
	if err != nil {
		s.metrics.IncrementListOutcome(outcomeOf(err))
		return nil, err
	}

	filtered := Filter(subs, req.Query, req.Status)

	marker, err := s.cooldowns.Get(ctx, req.EventCode)
	if err != nil {
		// A broken cooldown store must not take down the listing; the
		// eligibility simply shows no cooldown.
		marker = nil
	}

	eligibility := Eligible(subs, event.Status, marker, requestcontext.Now(ctx))
	s.metrics.IncrementEligibility(eligibility.ReasonLabel)

	page := req.Page
	if page < 1 {
		page = 1
	}
	if max := PageCount(len(filtered)); page > max {
		page = max
	}

	s.metrics.IncrementListOutcome("ok")
	s.auditor.Publish(audit.Event{
		SlackID:   identity.SlackID,
		Action:    audit.EventSubmissionsViewed,
		EventCode: req.EventCode,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
	})

	return &Listing{
		Records:     Page(filtered, page),
		Total:       len(filtered),
		Page:        page,
		PageCount:   PageCount(len(filtered)),
		EventStatus: event.Status,
		Eligibility: eligibility,
	}, nil
}

// ExportRequest selects the filtered set to export; pagination does not apply.
type ExportRequest struct {
	EventCode string
	Query     string
	Status    StatusFilter
}

// Export renders the currently filtered submission set as CSV.
func (s *Service) Export(ctx context.Context, req ExportRequest) (content, filename string, err error) {
	identity := requestcontext.Identity(ctx)
	if err := s.authorizer.DecideRead(identity); err != nil {
		s.publishDenied(ctx, identity, req.EventCode, err)
		return "", "", err
	}

	event, err := s.resolveEvent(ctx, req.EventCode)
	if err != nil {
		return "", "", err
	}

	subs, err := s.fetchSubmissions(ctx, event.ID)
	if err != nil {
		return "", "", err
	}

	filtered := Filter(subs, req.Query, req.Status)
	now := requestcontext.Now(ctx)
	return ExportCSV(filtered), ExportFilename(req.EventCode, now), nil
}

// resolveEvent looks up the event record by its human-facing code.
func (s *Service) resolveEvent(ctx context.Context, code string) (*domain.EventRecord, error) {
	if code == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "missing event code")
	}

	start := time.Now()
	records, err := s.upstream.List(ctx, tableEventCodes, airbridge.Query{
		Fields:          []string{"Event Code", "Status"},
		FilterByFormula: fmt.Sprintf("{Event Code} = '%s'", airbridge.EscapeFormulaValue(code)),
	})
	s.metrics.ObserveUpstreamLatency(tableEventCodes, time.Since(start))
	if err != nil {
		return nil, translateUpstream(err, "event lookup")
	}

	if len(records) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "event code not found")
	}

	rec := records[0]
	if rec.ID == "" {
		return nil, dErrors.New(dErrors.CodeNotFound, "event code id missing")
	}

	status := rec.Str("Status", "status")
	if status == "" {
		status = string(domain.EventActive)
	}

	return &domain.EventRecord{ID: rec.ID, Code: code, Status: status}, nil
}

func (s *Service) fetchSubmissions(ctx context.Context, eventRecordID string) ([]domain.Submission, error) {
	start := time.Now()
	records, err := s.upstream.List(ctx, tableWebsites, airbridge.Query{
		Fields: []string{"Email", "Name", "Status", "Event Code", "Playable URL", "Decision Reason (to email)"},
	})
	s.metrics.ObserveUpstreamLatency(tableWebsites, time.Since(start))
	if err != nil {
		return nil, translateUpstream(err, "submissions fetch")
	}

	return Normalize(records, eventRecordID), nil
}

func (s *Service) publishDenied(ctx context.Context, identity domain.Identity, eventCode string, err error) {
	s.auditor.Publish(audit.Event{
		SlackID:   identity.SlackID,
		Action:    audit.EventAuthzDenied,
		EventCode: eventCode,
		Reason:    err.Error(),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
	})
}

// translateUpstream maps infrastructure sentinels to the API error taxonomy.
func translateUpstream(err error, op string) error {
	switch {
	case errors.Is(err, sentinel.ErrTimeout):
		return dErrors.Wrap(err, dErrors.CodeUpstreamTimeout, op+" timed out after 8s")
	case errors.Is(err, sentinel.ErrBadPayload):
		return dErrors.Wrap(err, dErrors.CodeBadUpstream, "bad JSON from upstream")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeBadUpstream, "upstream error")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, op+" failed")
	}
}

func outcomeOf(err error) string {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeUpstreamTimeout, dErrors.CodeBadUpstream:
		return "upstream_error"
	default:
		return "error"
	}
}
