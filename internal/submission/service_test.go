package submission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bobadash/internal/airbridge"
	"bobadash/internal/authz"
	"bobadash/internal/domain"
	dErrors "bobadash/pkg/domain-errors"
	"bobadash/pkg/platform/audit"
	"bobadash/pkg/platform/sentinel"
	"bobadash/pkg/requestcontext"
)

// fakeUpstream serves canned records per table, or a canned error.
type fakeUpstream struct {
	events      []airbridge.Record
	websites    []airbridge.Record
	err         error
	lastFormula string
}

func (f *fakeUpstream) List(_ context.Context, table string, q airbridge.Query) ([]airbridge.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	if table == tableEventCodes {
		f.lastFormula = q.FilterByFormula
		return f.events, nil
	}
	return f.websites, nil
}

// fakeCooldowns returns a fixed marker.
type fakeCooldowns struct {
	marker *domain.CooldownMarker
	err    error
}

func (f *fakeCooldowns) Get(context.Context, string) (*domain.CooldownMarker, error) {
	return f.marker, f.err
}

type ServiceSuite struct {
	suite.Suite
	upstream  *fakeUpstream
	cooldowns *fakeCooldowns
	service   *Service
	now       time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.upstream = &fakeUpstream{
		events: []airbridge.Record{
			{ID: "evt-1", Fields: map[string]any{"Event Code": "ABC123", "Status": "Active"}},
		},
	}
	for i := 0; i < 3; i++ {
		s.upstream.websites = append(s.upstream.websites, airbridge.Record{
			ID: fmt.Sprintf("rec-a%d", i),
			Fields: map[string]any{
				"Event Code": "evt-1",
				"Name":       fmt.Sprintf("approved-%d", i),
				"Email":      fmt.Sprintf("a%d@x.com", i),
				"Status":     "Approved",
			},
		})
	}
	s.upstream.websites = append(s.upstream.websites,
		airbridge.Record{ID: "rec-p", Fields: map[string]any{"Event Code": "evt-1", "Name": "pending", "Email": "p@x.com", "Status": "Pending"}},
		airbridge.Record{ID: "rec-r", Fields: map[string]any{"Event Code": "evt-1", "Name": "rejected", "Email": "r@x.com", "Status": "Rejected"}},
		airbridge.Record{ID: "rec-other", Fields: map[string]any{"Event Code": "evt-2", "Name": "other-event", "Email": "o@x.com", "Status": "Approved"}},
	)
	s.cooldowns = &fakeCooldowns{}
	s.service = NewService(s.upstream, authz.New(nil), s.cooldowns, audit.NopPublisher{}, nil)
}

func (s *ServiceSuite) ctx() context.Context {
	ctx := requestcontext.WithIdentity(context.Background(), domain.Identity{ID: "u1", SlackID: "U_VIEWER"})
	return requestcontext.WithTime(ctx, s.now)
}

func (s *ServiceSuite) TestListHappyPath() {
	listing, err := s.service.List(s.ctx(), ListRequest{EventCode: "ABC123", Status: FilterAll, Page: 1})
	s.Require().NoError(err)

	s.Equal(5, listing.Total, "rows from other events are filtered out by FK")
	s.Equal("Active", listing.EventStatus)
	s.Equal(1, listing.Page)
	s.Equal(1, listing.PageCount)
	s.Len(listing.Records, 5)

	s.True(listing.Eligibility.Enabled)
	s.Equal("Request Grant", listing.Eligibility.ReasonLabel)
	s.Equal(15, listing.Eligibility.Amount)
	s.Equal(3, listing.Eligibility.ApprovedCount)
}

func (s *ServiceSuite) TestListEscapesEventCodeInFormula() {
	s.upstream.events = nil
	_, err := s.service.List(s.ctx(), ListRequest{EventCode: "A'B", Status: FilterAll, Page: 1})
	s.Require().Error(err)
	s.Equal(`{Event Code} = 'A\'B'`, s.upstream.lastFormula)
}

func (s *ServiceSuite) TestListCooldownDisablesGrant() {
	s.cooldowns.marker = &domain.CooldownMarker{EventCode: "ABC123", RequestedAt: s.now.Add(-2 * time.Hour)}

	listing, err := s.service.List(s.ctx(), ListRequest{EventCode: "ABC123", Status: FilterAll, Page: 1})
	s.Require().NoError(err)
	s.False(listing.Eligibility.Enabled)
	s.Equal("Requested (22h cooldown)", listing.Eligibility.ReasonLabel)
}

func (s *ServiceSuite) TestListCooldownStoreFailureIsNonFatal() {
	s.cooldowns.err = sentinel.ErrUnavailable

	listing, err := s.service.List(s.ctx(), ListRequest{EventCode: "ABC123", Status: FilterAll, Page: 1})
	s.Require().NoError(err)
	s.True(listing.Eligibility.Enabled)
}

func (s *ServiceSuite) TestListEligibilityIgnoresViewFilter() {
	// The status filter narrows the table, never the eligibility math.
	listing, err := s.service.List(s.ctx(), ListRequest{EventCode: "ABC123", Status: FilterPending, Page: 1})
	s.Require().NoError(err)
	s.Equal(1, listing.Total)
	s.Equal(3, listing.Eligibility.ApprovedCount)
}

func (s *ServiceSuite) TestListClampsPage() {
	listing, err := s.service.List(s.ctx(), ListRequest{EventCode: "ABC123", Status: FilterAll, Page: 99})
	s.Require().NoError(err)
	s.Equal(1, listing.Page)
	s.Len(listing.Records, 5)
}

func (s *ServiceSuite) TestListUnknownEventCode() {
	s.upstream.events = nil

	_, err := s.service.List(s.ctx(), ListRequest{EventCode: "NOPE", Status: FilterAll, Page: 1})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListMissingEventCode() {
	_, err := s.service.List(s.ctx(), ListRequest{Status: FilterAll, Page: 1})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestListRequiresIdentity() {
	_, err := s.service.List(requestcontext.WithTime(context.Background(), s.now),
		ListRequest{EventCode: "ABC123", Status: FilterAll, Page: 1})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestListUpstreamErrorTranslation() {
	s.upstream.err = fmt.Errorf("fetch: %w", sentinel.ErrTimeout)
	_, err := s.service.List(s.ctx(), ListRequest{EventCode: "ABC123", Status: FilterAll, Page: 1})
	s.True(dErrors.HasCode(err, dErrors.CodeUpstreamTimeout))

	s.upstream.err = fmt.Errorf("fetch: %w", sentinel.ErrBadPayload)
	_, err = s.service.List(s.ctx(), ListRequest{EventCode: "ABC123", Status: FilterAll, Page: 1})
	s.True(dErrors.HasCode(err, dErrors.CodeBadUpstream))
}

func (s *ServiceSuite) TestExport() {
	content, filename, err := s.service.Export(s.ctx(), ExportRequest{EventCode: "ABC123", Status: FilterApproved})
	s.Require().NoError(err)

	s.Equal("workshop-ABC123-2026-03-14.csv", filename)
	lines := 0
	for _, c := range content {
		if c == '\n' {
			lines++
		}
	}
	s.Equal(4, lines, "header plus the three approved rows")
}
