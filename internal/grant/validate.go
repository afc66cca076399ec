package grant

import (
	"regexp"
	"strings"

	"bobadash/internal/domain"
	dErrors "bobadash/pkg/domain-errors"
)

// Submitted is the raw grant request as posted by the client, before any
// validation or sanitization.
type Submitted struct {
	EventCode      string `json:"eventCode"`
	OrganizerName  string `json:"organizerName"`
	OrganizerEmail string `json:"organizerEmail"`
	Amount         int    `json:"amount"`
	ApprovedCount  int    `json:"approvedCount"`
	PaymentMethod  string `json:"paymentMethod"`
	AdditionalInfo string `json:"additionalInfo"`
}

// Validate satisfies httputil.Validatable so the decode helper can reject
// bodies early. Full field validation happens in Prepare; here we only need
// the body to be a well-formed request object.
func (s *Submitted) Validate() error {
	return nil
}

const (
	maxAmount        = 100000
	maxApprovedCount = 10000

	maxEventCodeLen      = 100
	maxNameLen           = 200
	maxEmailLen          = 200
	maxAdditionalInfoLen = 1000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Prepare validates the submission and produces a sanitized GrantRequest.
// Checks run in a fixed order and the first failure wins, so clients get a
// stable message for a given bad input.
func Prepare(s Submitted) (domain.GrantRequest, error) {
	// A zero amount or approved count is an absent field, not a bad value.
	if strings.TrimSpace(s.EventCode) == "" ||
		strings.TrimSpace(s.OrganizerName) == "" ||
		strings.TrimSpace(s.OrganizerEmail) == "" ||
		strings.TrimSpace(s.PaymentMethod) == "" ||
		s.Amount == 0 ||
		s.ApprovedCount == 0 {
		return domain.GrantRequest{}, dErrors.New(dErrors.CodeValidation, "missing required fields")
	}
	if !emailPattern.MatchString(s.OrganizerEmail) {
		return domain.GrantRequest{}, dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	if s.Amount < 0 || s.Amount > maxAmount {
		return domain.GrantRequest{}, dErrors.New(dErrors.CodeValidation, "invalid amount")
	}
	if s.ApprovedCount < domain.MinApprovedForGrant || s.ApprovedCount > maxApprovedCount {
		return domain.GrantRequest{}, dErrors.New(dErrors.CodeValidation, "invalid approved count")
	}
	if !domain.ValidPaymentMethod(s.PaymentMethod) {
		return domain.GrantRequest{}, dErrors.New(dErrors.CodeValidation, "invalid payment method")
	}

	return domain.GrantRequest{
		EventCode:      sanitize(s.EventCode, maxEventCodeLen),
		OrganizerName:  sanitize(s.OrganizerName, maxNameLen),
		OrganizerEmail: sanitize(s.OrganizerEmail, maxEmailLen),
		Amount:         s.Amount,
		ApprovedCount:  s.ApprovedCount,
		PaymentMethod:  domain.PaymentMethod(s.PaymentMethod),
		AdditionalInfo: sanitize(s.AdditionalInfo, maxAdditionalInfoLen),
	}, nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&#39;",
	`"`, "&quot;",
)

// sanitize escapes HTML-significant characters and truncates to max runes.
// The output only ever lands in Slack message text, but escaping here keeps
// the pipeline safe no matter where a sink forwards it.
func sanitize(v string, max int) string {
	escaped := htmlEscaper.Replace(strings.TrimSpace(v))
	runes := []rune(escaped)
	if len(runes) > max {
		return string(runes[:max])
	}
	return escaped
}
