package submission

import (
	"fmt"
	"math"
	"strings"
	"time"

	"bobadash/internal/domain"
	dErrors "bobadash/pkg/domain-errors"
)

// StatusFilter is the user-chosen status bucket.
type StatusFilter string

const (
	FilterAll      StatusFilter = "All"
	FilterPending  StatusFilter = "Pending"
	FilterApproved StatusFilter = "Approved"
	FilterRejected StatusFilter = "Rejected"
)

// ParseStatusFilter accepts the filter case-insensitively; empty means All.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "pending":
		return FilterPending, nil
	case "approved":
		return FilterApproved, nil
	case "rejected":
		return FilterRejected, nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "invalid status filter")
}

// PageSize is the fixed page size of the submissions table.
const PageSize = 10

// Filter produces the visible subset of submissions for a search query and
// status bucket, preserving the original relative order.
//
// The Rejected bucket is intentionally wider than literal status equality:
// because the same email may resubmit, a row matches Rejected when its own
// status is Rejected or when no row sharing its email is Approved. Pending
// rows from an email with no approval surface there as a "needs attention"
// bucket.
func Filter(subs []domain.Submission, query string, status StatusFilter) []domain.Submission {
	query = strings.ToLower(strings.TrimSpace(query))

	var approvedEmails map[string]struct{}
	if status == FilterRejected {
		approvedEmails = make(map[string]struct{})
		for _, s := range subs {
			if s.HasStatus(domain.StatusApproved) {
				approvedEmails[strings.ToLower(s.Email)] = struct{}{}
			}
		}
	}

	out := make([]domain.Submission, 0, len(subs))
	for _, s := range subs {
		if !matchesQuery(s, query) {
			continue
		}
		if !matchesStatus(s, status, approvedEmails) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesQuery(s domain.Submission, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), query) ||
		strings.Contains(strings.ToLower(s.Email), query) ||
		strings.Contains(strings.ToLower(s.Website), query)
}

func matchesStatus(s domain.Submission, status StatusFilter, approvedEmails map[string]struct{}) bool {
	switch status {
	case FilterAll:
		return true
	case FilterRejected:
		if s.HasStatus(domain.StatusRejected) {
			return true
		}
		_, hasApproved := approvedEmails[strings.ToLower(s.Email)]
		return !hasApproved
	default:
		return strings.EqualFold(s.Status, string(status))
	}
}

// Page slices one page out of the filtered set. The engine performs no
// clamping; callers own pagination state and must keep the page number in
// [1, PageCount] after the filtered set shrinks.
func Page(filtered []domain.Submission, page int) []domain.Submission {
	start := (page - 1) * PageSize
	if start < 0 || start >= len(filtered) {
		return nil
	}
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// PageCount returns the number of pages for n filtered rows (at least 1).
func PageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// Eligibility is the derived grant-request state for an event.
type Eligibility struct {
	Amount        int    `json:"amount"`
	ApprovedCount int    `json:"approvedCount"`
	Enabled       bool   `json:"enabled"`
	ReasonLabel   string `json:"reasonLabel"`
}

// Eligible computes grant-request eligibility. Approved rows are counted per
// submission row, not per distinct email. Priority order for the label:
// insufficient approvals, then deactivation (grant already sent), then an
// active cooldown, then ready.
func Eligible(subs []domain.Submission, eventStatus string, marker *domain.CooldownMarker, now time.Time) Eligibility {
	approved := 0
	for _, s := range subs {
		if s.HasStatus(domain.StatusApproved) {
			approved++
		}
	}

	e := Eligibility{
		Amount:        approved * domain.GrantPerApproval,
		ApprovedCount: approved,
	}

	if approved < domain.MinApprovedForGrant {
		e.ReasonLabel = fmt.Sprintf("Need %d more approved", domain.MinApprovedForGrant-approved)
		return e
	}

	if strings.EqualFold(eventStatus, string(domain.EventDeactivated)) {
		e.ReasonLabel = "Grant Sent"
		return e
	}

	if marker != nil {
		remaining := domain.CooldownWindow - now.Sub(marker.RequestedAt)
		if remaining > 0 {
			hours := int(math.Ceil(remaining.Hours()))
			e.ReasonLabel = fmt.Sprintf("Requested (%dh cooldown)", hours)
			return e
		}
	}

	e.Enabled = true
	e.ReasonLabel = "Request Grant"
	return e
}
