// Package authz decides whether a caller may read event data.
//
// This is pure domain logic - no I/O, no side effects. The function receives
// all data it needs as arguments and returns a decision.
package authz

import (
	"bobadash/internal/domain"
	dErrors "bobadash/pkg/domain-errors"
)

// Decision is the outcome of an authorization check.
type Decision string

const (
	// DecisionAllowAll grants access to every event (admin scope).
	DecisionAllowAll Decision = "allow_all"
	// DecisionAllowOwn grants access to the caller's own events only.
	DecisionAllowOwn Decision = "allow_own"
)

// Resource names what the caller wants to read.
type Resource struct {
	allEvents    bool
	ownerSlackID string
}

// AllEvents is the resource covering every event record.
func AllEvents() Resource {
	return Resource{allEvents: true}
}

// EventsOwnedBy covers the events owned by the given Slack ID.
func EventsOwnedBy(slackID string) Resource {
	return Resource{ownerSlackID: slackID}
}

// Authorizer evaluates callers against the configured admin set. The set is
// injected at construction and read-only afterwards.
type Authorizer struct {
	admins map[string]struct{}
}

func New(adminSlackIDs []string) *Authorizer {
	admins := make(map[string]struct{}, len(adminSlackIDs))
	for _, id := range adminSlackIDs {
		admins[id] = struct{}{}
	}
	return &Authorizer{admins: admins}
}

// IsAdmin reports whether the Slack ID is in the admin set.
func (a *Authorizer) IsAdmin(slackID string) bool {
	_, ok := a.admins[slackID]
	return ok
}

// Decide applies the scoping rule chain. Rule priority (fail-fast):
//  1. Absent identity - unauthenticated
//  2. Admin set membership - full access to any resource
//  3. Ownership - callers may read their own events
//  4. Everything else - forbidden
func (a *Authorizer) Decide(identity domain.Identity, resource Resource) (Decision, error) {
	if identity.IsZero() {
		return "", dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	if a.IsAdmin(identity.SlackID) {
		return DecisionAllowAll, nil
	}

	if !resource.allEvents && resource.ownerSlackID != "" && resource.ownerSlackID == identity.SlackID {
		return DecisionAllowOwn, nil
	}

	return "", dErrors.New(dErrors.CodeForbidden, "admin access required")
}

// DecideRead is the per-event submission listing check: any authenticated
// identity may read. Submissions are not owner-scoped; the event code acts
// as the shared secret. Kept separate from Decide so the looser rule is an
// explicit decision rather than an accident.
func (a *Authorizer) DecideRead(identity domain.Identity) error {
	if identity.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return nil
}
