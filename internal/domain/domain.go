// Package domain holds the core types shared across the dashboard modules.
package domain

import (
	"strings"
	"time"
)

// Identity is the resolved session identity. Produced at login by the
// identity provider; immutable for the session's lifetime.
type Identity struct {
	ID      string
	Name    string
	Email   string
	SlackID string
}

// IsZero reports whether the identity is absent (unauthenticated request).
func (i Identity) IsZero() bool {
	return i == Identity{}
}

// EventStatus is the lifecycle state of an event record upstream.
// Deactivation signals that a grant was already paid out for the event.
type EventStatus string

const (
	EventActive      EventStatus = "Active"
	EventDeactivated EventStatus = "Deactivated"
)

// EventRecord is one workshop instance as stored upstream. Code is the
// human-facing key used in URLs; ID is the internal join key and is never
// shown to users.
type EventRecord struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Status        string `json:"status"`
	OrganizerName string `json:"organizerName,omitempty"`
	SlackID       string `json:"slackId,omitempty"`
}

// SubmissionStatus is a participant submission's review state.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "Pending"
	StatusApproved SubmissionStatus = "Approved"
	StatusRejected SubmissionStatus = "Rejected"
)

// Submission is one participant entry tied to an event record by foreign key.
// Multiple submissions may share an email (resubmission).
type Submission struct {
	ID             string `json:"id"`
	EventRecordID  string `json:"-"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Status         string `json:"status"`
	Website        string `json:"website"`
	DecisionReason string `json:"decisionReason"`
}

// HasStatus compares submission status case-insensitively.
func (s Submission) HasStatus(status SubmissionStatus) bool {
	return strings.EqualFold(s.Status, string(status))
}

// PaymentMethod enumerates how a grant can be paid out.
type PaymentMethod string

const (
	PaymentReimbursement  PaymentMethod = "Reimbursement"
	PaymentHCBOrgTransfer PaymentMethod = "HCB Org Transfer"
	PaymentGrantCard      PaymentMethod = "Grant Card"
)

// ValidPaymentMethod reports whether v is one of the enumerated methods.
func ValidPaymentMethod(v string) bool {
	switch PaymentMethod(v) {
	case PaymentReimbursement, PaymentHCBOrgTransfer, PaymentGrantCard:
		return true
	}
	return false
}

// GrantRequest is a validated, sanitized payout request. It is never
// persisted; the notification channel is the sole record.
type GrantRequest struct {
	EventCode      string
	OrganizerName  string
	OrganizerEmail string
	Amount         int
	ApprovedCount  int
	PaymentMethod  PaymentMethod
	AdditionalInfo string
}

// CooldownMarker records a successful grant request so a new one for the
// same event is blocked for 24 hours.
type CooldownMarker struct {
	EventCode   string
	RequestedAt time.Time
}

// CooldownWindow is how long a grant request blocks the next one.
const CooldownWindow = 24 * time.Hour

// GrantPerApproval is the flat payout per approved submission, in dollars.
const GrantPerApproval = 5

// MinApprovedForGrant is the approval count below which a grant cannot be
// requested.
const MinApprovedForGrant = 3
