package submission

import (
	"bobadash/internal/airbridge"
	"bobadash/internal/domain"
)

// Normalize maps heterogeneous upstream records into canonical submissions,
// keeping only rows whose event-record foreign key equals
// targetEventRecordID. The FK lives in the upstream "Event Code" column but
// holds the event record's internal id, not the human-facing code.
// Upstream order is preserved; sorting is a presentation concern.
func Normalize(records []airbridge.Record, targetEventRecordID string) []domain.Submission {
	out := make([]domain.Submission, 0, len(records))
	for _, r := range records {
		if r.Str("Event Code") != targetEventRecordID {
			continue
		}

		status := r.Str("Status", "status")
		if status == "" {
			status = string(domain.StatusPending)
		}

		out = append(out, domain.Submission{
			ID:             r.ID,
			EventRecordID:  targetEventRecordID,
			Name:           r.Str("Name", "name"),
			Email:          r.Str("Email", "email"),
			Status:         status,
			Website:        r.Str("Playable URL", "website"),
			DecisionReason: r.Str("Decision Reason (to email)"),
		})
	}
	return out
}
