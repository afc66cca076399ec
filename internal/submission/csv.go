package submission

import (
	"fmt"
	"strings"
	"time"

	"bobadash/internal/domain"
)

// csvHeader matches the dashboard table columns.
var csvHeader = []string{"Name", "Email", "Status", "Website", "Decision Reason"}

// ExportCSV renders the filtered submission set as CSV: a header row plus one
// row per submission. Every field is wrapped in quotes with embedded quotes
// doubled, so commas and newlines in values survive verbatim.
func ExportCSV(subs []domain.Submission) string {
	var b strings.Builder
	writeRow(&b, csvHeader)
	for _, s := range subs {
		writeRow(&b, []string{s.Name, s.Email, s.Status, s.Website, s.DecisionReason})
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// ExportFilename builds the download name for an event's export.
func ExportFilename(eventCode string, now time.Time) string {
	return fmt.Sprintf("workshop-%s-%s.csv", eventCode, now.UTC().Format("2006-01-02"))
}
