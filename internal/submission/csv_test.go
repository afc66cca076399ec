package submission

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bobadash/internal/domain"
)

func TestExportCSV(t *testing.T) {
	t.Run("N rows produce N+1 lines with every field quoted", func(t *testing.T) {
		subs := []domain.Submission{
			sub("Alice", "alice@example.com", "Approved"),
			sub("Bob", "bob@example.com", "Pending"),
			sub("Carol", "carol@example.com", "Rejected"),
		}

		out := ExportCSV(subs)
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, `"Name","Email","Status","Website","Decision Reason"`, lines[0])
		assert.Equal(t, `"Alice","alice@example.com","Approved","https://Alice.example.com",""`, lines[1])
	})

	t.Run("commas and quotes survive inside quoted fields", func(t *testing.T) {
		s := sub("Alice", "alice@example.com", "Rejected")
		s.DecisionReason = `site is "down", retry later`

		out := ExportCSV([]domain.Submission{s})
		assert.Contains(t, out, `"site is ""down"", retry later"`)
	})

	t.Run("empty set still emits the header", func(t *testing.T) {
		out := ExportCSV(nil)
		assert.Equal(t, "\"Name\",\"Email\",\"Status\",\"Website\",\"Decision Reason\"\n", out)
	})
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "workshop-ABC123-2026-03-14.csv", ExportFilename("ABC123", now))
}
