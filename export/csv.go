// Package export renders feedback record sets into downloadable CSV and PDF
// documents. It knows nothing about ownership or filtering; callers hand it
// the already-scoped rows.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/feedbackhq/feedback-collector/types"
)

// Placeholders used when a submission omitted the optional identity fields.
const (
	anonymousName = "Anonymous"
	noEmail       = "No email"
)

var csvHeader = []string{"Name", "Email", "Type", "Message", "Rating", "Submitted At"}

// CSV renders rows into a CSV document with a header line. Timestamps are
// emitted in RFC 3339 UTC.
func CSV(rows []types.FeedbackExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			orDefault(row.Name, anonymousName),
			orDefault(row.Email, noEmail),
			row.Type,
			row.Message,
			fmt.Sprintf("%d", row.Rating),
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv writer: %w", err)
	}
	return buf.Bytes(), nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
