package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/feedbackhq/feedback-collector/types"
	"github.com/jung-kurt/gofpdf"
)

// PDF renders rows into a simple report document: a centered title, the
// generation date, and one block per feedback record.
func PDF(rows []types.FeedbackExportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Feedback Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated on: %s", time.Now().Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	for i, row := range rows {
		pdf.SetFont("Helvetica", "BU", 14)
		pdf.CellFormat(0, 8, fmt.Sprintf("Feedback #%d", i+1), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("Name: %s", orDefault(row.Name, anonymousName)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Email: %s", orDefault(row.Email, noEmail)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Type: %s", row.Type), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Rating: %d/5", row.Rating), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Submitted: %s", row.CreatedAt.Format("2006-01-02")), "", 1, "L", false, 0, "")
		pdf.Ln(2)
		pdf.CellFormat(0, 5, "Message:", "", 1, "L", false, 0, "")
		pdf.SetX(pdf.GetX() + 8)
		pdf.MultiCell(0, 5, row.Message, "", "L", false)
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
