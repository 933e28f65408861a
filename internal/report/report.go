// Package report turns session history into the validation spreadsheet
// and optionally archives each export to blob storage.
package report

import (
	"fmt"

	"github.com/JaimeStill/lumen/internal/review"
)

// SheetName is the single worksheet in every export.
const SheetName = "Validation Report"

const notAvailable = "N/A"

// Column is one fixed report column and its display width in characters.
type Column struct {
	Header string
	Width  float64
}

// Columns lists the report columns in output order.
var Columns = []Column{
	{Header: "Folder Name", Width: 20},
	{Header: "Image Name", Width: 30},
	{Header: "AI Result (On/Off)", Width: 15},
	{Header: "AI Confidence (%)", Width: 15},
	{Header: "AI Explanation", Width: 50},
	{Header: "Human Override", Width: 15},
	{Header: "Final Status", Width: 15},
	{Header: "Validation Status", Width: 15},
	{Header: "Image ID", Width: 35},
}

// Row is one flattened history record.
type Row struct {
	FolderName       string `json:"folder_name"`
	ImageName        string `json:"image_name"`
	AIResult         string `json:"ai_result"`
	AIConfidence     string `json:"ai_confidence"`
	AIExplanation    string `json:"ai_explanation"`
	HumanOverride    string `json:"human_override"`
	FinalStatus      string `json:"final_status"`
	ValidationStatus string `json:"validation_status"`
	ImageID          string `json:"image_id"`
}

// Values returns the row cells in column order.
func (r Row) Values() []any {
	return []any{
		r.FolderName,
		r.ImageName,
		r.AIResult,
		r.AIConfidence,
		r.AIExplanation,
		r.HumanOverride,
		r.FinalStatus,
		r.ValidationStatus,
		r.ImageID,
	}
}

// Rows maps each record to one Row, preserving order. Final Status uses
// the record's resolved state, so an analyzed but unreviewed record reports
// the judgment's light state.
func Rows(records []review.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{
			FolderName:       rec.FolderName,
			ImageName:        rec.Name,
			AIResult:         notAvailable,
			AIConfidence:     notAvailable,
			AIExplanation:    notAvailable,
			HumanOverride:    onOff(rec.HumanOverride),
			FinalStatus:      onOff(rec.Resolved()),
			ValidationStatus: string(rec.ValidationStatus),
			ImageID:          rec.ID,
		}

		if j := rec.Judgment; j != nil {
			row.AIResult = onOff(&j.LightsOn)
			row.AIConfidence = fmt.Sprintf("%.2f", j.Confidence*100)
			row.AIExplanation = j.Explanation
		}

		rows = append(rows, row)
	}
	return rows
}

func onOff(b *bool) string {
	switch {
	case b == nil:
		return notAvailable
	case *b:
		return "ON"
	default:
		return "OFF"
	}
}
