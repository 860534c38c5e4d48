package report

import (
	"time"

	"github.com/whatuseek/smn-tkt-sub000/internal/domain"
	"github.com/whatuseek/smn-tkt-sub000/internal/identity"
)

// timestampLayout is the fixed human-readable rendering for export
// timestamps.
const timestampLayout = "2006-01-02 03:04:05 PM"

// notAvailable substitutes for any missing or empty field in an export row.
const notAvailable = "N/A"

// Placeholder contract for empty exports: encoders must always have at least
// one header set to build column structure from.
const (
	PlaceholderHeader  = "Info"
	PlaceholderMessage = "No data to export"
)

// ExportRow is one ticket flattened into display-formatted string fields.
// Raw actor ids never appear here unless resolution fails.
type ExportRow struct {
	TicketID     string
	IssueType    string
	Status       string
	Location     string
	MobileNumber string
	Comments     string
	CreatedBy    string
	LastEditedBy string
	CreatedAt    string
	UpdatedAt    string
}

// ProjectRows flattens tickets into export rows, preserving the store's
// created_at-descending order. Actor ids are resolved through the preloaded
// identity mapping.
func ProjectRows(tickets []domain.Ticket, infos map[string]identity.DisplayInfo) []ExportRow {
	rows := make([]ExportRow, 0, len(tickets))
	for _, ticket := range tickets {
		rows = append(rows, ExportRow{
			TicketID:     orNA(ticket.DisplayID),
			IssueType:    orNA(ticket.IssueType),
			Status:       orNA(string(ticket.Status)),
			Location:     orNA(ticket.Location),
			MobileNumber: ptrOrNA(ticket.MobileNumber),
			Comments:     ptrOrNA(ticket.Comments),
			CreatedBy:    identity.DisplayLabel(infos, ticket.CreatorID),
			LastEditedBy: identity.DisplayLabel(infos, ticket.LastEditorID),
			CreatedAt:    formatTimestamp(ticket.CreatedAt),
			UpdatedAt:    formatTimestamp(ticket.UpdatedAt),
		})
	}
	return rows
}

func orNA(val string) string {
	if val == "" {
		return notAvailable
	}
	return val
}

func ptrOrNA(val *string) string {
	if val == nil || *val == "" {
		return notAvailable
	}
	return *val
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.Format(timestampLayout)
}
