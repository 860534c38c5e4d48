package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. The three values are
// a closed set; reporting downstream assumes exactly these buckets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
)

// CanonicalStatuses lists the three statuses in presentation order.
var CanonicalStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
}

// ValidStatus reports whether s is one of the three canonical states.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID           string
	DisplayID    string
	IssueType    string
	Status       TicketStatus
	Location     string
	MobileNumber *string
	Comments     *string
	CreatorID    string
	LastEditorID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
