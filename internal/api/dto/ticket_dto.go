package dto

import (
	"time"

	"github.com/whatuseek/smn-tkt-sub000/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	IssueType    string  `json:"issue_type"`
	Location     string  `json:"location"`
	MobileNumber *string `json:"mobile_number,omitempty"`
	Comments     *string `json:"comments,omitempty"`
}

// UpdateTicketRequest payload for admin triage; omitted fields are unchanged.
type UpdateTicketRequest struct {
	Status    *domain.TicketStatus `json:"status,omitempty"`
	IssueType *string              `json:"issue_type,omitempty"`
	Comments  *string              `json:"comments,omitempty"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID           string              `json:"id"`
	DisplayID    string              `json:"display_id"`
	IssueType    string              `json:"issue_type"`
	Status       domain.TicketStatus `json:"status"`
	Location     string              `json:"location"`
	MobileNumber *string             `json:"mobile_number,omitempty"`
	Comments     *string             `json:"comments,omitempty"`
	CreatorID    string              `json:"creator_id"`
	LastEditorID string              `json:"last_editor_id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
