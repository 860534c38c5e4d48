package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/whatuseek/smn-tkt-sub000/internal/domain"
	"github.com/whatuseek/smn-tkt-sub000/internal/events"
	"github.com/whatuseek/smn-tkt-sub000/internal/repository"
	apperrors "github.com/whatuseek/smn-tkt-sub000/pkg/util"
)

const displayIDSequenceKey = "ticket:display_id:seq"

var mobileNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

// SequenceSource issues monotonically increasing values for display ids.
// Backed by Redis INCR in production.
type SequenceSource interface {
	NextSequence(ctx context.Context, key string) (int64, error)
}

// TicketCreateInput carries validated-at-the-edge ticket fields.
type TicketCreateInput struct {
	IssueType    string
	Location     string
	MobileNumber *string
	Comments     *string
}

// TicketUpdateInput carries admin triage changes; nil fields are unchanged.
type TicketUpdateInput struct {
	Status    *domain.TicketStatus
	IssueType *string
	Comments  *string
}

// TicketService coordinates ticket CRUD and lifecycle events.
type TicketService struct {
	tickets    repository.TicketRepository
	sequences  SequenceSource
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTicketService builds the service.
func NewTicketService(tickets repository.TicketRepository, sequences SequenceSource, dispatcher events.Dispatcher, logger *zap.Logger) *TicketService {
	return &TicketService{
		tickets:    tickets,
		sequences:  sequences,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateTicket validates input, normalizes the issue type to uppercase,
// assigns a display id and persists the ticket with status Open.
func (s *TicketService) CreateTicket(ctx context.Context, creatorID string, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Location) == "" {
		return nil, apperrors.NewValidationError("location required", nil)
	}
	if strings.TrimSpace(input.IssueType) == "" {
		return nil, apperrors.NewValidationError("issue_type required", nil)
	}
	if input.MobileNumber != nil && !mobileNumberPattern.MatchString(*input.MobileNumber) {
		return nil, apperrors.NewValidationError("mobile_number must be a 10-digit number", nil)
	}

	ticket := &domain.Ticket{
		DisplayID:    s.nextDisplayID(ctx),
		IssueType:    strings.ToUpper(strings.TrimSpace(input.IssueType)),
		Status:       domain.TicketStatusOpen,
		Location:     strings.TrimSpace(input.Location),
		MobileNumber: input.MobileNumber,
		Comments:     input.Comments,
		CreatorID:    creatorID,
		LastEditorID: creatorID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		ActorID:   creatorID,
		Timestamp: time.Now(),
		Payload: events.TicketCreatedPayload{
			DisplayID: ticket.DisplayID,
			IssueType: ticket.IssueType,
			Location:  ticket.Location,
		},
	})
	return ticket, nil
}

// ListUserTickets returns the caller's own tickets.
func (s *TicketService) ListUserTickets(ctx context.Context, userID string, limit, offset int) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, repository.ListFilter{
		CreatorID: &userID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListTickets returns tickets matching the admin dashboard filter.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.ListFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket loads one ticket. Non-admin callers may only read their own.
func (s *TicketService) GetTicket(ctx context.Context, caller *domain.User, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if caller.Role != domain.UserRoleAdmin && ticket.CreatorID != caller.ID {
		return nil, apperrors.NewForbidden("not your ticket")
	}
	return ticket, nil
}

// UpdateTicket applies admin triage changes and records the editor. A status
// change emits a ticket_status_changed event.
func (s *TicketService) UpdateTicket(ctx context.Context, editorID, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := ticket.Status
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		ticket.Status = *input.Status
	}
	if input.IssueType != nil {
		if strings.TrimSpace(*input.IssueType) == "" {
			return nil, apperrors.NewValidationError("issue_type cannot be empty", nil)
		}
		ticket.IssueType = strings.ToUpper(strings.TrimSpace(*input.IssueType))
	}
	if input.Comments != nil {
		ticket.Comments = input.Comments
	}
	ticket.LastEditorID = editorID

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if input.Status != nil && oldStatus != ticket.Status {
		s.publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketStatusChanged,
			TicketID:  ticket.ID,
			ActorID:   editorID,
			Timestamp: time.Now(),
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

// nextDisplayID draws from the Redis sequence, falling back to a random
// suffix when the sequence source is unavailable so ticket creation never
// blocks on Redis.
func (s *TicketService) nextDisplayID(ctx context.Context) string {
	if s.sequences != nil {
		seq, err := s.sequences.NextSequence(ctx, displayIDSequenceKey)
		if err == nil {
			return fmt.Sprintf("TKT-%06d", seq)
		}
		s.logger.Warn("display id sequence unavailable; using random suffix", zap.Error(err))
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "TKT-" + suffix
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
