package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/whatuseek/smn-tkt-sub000/internal/api/dto"
	"github.com/whatuseek/smn-tkt-sub000/internal/auth"
	"github.com/whatuseek/smn-tkt-sub000/internal/domain"
	"github.com/whatuseek/smn-tkt-sub000/internal/repository"
	"github.com/whatuseek/smn-tkt-sub000/internal/service"
	apperrors "github.com/whatuseek/smn-tkt-sub000/pkg/util"
)

// AdminTicketsHandler exposes the triage dashboard endpoints.
type AdminTicketsHandler struct {
	tickets *service.TicketService
	users   repository.UserRepository
}

// NewAdminTicketsHandler constructs handler.
func NewAdminTicketsHandler(ticketService *service.TicketService, users repository.UserRepository) *AdminTicketsHandler {
	return &AdminTicketsHandler{tickets: ticketService, users: users}
}

// ListTickets GET /admin/tickets.
func (h *AdminTicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := repository.ListFilter{
		Limit:  parseInt(c.Query("page_size"), 20),
		Offset: (parseInt(c.Query("page"), 1) - 1) * parseInt(c.Query("page_size"), 20),
	}
	if status := c.Query("status"); status != "" {
		s := domain.TicketStatus(status)
		if !domain.ValidStatus(s) {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": status})
		}
		filter.Status = &s
	}
	if issueType := c.Query("issueType"); issueType != "" {
		normalized := strings.ToUpper(strings.TrimSpace(issueType))
		filter.IssueType = &normalized
	}
	if from := parseDate(c.Query("startDate")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseDate(c.Query("endDate")); to != nil {
		endOfDay := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.CreatedTo = &endOfDay
	}

	tickets, err := h.tickets.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateTicket PATCH /admin/tickets/:id.
func (h *AdminTicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == nil && req.IssueType == nil && req.Comments == nil {
		return apperrors.NewValidationError("no changes supplied", nil)
	}

	ticket, err := h.tickets.UpdateTicket(c.UserContext(), principal.User.ID, c.Params("id"), service.TicketUpdateInput{
		Status:    req.Status,
		IssueType: req.IssueType,
		Comments:  req.Comments,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListUsers GET /admin/users.
func (h *AdminTicketsHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListAll(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseDate(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", val, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
