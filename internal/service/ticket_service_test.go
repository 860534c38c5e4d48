package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/whatuseek/smn-tkt-sub000/internal/domain"
	"github.com/whatuseek/smn-tkt-sub000/internal/events"
	"github.com/whatuseek/smn-tkt-sub000/internal/repository"
)

type fakeTicketRepo struct {
	byID    map[string]*domain.Ticket
	nextID  int
	created []*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{byID: map[string]*domain.Ticket{}}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	f.nextID++
	ticket.ID = "id-" + string(rune('0'+f.nextID))
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	f.byID[ticket.ID] = &copied
	f.created = append(f.created, &copied)
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	if _, ok := f.byID[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *ticket
	f.byID[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) List(ctx context.Context, filter repository.ListFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range f.byID {
		if filter.CreatorID != nil && ticket.CreatorID != *filter.CreatorID {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (f *fakeTicketRepo) Report(ctx context.Context, filter repository.ReportFilter) ([]domain.Ticket, error) {
	return nil, nil
}

type fakeSequence struct {
	next int64
	err  error
}

func (f *fakeSequence) NextSequence(ctx context.Context, key string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	return f.next, nil
}

func strPtr(s string) *string { return &s }

func TestCreateTicketNormalizesAndDefaults(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, &fakeSequence{}, nil, zap.NewNop())

	ticket, err := svc.CreateTicket(context.Background(), "creator-1", TicketCreateInput{
		IssueType: "  wifi  ",
		Location:  " Building 4 ",
	})
	require.NoError(t, err)

	assert.Equal(t, "WIFI", ticket.IssueType)
	assert.Equal(t, "Building 4", ticket.Location)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, "TKT-000001", ticket.DisplayID)
	assert.Equal(t, "creator-1", ticket.CreatorID)
	assert.Equal(t, "creator-1", ticket.LastEditorID)
}

func TestCreateTicketValidation(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, &fakeSequence{}, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, "creator-1", TicketCreateInput{IssueType: "WIFI"})
	assert.Error(t, err, "missing location")

	_, err = svc.CreateTicket(ctx, "creator-1", TicketCreateInput{Location: "Lobby"})
	assert.Error(t, err, "missing issue type")

	_, err = svc.CreateTicket(ctx, "creator-1", TicketCreateInput{
		IssueType:    "WIFI",
		Location:     "Lobby",
		MobileNumber: strPtr("12345"),
	})
	assert.Error(t, err, "mobile number must be 10 digits")

	assert.Empty(t, repo.created, "invalid input never reaches the store")
}

func TestCreateTicketDisplayIDFallback(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, &fakeSequence{err: errors.New("redis down")}, nil, zap.NewNop())

	ticket, err := svc.CreateTicket(context.Background(), "creator-1", TicketCreateInput{
		IssueType: "WIFI",
		Location:  "Lobby",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^TKT-[0-9A-F]{8}$`, ticket.DisplayID)
}

func TestUpdateTicketEmitsStatusChangedEvent(t *testing.T) {
	repo := newFakeTicketRepo()
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())

	var received []events.Event
	dispatcher.Subscribe(events.EventTicketStatusChanged, func(ctx context.Context, event events.Event) error {
		received = append(received, event)
		return nil
	})

	svc := NewTicketService(repo, &fakeSequence{}, dispatcher, zap.NewNop())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "creator-1", TicketCreateInput{IssueType: "WIFI", Location: "Lobby"})
	require.NoError(t, err)

	resolved := domain.TicketStatusResolved
	updated, err := svc.UpdateTicket(ctx, "admin-1", ticket.ID, TicketUpdateInput{Status: &resolved})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusResolved, updated.Status)
	assert.Equal(t, "admin-1", updated.LastEditorID)
	require.Len(t, received, 1)
	payload, ok := received[0].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusOpen, payload.OldStatus)
	assert.Equal(t, domain.TicketStatusResolved, payload.NewStatus)
}

func TestUpdateTicketRejectsInvalidStatus(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, &fakeSequence{}, nil, zap.NewNop())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "creator-1", TicketCreateInput{IssueType: "WIFI", Location: "Lobby"})
	require.NoError(t, err)

	bogus := domain.TicketStatus("Escalated")
	_, err = svc.UpdateTicket(ctx, "admin-1", ticket.ID, TicketUpdateInput{Status: &bogus})
	assert.Error(t, err)
}

func TestGetTicketEnforcesOwnership(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, &fakeSequence{}, nil, zap.NewNop())
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "creator-1", TicketCreateInput{IssueType: "WIFI", Location: "Lobby"})
	require.NoError(t, err)

	owner := &domain.User{ID: "creator-1", Role: domain.UserRoleUser}
	stranger := &domain.User{ID: "creator-2", Role: domain.UserRoleUser}
	admin := &domain.User{ID: "admin-1", Role: domain.UserRoleAdmin}

	_, err = svc.GetTicket(ctx, owner, ticket.ID)
	assert.NoError(t, err)

	_, err = svc.GetTicket(ctx, stranger, ticket.ID)
	assert.Error(t, err)

	_, err = svc.GetTicket(ctx, admin, ticket.ID)
	assert.NoError(t, err)
}
