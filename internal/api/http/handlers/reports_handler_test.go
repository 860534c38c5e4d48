package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/whatuseek/smn-tkt-sub000/internal/api/http"
	"github.com/whatuseek/smn-tkt-sub000/internal/api/http/handlers"
	"github.com/whatuseek/smn-tkt-sub000/internal/auth"
	"github.com/whatuseek/smn-tkt-sub000/internal/domain"
	"github.com/whatuseek/smn-tkt-sub000/internal/identity"
	"github.com/whatuseek/smn-tkt-sub000/internal/observability"
	"github.com/whatuseek/smn-tkt-sub000/internal/repository"
	"github.com/whatuseek/smn-tkt-sub000/internal/service"
)

type fakeStore struct {
	tickets     []domain.Ticket
	err         error
	calls       int
	sawDeadline bool
}

func (f *fakeStore) Report(ctx context.Context, filter repository.ReportFilter) ([]domain.Ticket, error) {
	f.calls++
	if _, ok := ctx.Deadline(); ok {
		f.sawDeadline = true
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.tickets, nil
}

type fakeUsers struct {
	byID    map[string]*domain.User
	listErr error
}

func (f *fakeUsers) Create(ctx context.Context, user *domain.User) error { return nil }

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) ListAll(ctx context.Context) ([]domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]domain.User, 0, len(f.byID))
	for _, user := range f.byID {
		result = append(result, *user)
	}
	return result, nil
}

func newReportApp(t *testing.T, store *fakeStore, users *fakeUsers) (*fiber.App, string) {
	t.Helper()
	logger := zap.NewNop()

	if users.byID == nil {
		users.byID = map[string]*domain.User{}
	}
	admin := &domain.User{ID: "admin-1", Email: "admin@example.com", Role: domain.UserRoleAdmin}
	users.byID[admin.ID] = admin

	tokens := auth.NewTokenManager("test-secret", 60)
	token, _, err := tokens.GenerateToken(admin.ID, admin.Role)
	require.NoError(t, err)

	resolver := identity.NewResolver(users, logger)
	reportService := service.NewReportService(store, resolver, logger)
	authMiddleware := auth.NewAuthMiddleware(tokens, users)
	handler := handlers.NewReportsHandler(reportService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	app.Get("/reports/combined", handler.Combined)
	app.Get("/reports/tickets/download", authMiddleware.Handle, handler.Download)

	return app, token
}

func openTicket(id, issueType string, createdAt time.Time) domain.Ticket {
	return domain.Ticket{
		ID:           id,
		DisplayID:    "TKT-" + id,
		IssueType:    issueType,
		Status:       domain.TicketStatusOpen,
		Location:     "Lobby",
		CreatorID:    "creator-" + id,
		LastEditorID: "creator-" + id,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func decodeBody(t *testing.T, resp io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp).Decode(&body))
	return body
}

func TestCombinedReportSummary(t *testing.T) {
	at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	store := &fakeStore{tickets: []domain.Ticket{
		openTicket("1", "WIFI", at),
		openTicket("2", "WIFI", at),
		openTicket("3", "BILLING", at),
	}}
	app, _ := newReportApp(t, store, &fakeUsers{})

	resp, err := app.Test(httptest.NewRequest("GET", "/reports/combined", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.EqualValues(t, 3, body["totalTickets"])

	byStatus, ok := body["byStatus"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, byStatus["Open"])
	assert.EqualValues(t, 0, byStatus["In Progress"])
	assert.EqualValues(t, 0, byStatus["Resolved"])

	hourly, ok := body["hourlyDistribution"].([]any)
	require.True(t, ok)
	assert.Len(t, hourly, 24)

	criteria, ok := body["filterCriteria"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "N/A", criteria["startDate"])
	assert.Equal(t, "N/A", criteria["endDate"])
	assert.Equal(t, "All Issue Types", criteria["issueType"])
}

func TestCombinedReportInvalidDates(t *testing.T) {
	store := &fakeStore{}
	app, _ := newReportApp(t, store, &fakeUsers{})

	resp, err := app.Test(httptest.NewRequest("GET", "/reports/combined?startDate=bogus", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid Start Date.", decodeBody(t, resp.Body)["message"])

	resp, err = app.Test(httptest.NewRequest("GET", "/reports/combined?endDate=bogus", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid End Date.", decodeBody(t, resp.Body)["message"])

	assert.Zero(t, store.calls, "validation failures must not reach the store")
}

func TestCombinedReportStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	app, _ := newReportApp(t, store, &fakeUsers{})

	resp, err := app.Test(httptest.NewRequest("GET", "/reports/combined", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Database error fetching tickets for combined report.", decodeBody(t, resp.Body)["message"])
}

func TestDownloadRejectsUnknownFormatBeforeQuery(t *testing.T) {
	store := &fakeStore{}
	app, token := newReportApp(t, store, &fakeUsers{})

	req := httptest.NewRequest("GET", "/reports/tickets/download?format=foo", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid format.", decodeBody(t, resp.Body)["message"])
	assert.Zero(t, store.calls, "no store query may run for an unsupported format")
}

func TestDownloadRequiresAuthentication(t *testing.T) {
	store := &fakeStore{}
	app, _ := newReportApp(t, store, &fakeUsers{})

	resp, err := app.Test(httptest.NewRequest("GET", "/reports/tickets/download", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, store.calls)
}

func TestDownloadCSVWithDegradedIdentityResolution(t *testing.T) {
	at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	tickets := make([]domain.Ticket, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		tickets = append(tickets, openTicket(id, "WIFI", at))
	}
	store := &fakeStore{tickets: tickets}
	users := &fakeUsers{listErr: errors.New("identity provider unreachable")}
	app, token := newReportApp(t, store, users)

	req := httptest.NewRequest("GET", "/reports/tickets/download?format=csv", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `attachment; filename="ticket_report_`)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\r\n")
	assert.Len(t, lines, 6, "header plus five data rows")
	assert.Contains(t, string(raw), "Unknown (ID: creator-", "unresolved actors render as unknown, not an error")
}

func TestDownloadStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	app, token := newReportApp(t, store, &fakeUsers{})

	req := httptest.NewRequest("GET", "/reports/tickets/download", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "DB error for download.", decodeBody(t, resp.Body)["message"])
}

func TestRequestDeadlineReachesStore(t *testing.T) {
	store := &fakeStore{}
	users := &fakeUsers{byID: map[string]*domain.User{}}
	logger := zap.NewNop()

	resolver := identity.NewResolver(users, logger)
	reportService := service.NewReportService(store, resolver, logger)
	handler := handlers.NewReportsHandler(reportService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), time.Second)
	app.Get("/reports/combined", handler.Combined)

	resp, err := app.Test(httptest.NewRequest("GET", "/reports/combined", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, store.sawDeadline, "the request timeout must propagate to the store query")
}

func TestDownloadEmptySetPlaceholder(t *testing.T) {
	store := &fakeStore{tickets: []domain.Ticket{}}
	app, token := newReportApp(t, store, &fakeUsers{})

	req := httptest.NewRequest("GET", "/reports/tickets/download?format=csv", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Info", lines[0])
	assert.Equal(t, "No data to export", lines[1])
}
