package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/whatuseek/smn-tkt-sub000/internal/domain"
	"github.com/whatuseek/smn-tkt-sub000/internal/identity"
	"github.com/whatuseek/smn-tkt-sub000/internal/report"
	"github.com/whatuseek/smn-tkt-sub000/internal/report/encoder"
	"github.com/whatuseek/smn-tkt-sub000/internal/repository"
	apperrors "github.com/whatuseek/smn-tkt-sub000/pkg/util"
)

// TicketReportStore is the query surface the report pipeline needs from the
// ticket store. Satisfied by repository.TicketRepository; replaced by fakes
// in tests.
type TicketReportStore interface {
	Report(ctx context.Context, filter repository.ReportFilter) ([]domain.Ticket, error)
}

// ReportService runs the report pipeline: query, aggregate or project, then
// encode. It holds no per-request state.
type ReportService struct {
	store    TicketReportStore
	resolver *identity.Resolver
	logger   *zap.Logger
}

// NewReportService builds the service.
func NewReportService(store TicketReportStore, resolver *identity.Resolver, logger *zap.Logger) *ReportService {
	return &ReportService{store: store, resolver: resolver, logger: logger}
}

// Combined produces the analytics summary for the filtered ticket set.
func (s *ReportService) Combined(ctx context.Context, spec report.FilterSpec) (*report.Summary, error) {
	tickets, err := s.store.Report(ctx, spec.StoreFilter())
	if err != nil {
		return nil, apperrors.NewStoreError("Database error fetching tickets for combined report.", err)
	}
	summary := report.Aggregate(tickets)
	return &summary, nil
}

// Download runs the export path. The store query and the identity preload
// are independent I/O, so they run concurrently; the identity preload never
// fails the export (degraded mode renders unknown actors).
func (s *ReportService) Download(ctx context.Context, spec report.FilterSpec, format encoder.Format, now time.Time) (*encoder.File, error) {
	infoCh := make(chan map[string]identity.DisplayInfo, 1)
	go func() {
		infoCh <- s.resolver.ResolveAll(ctx)
	}()

	tickets, err := s.store.Report(ctx, spec.StoreFilter())
	if err != nil {
		return nil, apperrors.NewStoreError("DB error for download.", err)
	}
	infos := <-infoCh

	rows := report.ProjectRows(tickets, infos)
	file, err := encoder.Encode(rows, format, encoder.Metadata{
		GeneratedAt:   now,
		FilterSummary: spec.DisplayCriteria().Summary(),
	})
	if err != nil {
		s.logger.Error("report encoding failed", zap.String("format", string(format)), zap.Error(err))
		return nil, apperrors.NewDomainError("ENCODING_ERROR", "Failed to generate report file.", http.StatusInternalServerError, nil)
	}
	return file, nil
}
