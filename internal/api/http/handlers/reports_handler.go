package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/whatuseek/smn-tkt-sub000/internal/api/dto"
	"github.com/whatuseek/smn-tkt-sub000/internal/report"
	"github.com/whatuseek/smn-tkt-sub000/internal/report/encoder"
	"github.com/whatuseek/smn-tkt-sub000/internal/service"
	apperrors "github.com/whatuseek/smn-tkt-sub000/pkg/util"
)

// ReportsHandler serves the analytics summary and the export download.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Combined GET /reports/combined.
func (h *ReportsHandler) Combined(c *fiber.Ctx) error {
	spec, err := report.ParseFilter(c.Query("startDate"), c.Query("endDate"), "", c.Query("issueType"))
	if err != nil {
		return mapFilterError(err)
	}

	summary, err := h.service.Combined(c.UserContext(), spec)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCombinedReportResponse(summary, spec.DisplayCriteria()))
}

// Download GET /reports/tickets/download. The format is validated before the
// filter so no store query ever runs for an unsupported format.
func (h *ReportsHandler) Download(c *fiber.Ctx) error {
	format, err := encoder.ParseFormat(c.Query("format"))
	if err != nil {
		return apperrors.NewValidationError("Invalid format.", nil)
	}
	spec, err := report.ParseFilter(c.Query("startDate"), c.Query("endDate"), c.Query("status"), c.Query("issueType"))
	if err != nil {
		return mapFilterError(err)
	}

	file, err := h.service.Download(c.UserContext(), spec, format, time.Now())
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Send(file.Bytes)
}

func mapFilterError(err error) error {
	switch {
	case errors.Is(err, report.ErrInvalidStartDate):
		return apperrors.NewValidationError("Invalid Start Date.", nil)
	case errors.Is(err, report.ErrInvalidEndDate):
		return apperrors.NewValidationError("Invalid End Date.", nil)
	case errors.Is(err, report.ErrInvalidDateRange):
		return apperrors.NewValidationError("End Date cannot be before Start Date.", nil)
	}
	return apperrors.MapError(err)
}
