package report

import (
	"errors"
	"time"

	"github.com/whatuseek/smn-tkt-sub000/internal/domain"
	"github.com/whatuseek/smn-tkt-sub000/internal/repository"
)

// Validation failures surfaced before any store query runs. Handlers map
// these to 400 responses.
var (
	ErrInvalidStartDate = errors.New("invalid start date")
	ErrInvalidEndDate   = errors.New("invalid end date")
	ErrInvalidDateRange = errors.New("end date before start date")
)

const dateLayout = "2006-01-02"

// FilterSpec is the per-request constraint set. StartAt/EndAt are fully
// resolved instants: start of day for the lower bound and the last nanosecond
// of the calendar day for the upper bound, making the end date inclusive.
// The raw strings are kept for echoing back in responses and PDF subtitles.
type FilterSpec struct {
	StartAt   *time.Time
	EndAt     *time.Time
	StartRaw  string
	EndRaw    string
	Status    *domain.TicketStatus
	IssueType *string
}

// ParseFilter validates raw query parameters into a FilterSpec. Empty
// parameters mean "no constraint".
func ParseFilter(startDate, endDate, status, issueType string) (FilterSpec, error) {
	spec := FilterSpec{StartRaw: startDate, EndRaw: endDate}

	if startDate != "" {
		day, err := time.ParseInLocation(dateLayout, startDate, time.Local)
		if err != nil {
			return FilterSpec{}, ErrInvalidStartDate
		}
		spec.StartAt = &day
	}
	if endDate != "" {
		day, err := time.ParseInLocation(dateLayout, endDate, time.Local)
		if err != nil {
			return FilterSpec{}, ErrInvalidEndDate
		}
		endOfDay := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		spec.EndAt = &endOfDay
	}
	if spec.StartAt != nil && spec.EndAt != nil && spec.EndAt.Before(*spec.StartAt) {
		return FilterSpec{}, ErrInvalidDateRange
	}

	if status != "" {
		s := domain.TicketStatus(status)
		spec.Status = &s
	}
	if issueType != "" {
		spec.IssueType = &issueType
	}
	return spec, nil
}

// StoreFilter converts the spec into the repository's filter shape.
func (f FilterSpec) StoreFilter() repository.ReportFilter {
	return repository.ReportFilter{
		CreatedFrom: f.StartAt,
		CreatedTo:   f.EndAt,
		Status:      f.Status,
		IssueType:   f.IssueType,
	}
}

// Criteria describes the active filters in display form, "N/A" and
// "All Issue Types" standing in for absent constraints.
type Criteria struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IssueType string `json:"issueType"`
	Status    string `json:"status,omitempty"`
}

// DisplayCriteria renders the filter for response bodies and PDF subtitles.
func (f FilterSpec) DisplayCriteria() Criteria {
	criteria := Criteria{StartDate: "N/A", EndDate: "N/A", IssueType: "All Issue Types"}
	if f.StartRaw != "" {
		criteria.StartDate = f.StartRaw
	}
	if f.EndRaw != "" {
		criteria.EndDate = f.EndRaw
	}
	if f.IssueType != nil {
		criteria.IssueType = *f.IssueType
	}
	if f.Status != nil {
		criteria.Status = string(*f.Status)
	}
	return criteria
}

// Summary is a one-line description of the active filters for the PDF
// subtitle.
func (c Criteria) Summary() string {
	status := c.Status
	if status == "" {
		status = "All Statuses"
	}
	return "Status: " + status + " | Issue Type: " + c.IssueType +
		" | From: " + c.StartDate + " | To: " + c.EndDate
}
