package dto

import (
	"github.com/whatuseek/smn-tkt-sub000/internal/report"
)

// CombinedReportResponse is the analytics summary body. Key casing matches
// the dashboard consumer exactly.
type CombinedReportResponse struct {
	TotalTickets       int                     `json:"totalTickets"`
	ByStatus           map[string]int          `json:"byStatus"`
	ByIssueType        []report.IssueTypeCount `json:"byIssueType"`
	HourlyDistribution []report.HourBucket     `json:"hourlyDistribution"`
	FilterCriteria     report.Criteria         `json:"filterCriteria"`
}

// NewCombinedReportResponse maps a summary and its filter into the response
// body.
func NewCombinedReportResponse(summary *report.Summary, criteria report.Criteria) CombinedReportResponse {
	byStatus := make(map[string]int, len(summary.CountsByStatus))
	for status, count := range summary.CountsByStatus {
		byStatus[string(status)] = count
	}
	return CombinedReportResponse{
		TotalTickets:       summary.TotalCount,
		ByStatus:           byStatus,
		ByIssueType:        summary.CountsByIssueType,
		HourlyDistribution: summary.HourlyDistribution,
		FilterCriteria:     criteria,
	}
}
