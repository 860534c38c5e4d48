package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatuseek/smn-tkt-sub000/internal/domain"
)

func makeTicket(status domain.TicketStatus, issueType string, createdAt time.Time) domain.Ticket {
	return domain.Ticket{
		ID:        "t-" + issueType,
		Status:    status,
		IssueType: issueType,
		CreatedAt: createdAt,
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	summary := Aggregate(nil)

	assert.Equal(t, 0, summary.TotalCount)

	require.Len(t, summary.CountsByStatus, 3)
	for _, status := range domain.CanonicalStatuses {
		count, ok := summary.CountsByStatus[status]
		require.True(t, ok, "missing status key %q", status)
		assert.Equal(t, 0, count)
	}

	require.Len(t, summary.HourlyDistribution, 24)
	for h, bucket := range summary.HourlyDistribution {
		assert.Equal(t, h, bucket.Hour)
		assert.Equal(t, 0, bucket.Count)
		assert.NotEmpty(t, bucket.Label)
	}
	assert.Equal(t, "0:00 - 1:00", summary.HourlyDistribution[0].Label)
	assert.Equal(t, "23:00 - 24:00", summary.HourlyDistribution[23].Label)

	assert.Empty(t, summary.CountsByIssueType)
}

func TestAggregateStatusCounts(t *testing.T) {
	at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	tickets := []domain.Ticket{
		makeTicket(domain.TicketStatusOpen, "WIFI", at),
		makeTicket(domain.TicketStatusOpen, "WIFI", at),
		makeTicket(domain.TicketStatusOpen, "BILLING", at),
		makeTicket(domain.TicketStatusResolved, "WIFI", at),
		makeTicket(domain.TicketStatusResolved, "OTHER", at),
	}

	summary := Aggregate(tickets)

	assert.Equal(t, 5, summary.TotalCount)
	assert.Equal(t, 3, summary.CountsByStatus[domain.TicketStatusOpen])
	assert.Equal(t, 0, summary.CountsByStatus[domain.TicketStatusInProgress])
	assert.Equal(t, 2, summary.CountsByStatus[domain.TicketStatusResolved])
}

func TestAggregateUnrecognizedStatusCountsTowardTotalOnly(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 30, 0, 0, time.Local)
	tickets := []domain.Ticket{
		makeTicket(domain.TicketStatusOpen, "WIFI", at),
		makeTicket(domain.TicketStatus("Escalated"), "WIFI", at),
	}

	summary := Aggregate(tickets)

	assert.Equal(t, 2, summary.TotalCount)
	total := 0
	for _, count := range summary.CountsByStatus {
		total += count
	}
	assert.Equal(t, 1, total, "out-of-enum status must not land in any bucket")
	require.Len(t, summary.CountsByStatus, 3)
}

func TestAggregateIssueTypeConservation(t *testing.T) {
	at := time.Date(2024, 3, 5, 8, 0, 0, 0, time.Local)
	tickets := []domain.Ticket{
		makeTicket(domain.TicketStatusOpen, "WIFI", at),
		makeTicket(domain.TicketStatusOpen, "", at),
		makeTicket(domain.TicketStatusOpen, "BILLING", at),
	}

	summary := Aggregate(tickets)

	sum := 0
	for _, entry := range summary.CountsByIssueType {
		sum += entry.Count
	}
	assert.Equal(t, summary.TotalCount, sum)

	var found bool
	for _, entry := range summary.CountsByIssueType {
		if entry.IssueType == "Unknown Type" {
			found = true
			assert.Equal(t, 1, entry.Count)
		}
	}
	assert.True(t, found, "blank issue type buckets as Unknown Type")
}

func TestAggregateIssueTypeStableTieBreak(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	var tickets []domain.Ticket
	// A encountered before B, both end at 5; C at 2.
	for i := 0; i < 5; i++ {
		tickets = append(tickets, makeTicket(domain.TicketStatusOpen, "A", at))
	}
	for i := 0; i < 5; i++ {
		tickets = append(tickets, makeTicket(domain.TicketStatusOpen, "B", at))
	}
	for i := 0; i < 2; i++ {
		tickets = append(tickets, makeTicket(domain.TicketStatusOpen, "C", at))
	}

	summary := Aggregate(tickets)

	require.Len(t, summary.CountsByIssueType, 3)
	assert.Equal(t, "A", summary.CountsByIssueType[0].IssueType)
	assert.Equal(t, "B", summary.CountsByIssueType[1].IssueType)
	assert.Equal(t, "C", summary.CountsByIssueType[2].IssueType)
}

func TestAggregateHourlyDistribution(t *testing.T) {
	tickets := []domain.Ticket{
		makeTicket(domain.TicketStatusOpen, "WIFI", time.Date(2024, 1, 10, 0, 15, 0, 0, time.Local)),
		makeTicket(domain.TicketStatusOpen, "WIFI", time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)),
		makeTicket(domain.TicketStatusOpen, "WIFI", time.Date(2024, 1, 10, 9, 59, 0, 0, time.Local)),
		makeTicket(domain.TicketStatusOpen, "WIFI", time.Date(2024, 1, 10, 23, 59, 59, 0, time.Local)),
	}

	summary := Aggregate(tickets)

	assert.Equal(t, 1, summary.HourlyDistribution[0].Count)
	assert.Equal(t, 2, summary.HourlyDistribution[9].Count)
	assert.Equal(t, 1, summary.HourlyDistribution[23].Count)

	sum := 0
	for _, bucket := range summary.HourlyDistribution {
		sum += bucket.Count
	}
	assert.Equal(t, summary.TotalCount, sum)
}

func TestAggregateZeroTimestampSkipsHourOnly(t *testing.T) {
	tickets := []domain.Ticket{
		makeTicket(domain.TicketStatusOpen, "WIFI", time.Time{}),
		makeTicket(domain.TicketStatusOpen, "WIFI", time.Date(2024, 1, 10, 5, 0, 0, 0, time.Local)),
	}

	summary := Aggregate(tickets)

	assert.Equal(t, 2, summary.TotalCount)
	assert.Equal(t, 2, summary.CountsByIssueType[0].Count)

	sum := 0
	for _, bucket := range summary.HourlyDistribution {
		sum += bucket.Count
	}
	assert.Equal(t, 1, sum, "zero timestamp contributes no hour")
}
