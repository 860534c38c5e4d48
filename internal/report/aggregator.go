package report

import (
	"fmt"
	"sort"

	"github.com/whatuseek/smn-tkt-sub000/internal/domain"
)

// unknownIssueType buckets tickets whose issue type is blank.
const unknownIssueType = "Unknown Type"

// IssueTypeCount is one entry of the ranked issue-type tally.
type IssueTypeCount struct {
	IssueType string `json:"issue_type"`
	Count     int    `json:"count"`
}

// HourBucket is one of the 24 hour-of-day buckets.
type HourBucket struct {
	Hour  int    `json:"hour"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// Summary holds aggregated counts over a filtered ticket set.
type Summary struct {
	TotalCount         int
	CountsByStatus     map[domain.TicketStatus]int
	CountsByIssueType  []IssueTypeCount
	HourlyDistribution []HourBucket
}

// Aggregate computes a Summary from the filtered ticket list. It performs no
// I/O. Status values outside the three canonical states count toward
// TotalCount but toward no status bucket; downstream consumers assume exactly
// three buckets, so no "Other" bucket is introduced.
func Aggregate(tickets []domain.Ticket) Summary {
	byStatus := make(map[domain.TicketStatus]int, len(domain.CanonicalStatuses))
	for _, status := range domain.CanonicalStatuses {
		byStatus[status] = 0
	}

	hours := make([]HourBucket, 24)
	for h := range hours {
		hours[h] = HourBucket{Hour: h, Label: fmt.Sprintf("%d:00 - %d:00", h, h+1)}
	}

	issueCounts := map[string]int{}
	issueOrder := []string{}

	for _, ticket := range tickets {
		if domain.ValidStatus(ticket.Status) {
			byStatus[ticket.Status]++
		}

		issueType := ticket.IssueType
		if issueType == "" {
			issueType = unknownIssueType
		}
		if _, seen := issueCounts[issueType]; !seen {
			issueOrder = append(issueOrder, issueType)
		}
		issueCounts[issueType]++

		// A zero timestamp has no meaningful hour; the ticket still counts
		// toward the total and issue-type tallies.
		if ticket.CreatedAt.IsZero() {
			continue
		}
		if h := ticket.CreatedAt.Hour(); h >= 0 && h < 24 {
			hours[h].Count++
		}
	}

	// Rank issue types by count descending. The stable sort over the
	// first-encounter order makes ties deterministic.
	ranked := make([]IssueTypeCount, 0, len(issueOrder))
	for _, issueType := range issueOrder {
		ranked = append(ranked, IssueTypeCount{IssueType: issueType, Count: issueCounts[issueType]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	return Summary{
		TotalCount:         len(tickets),
		CountsByStatus:     byStatus,
		CountsByIssueType:  ranked,
		HourlyDistribution: hours,
	}
}
