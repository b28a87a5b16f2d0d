// Package report aggregates batch outcomes and tells the operators.
package report

import (
	"github.com/Nairolf13/Frimousse-sub002/internal/dispatch/domain"
	"github.com/bwmarrin/snowflake"
)

// Outcome is one parent's terminal result within a billing run.
type Outcome struct {
	ParentID   snowflake.ID
	ParentName string
	Status     domain.Status
	Reason     string
}

// Failure identifies one parent whose invoice did not go out.
type Failure struct {
	ParentID   snowflake.ID `json:"parent_id"`
	ParentName string       `json:"parent_name"`
	Reason     string       `json:"reason"`
}

// RunReport is the batch-level summary of one billing cycle. Ephemeral: it
// only lives as a notification payload and an HTTP response.
type RunReport struct {
	Year             int       `json:"year"`
	Month            int       `json:"month"`
	TotalAttempted   int       `json:"total_attempted"`
	SentCount        int       `json:"sent_count"`
	FailedCount      int       `json:"failed_count"`
	SkippedCount     int       `json:"skipped_count"`
	NoTransportCount int       `json:"no_transport_count"`
	Failures         []Failure `json:"failures"`
}

// Summarize folds outcomes into a report. Pure aggregation.
func Summarize(year, month int, outcomes []Outcome) RunReport {
	r := RunReport{
		Year:           year,
		Month:          month,
		TotalAttempted: len(outcomes),
		Failures:       []Failure{},
	}
	for _, o := range outcomes {
		switch o.Status {
		case domain.StatusSent:
			r.SentCount++
		case domain.StatusSkipped:
			r.SkippedCount++
		case domain.StatusNoTransport:
			r.NoTransportCount++
		default:
			r.FailedCount++
			r.Failures = append(r.Failures, Failure{
				ParentID:   o.ParentID,
				ParentName: o.ParentName,
				Reason:     o.Reason,
			})
		}
	}
	return r
}
