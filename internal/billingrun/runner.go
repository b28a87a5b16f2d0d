// Package billingrun orchestrates the monthly billing cycle: aggregate
// attendance, upsert the ledger, dispatch invoices, report to operators.
package billingrun

import (
	"context"
	"time"

	attendancedomain "github.com/Nairolf13/Frimousse-sub002/internal/attendance/domain"
	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/clock"
	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	directorydomain "github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	dispatchdomain "github.com/Nairolf13/Frimousse-sub002/internal/dispatch/domain"
	obsmetrics "github.com/Nairolf13/Frimousse-sub002/internal/observability/metrics"
	"github.com/Nairolf13/Frimousse-sub002/internal/report"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Directory  directorydomain.Repository
	Attendance attendancedomain.Service
	Ledger     billingdomain.Service
	Dispatch   dispatchdomain.Service
	Notifier   *report.Notifier
	Policy     *config.BillingPolicyHolder
	Clock      clock.Clock
	Location   *time.Location
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Runner struct {
	log        *zap.Logger
	directory  directorydomain.Repository
	attendance attendancedomain.Service
	ledger     billingdomain.Service
	dispatch   dispatchdomain.Service
	notifier   *report.Notifier
	policy     *config.BillingPolicyHolder
	clock      clock.Clock
	loc        *time.Location
	metrics    *obsmetrics.Metrics
}

func New(p Params) *Runner {
	return &Runner{
		log:        p.Log.Named("billingrun").With(zap.String("component", "billingrun")),
		directory:  p.Directory,
		attendance: p.Attendance,
		ledger:     p.Ledger,
		dispatch:   p.Dispatch,
		notifier:   p.Notifier,
		policy:     p.Policy,
		clock:      p.Clock,
		loc:        p.Location,
		metrics:    p.Metrics,
	}
}

// RunForMonth executes one billing cycle for the given period. Parents are
// processed sequentially and in isolation: no single parent's failure aborts
// the batch. Zero-total records never reach the dispatch pipeline.
func (r *Runner) RunForMonth(ctx context.Context, year, month int) (report.RunReport, error) {
	if month < 1 || month > 12 {
		return report.RunReport{}, billingdomain.ErrInvalidMonth
	}

	start := r.clock.Now()
	log := r.log.With(zap.Int("year", year), zap.Int("month", month))
	log.Info("billing run started")

	parents, err := r.directory.ListAllParents(ctx)
	if err != nil {
		r.metrics.IncRun("manual", "error")
		return report.RunReport{}, err
	}

	resendOnce := r.policy.Get().ResendPolicy == config.ResendOnce
	outcomes := make([]report.Outcome, 0, len(parents))

	for _, parent := range parents {
		outcome, attempted := r.runOne(ctx, parent, year, month, resendOnce)
		if attempted {
			outcomes = append(outcomes, outcome)
		}
	}

	rep := report.Summarize(year, month, outcomes)
	r.notifier.NotifyOperators(ctx, rep)

	r.metrics.IncRun("manual", "ok")
	r.metrics.ObserveRunDuration(r.clock.Now().Sub(start))
	log.Info("billing run finished",
		zap.Int("attempted", rep.TotalAttempted),
		zap.Int("sent", rep.SentCount),
		zap.Int("failed", rep.FailedCount),
	)
	return rep, nil
}

// runOne processes a single parent. attempted is false when no dispatch was
// due (zero total, or resend suppressed), so the parent stays out of the
// report counters.
func (r *Runner) runOne(ctx context.Context, parent *directorydomain.Parent, year, month int, resendOnce bool) (report.Outcome, bool) {
	log := r.log.With(zap.String("parent_id", parent.ID.String()))

	items, err := r.attendance.Aggregate(ctx, parent.ID, year, month)
	if err != nil {
		log.Error("attendance aggregation failed", zap.Error(err))
		r.metrics.IncUpsert("error")
		return failure(parent, "attendance: "+err.Error()), true
	}

	record, err := r.ledger.Upsert(ctx, parent.ID, year, month, items)
	if err != nil {
		log.Error("ledger upsert failed", zap.Error(err))
		r.metrics.IncUpsert("error")
		return failure(parent, "persistence: "+err.Error()), true
	}
	r.metrics.IncUpsert("ok")

	if !record.Total.IsPositive() {
		return report.Outcome{}, false
	}

	if resendOnce {
		sent, err := r.dispatch.HasSent(ctx, record.ID)
		if err != nil {
			log.Error("sent-log lookup failed", zap.Error(err))
			return failure(parent, "persistence: "+err.Error()), true
		}
		if sent {
			log.Debug("invoice already sent for period, resend suppressed")
			return report.Outcome{}, false
		}
	}

	entry, err := r.dispatch.Dispatch(ctx, record, parent)
	if entry == nil {
		reason := "dispatch failed"
		if err != nil {
			reason = err.Error()
		}
		log.Error("dispatch produced no audit entry", zap.Error(err))
		r.metrics.IncDispatch(string(dispatchdomain.StatusFailed))
		return failure(parent, reason), true
	}
	r.metrics.IncDispatch(string(entry.Status))

	outcome := report.Outcome{
		ParentID:   parent.ID,
		ParentName: parent.Name,
		Status:     entry.Status,
	}
	if entry.ErrorText != nil {
		outcome.Reason = *entry.ErrorText
	}
	return outcome, true
}

// RunForPreviousMonth resolves "previous month" from the injected clock in
// the center timezone, then runs that period.
func (r *Runner) RunForPreviousMonth(ctx context.Context) (report.RunReport, error) {
	now := r.clock.Now().In(r.loc)
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, r.loc)
	prev := firstOfCurrent.AddDate(0, -1, 0)
	return r.RunForMonth(ctx, prev.Year(), int(prev.Month()))
}

func failure(parent *directorydomain.Parent, reason string) report.Outcome {
	return report.Outcome{
		ParentID:   parent.ID,
		ParentName: parent.Name,
		Status:     dispatchdomain.StatusFailed,
		Reason:     reason,
	}
}
