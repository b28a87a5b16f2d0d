package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Nairolf13/Frimousse-sub002/internal/attendance/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/billing/calc"
	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	directorydomain "github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	Directory directorydomain.Repository
	Policy    *config.BillingPolicyHolder
	Location  *time.Location
}

type service struct {
	log       *zap.Logger
	directory directorydomain.Repository
	policy    *config.BillingPolicyHolder
	loc       *time.Location
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		log:       p.Log.Named("attendance"),
		directory: p.Directory,
		policy:    p.Policy,
		loc:       p.Location,
	}
}

func (s *service) Aggregate(ctx context.Context, parentID snowflake.ID, year, month int) ([]billingdomain.LineItem, error) {
	if month < 1 || month > 12 {
		return nil, billingdomain.ErrInvalidMonth
	}

	from, to := monthBounds(year, month, s.loc)
	rate := s.policy.Get().Rate()

	children, err := s.directory.ListChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}

	items := make([]billingdomain.LineItem, 0, len(children))
	for _, child := range children {
		days, err := s.directory.CountAttendance(ctx, child.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("count attendance for child %s: %w", child.ID, err)
		}
		items = append(items, billingdomain.LineItem{
			ChildName:   child.Name,
			ChildGroup:  child.GroupName,
			DaysPresent: int(days),
			RatePerDay:  rate,
			Subtotal:    calc.LineSubtotal(int(days), rate),
		})
	}
	return items, nil
}

// monthBounds returns the inclusive [first instant, last instant] of the
// calendar month in the given location.
func monthBounds(year, month int, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return from, to
}
