package domain

import (
	"context"

	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	"github.com/bwmarrin/snowflake"
)

// Service aggregates attendance into billable line items. Read-only.
type Service interface {
	// Aggregate counts attendance days per child of the parent within the
	// calendar month, in the center timezone, and prices them at the
	// configured daily rate. month is 1-12.
	Aggregate(ctx context.Context, parentID snowflake.ID, year, month int) ([]billingdomain.LineItem, error)
}
