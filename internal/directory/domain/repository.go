package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Repository reads the directory tables. The billing pipeline depends on
// this interface only, never on the web-facing CRUD layer.
type Repository interface {
	FindCenter(ctx context.Context, id snowflake.ID) (*Center, error)
	FindParent(ctx context.Context, id snowflake.ID) (*Parent, error)
	ListParents(ctx context.Context, centerID snowflake.ID) ([]*Parent, error)
	// ListAllParents returns every parent across centers in a stable order.
	ListAllParents(ctx context.Context) ([]*Parent, error)
	ListChildren(ctx context.Context, parentID snowflake.ID) ([]*Child, error)
	// CountAttendance counts attendance rows for a child with
	// from <= date <= to.
	CountAttendance(ctx context.Context, childID snowflake.ID, from, to time.Time) (int64, error)
}
