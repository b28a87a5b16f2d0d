package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Service is the invoice ledger. Upsert is idempotent per
// (parentID, year, month): re-running a period updates the one existing row
// in place and never creates a duplicate.
type Service interface {
	Upsert(ctx context.Context, parentID snowflake.ID, year, month int, items []LineItem) (*PaymentHistory, error)
	GetByID(ctx context.Context, id snowflake.ID) (*PaymentHistory, error)
	GetByPeriod(ctx context.Context, parentID snowflake.ID, year, month int) (*PaymentHistory, error)
	SetPaid(ctx context.Context, id snowflake.ID, paid bool) error
}

var (
	ErrNotFound     = errors.New("payment history not found")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)
