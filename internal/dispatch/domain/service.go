package domain

import (
	"context"
	"errors"

	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	directorydomain "github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	"github.com/bwmarrin/snowflake"
)

// Service renders and sends one invoice to one parent, independent of every
// other parent. Each attempt appends exactly one EmailLog row; the returned
// error mirrors the failed status for callers that want it, and the batch
// runner deliberately ignores it.
type Service interface {
	Dispatch(ctx context.Context, record *billingdomain.PaymentHistory, parent *directorydomain.Parent) (*EmailLog, error)
	// HasSent reports whether a sent log already exists for the record.
	HasSent(ctx context.Context, recordID snowflake.ID) (bool, error)
	ListByRecord(ctx context.Context, recordID snowflake.ID) ([]EmailLog, error)
}

var (
	ErrMissingContact = errors.New("missing contact")
	ErrSendFailed     = errors.New("invoice send failed")
)
