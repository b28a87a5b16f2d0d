package domain

import (
	"context"
	"errors"

	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	directorydomain "github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	"github.com/bwmarrin/snowflake"
)

// Rendered is a finished invoice document. The same ledger record always
// renders to the same bytes, whether served as an HTTP download or attached
// to a mail.
type Rendered struct {
	Number   string
	Filename string
	Bytes    []byte
}

type Service interface {
	// Render builds and renders the invoice for a loaded record.
	Render(ctx context.Context, record *billingdomain.PaymentHistory, parent *directorydomain.Parent) (*Rendered, error)
	// RenderByID loads the record and its parent, then renders.
	RenderByID(ctx context.Context, recordID snowflake.ID) (*Rendered, error)
}

var ErrRenderFailed = errors.New("invoice render failed")
