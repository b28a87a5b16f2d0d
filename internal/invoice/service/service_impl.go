package service

import (
	"context"
	"fmt"
	"time"

	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	directorydomain "github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/invoice/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/invoice/render"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	Renderer  *render.Renderer
	Ledger    billingdomain.Service
	Directory directorydomain.Repository
	Policy    *config.BillingPolicyHolder
	Location  *time.Location
}

type service struct {
	log       *zap.Logger
	renderer  *render.Renderer
	ledger    billingdomain.Service
	directory directorydomain.Repository
	policy    *config.BillingPolicyHolder
	loc       *time.Location
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		log:       p.Log.Named("invoice"),
		renderer:  p.Renderer,
		ledger:    p.Ledger,
		directory: p.Directory,
		policy:    p.Policy,
		loc:       p.Location,
	}
}

// Render produces the invoice document for a record. The issue date is the
// record's creation instant in the center timezone, so every consumer of the
// same record receives identical bytes.
func (s *service) Render(ctx context.Context, record *billingdomain.PaymentHistory, parent *directorydomain.Parent) (*domain.Rendered, error) {
	center, err := s.directory.FindCenter(ctx, parent.CenterID)
	if err != nil {
		return nil, fmt.Errorf("find center %s: %w", parent.CenterID, err)
	}

	issued := record.CreatedAt.In(s.loc)
	doc := domain.BuildDocument(record, parent, center, s.policy.Get().Currency, issued)

	data, err := s.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}

	return &domain.Rendered{
		Number:   doc.Number,
		Filename: doc.Number + ".pdf",
		Bytes:    data,
	}, nil
}

func (s *service) RenderByID(ctx context.Context, recordID snowflake.ID) (*domain.Rendered, error) {
	record, err := s.ledger.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	parent, err := s.directory.FindParent(ctx, record.ParentID)
	if err != nil {
		return nil, fmt.Errorf("find parent %s: %w", record.ParentID, err)
	}
	return s.Render(ctx, record, parent)
}
