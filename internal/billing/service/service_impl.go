package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nairolf13/Frimousse-sub002/internal/billing/calc"
	"github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/clock"
	"github.com/Nairolf13/Frimousse-sub002/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("billing.ledger"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

// Upsert writes the one ledger row for (parentID, year, month). An existing
// row keeps its id, createdAt, paid flag, discount, tax rate and override;
// only the items and the recomputed total change. Creation races between
// overlapping runs resolve through the store unique index: the loser re-reads
// the winner's row and updates it.
func (s *service) Upsert(ctx context.Context, parentID snowflake.ID, year, month int, items []domain.LineItem) (*domain.PaymentHistory, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidMonth
	}

	var record *domain.PaymentHistory
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		record, err = s.upsertOnce(ctx, parentID, year, month, items)
		if err == nil || !db.IsDuplicateKeyErr(err) {
			break
		}
		s.log.Debug("upsert lost create race, retrying as update",
			zap.String("parent_id", parentID.String()),
			zap.Int("year", year),
			zap.Int("month", month),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert payment history: %w", err)
	}
	return record, nil
}

func (s *service) upsertOnce(ctx context.Context, parentID snowflake.ID, year, month int, items []domain.LineItem) (*domain.PaymentHistory, error) {
	now := s.clock.Now().UTC()
	var recordID snowflake.ID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.PaymentHistory
		err := tx.Where("parent_id = ? AND year = ? AND month = ?", parentID, year, month).
			First(&existing).Error

		switch {
		case err == nil:
			total := calc.Compute(items, existing.Discount, existing.TaxRatePercent, existing.TotalOverride)
			if err := tx.Model(&domain.PaymentHistory{}).
				Where("id = ?", existing.ID).
				Updates(map[string]any{
					"total":      total,
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
			recordID = existing.ID
			return s.replaceItems(tx, existing.ID, items, now)

		case errors.Is(err, gorm.ErrRecordNotFound):
			record := domain.PaymentHistory{
				ID:        s.genID.Generate(),
				ParentID:  parentID,
				Year:      year,
				Month:     month,
				Paid:      false,
				CreatedAt: now,
				UpdatedAt: now,
			}
			record.Total = calc.Compute(items, record.Discount, record.TaxRatePercent, nil)
			if err := tx.Omit("Items").Create(&record).Error; err != nil {
				return err
			}
			recordID = record.ID
			return s.replaceItems(tx, record.ID, items, now)

		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return s.loadWithItems(ctx, recordID)
}

// replaceItems wipes and rewrites the line items, preserving input order
// through the position column.
func (s *service) replaceItems(tx *gorm.DB, recordID snowflake.ID, items []domain.LineItem, now time.Time) error {
	if err := tx.Where("payment_history_id = ?", recordID).
		Delete(&domain.PaymentHistoryItem{}).Error; err != nil {
		return err
	}
	for i, item := range items {
		row := domain.PaymentHistoryItem{
			ID:               s.genID.Generate(),
			PaymentHistoryID: recordID,
			Position:         i,
			ChildName:        item.ChildName,
			ChildGroup:       item.ChildGroup,
			DaysPresent:      item.DaysPresent,
			RatePerDay:       item.RatePerDay,
			Subtotal:         item.Subtotal,
			CreatedAt:        now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *service) loadWithItems(ctx context.Context, id snowflake.ID) (*domain.PaymentHistory, error) {
	var record domain.PaymentHistory
	err := s.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position asc")
		}).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.PaymentHistory, error) {
	return s.loadWithItems(ctx, id)
}

func (s *service) GetByPeriod(ctx context.Context, parentID snowflake.ID, year, month int) (*domain.PaymentHistory, error) {
	var record domain.PaymentHistory
	err := s.db.WithContext(ctx).
		Where("parent_id = ? AND year = ? AND month = ?", parentID, year, month).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s.loadWithItems(ctx, record.ID)
}

// SetPaid flips the administrative paid flag. Independent of recomputation.
func (s *service) SetPaid(ctx context.Context, id snowflake.ID, paid bool) error {
	res := s.db.WithContext(ctx).
		Model(&domain.PaymentHistory{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"paid":       paid,
			"updated_at": s.clock.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
