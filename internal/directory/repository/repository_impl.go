package repository

import (
	"context"
	"time"

	"github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindCenter(ctx context.Context, id snowflake.ID) (*domain.Center, error) {
	var center domain.Center
	err := r.db.WithContext(ctx).First(&center, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &center, nil
}

func (r *repo) FindParent(ctx context.Context, id snowflake.ID) (*domain.Parent, error) {
	var parent domain.Parent
	err := r.db.WithContext(ctx).First(&parent, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

func (r *repo) ListParents(ctx context.Context, centerID snowflake.ID) ([]*domain.Parent, error) {
	var parents []*domain.Parent
	err := r.db.WithContext(ctx).
		Where("center_id = ?", centerID).
		Order("created_at asc, id asc").
		Find(&parents).Error
	if err != nil {
		return nil, err
	}
	return parents, nil
}

func (r *repo) ListAllParents(ctx context.Context) ([]*domain.Parent, error) {
	var parents []*domain.Parent
	err := r.db.WithContext(ctx).
		Order("created_at asc, id asc").
		Find(&parents).Error
	if err != nil {
		return nil, err
	}
	return parents, nil
}

func (r *repo) ListChildren(ctx context.Context, parentID snowflake.ID) ([]*domain.Child, error) {
	var children []*domain.Child
	err := r.db.WithContext(ctx).
		Joins("JOIN parent_children pc ON pc.child_id = children.id").
		Where("pc.parent_id = ?", parentID).
		Order("children.name asc, children.id asc").
		Find(&children).Error
	if err != nil {
		return nil, err
	}
	return children, nil
}

func (r *repo) CountAttendance(ctx context.Context, childID snowflake.ID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.AttendanceRecord{}).
		Where("child_id = ? AND date >= ? AND date <= ?", childID, from, to).
		Count(&count).Error
	return count, err
}
