// Package domain contains persistence models for the monthly ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// PaymentHistory is the monthly ledger entry per parent. Exactly one row
// exists per (parent_id, year, month); the unique index enforces it at the
// store layer so overlapping runs cannot create duplicates.
type PaymentHistory struct {
	ID             snowflake.ID         `gorm:"primaryKey"`
	ParentID       snowflake.ID         `gorm:"not null;index;uniqueIndex:ux_payment_history_period"`
	Year           int                  `gorm:"not null;uniqueIndex:ux_payment_history_period"`
	Month          int                  `gorm:"not null;uniqueIndex:ux_payment_history_period"`
	Total          decimal.Decimal      `gorm:"type:numeric(12,2);not null"`
	Discount       decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0"`
	TaxRatePercent decimal.Decimal      `gorm:"type:numeric(6,3);not null;default:0"`
	TotalOverride  *decimal.Decimal     `gorm:"type:numeric(12,2)"`
	Paid           bool                 `gorm:"not null;default:false"`
	Items          []PaymentHistoryItem `gorm:"foreignKey:PaymentHistoryID"`
	CreatedAt      time.Time            `gorm:"not null"`
	UpdatedAt      time.Time            `gorm:"not null"`
}

func (PaymentHistory) TableName() string { return "payment_histories" }

// PaymentHistoryItem is one child's attendance-derived charge within the
// period. Items are fully recomputed on every run; they are never edited
// independently.
type PaymentHistoryItem struct {
	ID               snowflake.ID    `gorm:"primaryKey"`
	PaymentHistoryID snowflake.ID    `gorm:"not null;index"`
	Position         int             `gorm:"not null"`
	ChildName        string          `gorm:"type:text;not null"`
	ChildGroup       string          `gorm:"type:text"`
	DaysPresent      int             `gorm:"not null"`
	RatePerDay       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Subtotal         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
}

func (PaymentHistoryItem) TableName() string { return "payment_history_items" }

// LineItem is the computed input to an upsert, before persistence.
type LineItem struct {
	ChildName   string
	ChildGroup  string
	DaysPresent int
	RatePerDay  decimal.Decimal
	Subtotal    decimal.Decimal
}
