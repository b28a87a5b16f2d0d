// Package domain contains the center directory read models: the billed
// parents, their children and the attendance records produced by the
// scheduling subsystem. The billing pipeline only reads these tables.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Center is the issuing childcare center.
type Center struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Name        string       `gorm:"type:text;not null"`
	AddressLine string       `gorm:"type:text"`
	City        string       `gorm:"type:text"`
	Email       string       `gorm:"type:text"`
	CreatedAt   time.Time    `gorm:"not null"`
}

func (Center) TableName() string { return "centers" }

// Parent is the billed party. A parent owns zero or more children.
type Parent struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CenterID  snowflake.ID `gorm:"not null;index"`
	Name      string       `gorm:"type:text;not null"`
	Email     string       `gorm:"type:text"`
	Phone     string       `gorm:"type:text"`
	Children  []Child      `gorm:"many2many:parent_children;"`
	CreatedAt time.Time    `gorm:"not null"`
}

func (Parent) TableName() string { return "parents" }

type Child struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CenterID  snowflake.ID `gorm:"not null;index"`
	Name      string       `gorm:"type:text;not null"`
	GroupName string       `gorm:"type:text"`
	BirthDate *time.Time
	CreatedAt time.Time `gorm:"not null"`
}

func (Child) TableName() string { return "children" }

// AttendanceRecord marks one child present on one date. Immutable input;
// this subsystem never writes to it.
type AttendanceRecord struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	ChildID   snowflake.ID `gorm:"not null;index:ix_attendance_child_date"`
	Date      time.Time    `gorm:"not null;index:ix_attendance_child_date"`
	CreatedAt time.Time    `gorm:"not null"`
}

func (AttendanceRecord) TableName() string { return "attendance_records" }
