// Package domain contains the dispatch audit trail. One EmailLog row is
// appended per dispatch attempt; rows are never updated or deleted.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the terminal outcome of one dispatch attempt.
type Status string

const (
	// StatusSent means the transport accepted the message.
	StatusSent Status = "sent"
	// StatusFailed covers render errors, transport rejections, timeouts and
	// missing contact addresses.
	StatusFailed Status = "failed"
	// StatusSkipped means the global sending switch was off.
	StatusSkipped Status = "skipped"
	// StatusNoTransport means no mail transport was configured.
	StatusNoTransport Status = "no_transport"
)

// EmailLog records one invoice dispatch attempt. It references the ledger
// row by id only; nothing cascades.
type EmailLog struct {
	ID               snowflake.ID               `gorm:"primaryKey"`
	PaymentHistoryID snowflake.ID               `gorm:"not null;index"`
	Recipients       datatypes.JSONSlice[string] `gorm:"not null"`
	RecipientsText   string                     `gorm:"type:text;not null"`
	Subject          string                     `gorm:"type:text;not null"`
	MessageID        *string                    `gorm:"type:text"`
	Status           Status                     `gorm:"type:text;not null"`
	ErrorText        *string                    `gorm:"type:text"`
	CreatedAt        time.Time                  `gorm:"not null"`
}

func (EmailLog) TableName() string { return "email_logs" }
