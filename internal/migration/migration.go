// Package migration creates the core tables on startup so the back office
// is usable out of the box for local and self-hosted environments. The
// unique ledger index ux_payment_history_period is part of the schema, not
// application logic.
package migration

import (
	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	directorydomain "github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	dispatchdomain "github.com/Nairolf13/Frimousse-sub002/internal/dispatch/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&directorydomain.Center{},
		&directorydomain.Parent{},
		&directorydomain.Child{},
		&directorydomain.AttendanceRecord{},
		&billingdomain.PaymentHistory{},
		&billingdomain.PaymentHistoryItem{},
		&dispatchdomain.EmailLog{},
	)
}

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		return AutoMigrate(conn)
	}),
)
