package main

import (
	"github.com/Nairolf13/Frimousse-sub002/internal/attendance"
	"github.com/Nairolf13/Frimousse-sub002/internal/billing"
	"github.com/Nairolf13/Frimousse-sub002/internal/billingrun"
	"github.com/Nairolf13/Frimousse-sub002/internal/clock"
	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	"github.com/Nairolf13/Frimousse-sub002/internal/directory"
	"github.com/Nairolf13/Frimousse-sub002/internal/dispatch"
	"github.com/Nairolf13/Frimousse-sub002/internal/invoice"
	"github.com/Nairolf13/Frimousse-sub002/internal/migration"
	obsmetrics "github.com/Nairolf13/Frimousse-sub002/internal/observability/metrics"
	"github.com/Nairolf13/Frimousse-sub002/internal/providers/email"
	"github.com/Nairolf13/Frimousse-sub002/internal/providers/notify"
	"github.com/Nairolf13/Frimousse-sub002/internal/report"
	"github.com/Nairolf13/Frimousse-sub002/internal/server"
	"github.com/Nairolf13/Frimousse-sub002/pkg/db"
	"github.com/Nairolf13/Frimousse-sub002/pkg/log"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		obsmetrics.Module,

		// Providers
		email.Module,
		notify.Module,

		// Domains
		directory.Module,
		attendance.Module,
		billing.Module,
		invoice.Module,
		dispatch.Module,
		report.Module,
		billingrun.Module,

		// Surfaces
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
