package billingrun

import (
	"context"
	"time"

	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// StartCron schedules the monthly run in the center timezone. The schedule
// itself lives in config; the job body is the same previous-month run the
// manual trigger uses.
func StartCron(lc fx.Lifecycle, cfg config.Config, loc *time.Location, runner *Runner, log *zap.Logger) error {
	if !cfg.CronEnabled {
		return nil
	}

	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(cfg.CronSpec, func() {
		if _, err := runner.RunForPreviousMonth(context.Background()); err != nil {
			log.Error("scheduled billing run failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			c.Start()
			log.Info("billing cron started",
				zap.String("spec", cfg.CronSpec),
				zap.String("timezone", loc.String()),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := c.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}
