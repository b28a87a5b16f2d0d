package billingrun

import "go.uber.org/fx"

var Module = fx.Module("billingrun",
	fx.Provide(New),
	fx.Invoke(StartCron),
)
