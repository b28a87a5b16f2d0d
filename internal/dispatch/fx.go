package dispatch

import (
	"github.com/Nairolf13/Frimousse-sub002/internal/dispatch/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dispatch.service",
	fx.Provide(service.NewService),
)
