package invoice

import (
	"github.com/Nairolf13/Frimousse-sub002/internal/invoice/render"
	"github.com/Nairolf13/Frimousse-sub002/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(render.NewRenderer),
	fx.Provide(service.NewService),
)
