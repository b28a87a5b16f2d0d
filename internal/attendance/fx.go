package attendance

import (
	"github.com/Nairolf13/Frimousse-sub002/internal/attendance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("attendance.service",
	fx.Provide(service.NewService),
)
