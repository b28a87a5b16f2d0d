package billing

import (
	"github.com/Nairolf13/Frimousse-sub002/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.ledger",
	fx.Provide(service.NewService),
)
