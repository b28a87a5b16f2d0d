package notify

import (
	"github.com/Nairolf13/Frimousse-sub002/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.notify",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	if cfg.OperatorWebhookURL == "" {
		return &NoOpProvider{}
	}
	return NewWebhook(cfg.OperatorWebhookURL)
}
