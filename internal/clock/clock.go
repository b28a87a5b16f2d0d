package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts "now" so billing runs are testable without wall-clock
// dependence.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock { return systemClock{} }

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)
