package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts wall-clock access so billing windows and alert expiry
// stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock { return systemClock{} }

var Module = fx.Module("clock",
	fx.Provide(func() Clock { return System() }),
)
