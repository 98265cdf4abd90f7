package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially. It stops at the
// first phase that fails.
func RunPhases(ctx *Context, phases []Phase) error {
	for i, phase := range phases {
		start := time.Now()
		name := phase.Name()

		LogPhaseStart(ctx.Observer, name)
		ctx.Observer.Progress(name, i, len(phases))

		if err := phase.Provision(ctx); err != nil {
			LogPhaseFailed(ctx.Observer, name, err)
			return fmt.Errorf("%s phase failed: %w", name, err)
		}

		LogPhaseComplete(ctx.Observer, name, time.Since(start))
	}
	return nil
}
