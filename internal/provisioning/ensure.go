package provisioning

import (
	"github.com/siteprov/siteprov/internal/inventory"
)

// EnsureResource runs the upsert reconciler for obj, records the outcome in
// the run state, and reports it to the observer. name identifies the object
// in events.
func EnsureResource[T inventory.Object](ctx *Context, phase, name string, obj T) (int64, error) {
	kind := obj.Kind()

	res, err := inventory.Ensure(ctx, ctx.Repo, obj)
	if err != nil {
		LogResourceFailed(ctx.Observer, phase, kind.String(), name, err)
		return 0, err
	}

	ctx.State.Record(kind, res.Outcome)
	LogResource(ctx.Observer, eventFor(res.Outcome), phase, kind.String(), name, res.ID)
	return res.ID, nil
}

func eventFor(o inventory.EnsureOutcome) EventType {
	switch o {
	case inventory.OutcomeCreated:
		return EventResourceCreated
	case inventory.OutcomeRecovered:
		return EventResourceRecovered
	default:
		return EventResourceExists
	}
}
