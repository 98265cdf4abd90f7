package inventory

import (
	"context"
	"errors"
	"fmt"
)

// EnsureOutcome reports how an EnsureOperation obtained its ID.
type EnsureOutcome int

const (
	// OutcomeExisting means the object was found by lookup; nothing was written.
	OutcomeExisting EnsureOutcome = iota + 1
	// OutcomeCreated means the object was created.
	OutcomeCreated
	// OutcomeRecovered means the create hit a duplicate and the object was re-read.
	OutcomeRecovered
)

func (o EnsureOutcome) String() string {
	switch o {
	case OutcomeExisting:
		return "exists"
	case OutcomeCreated:
		return "created"
	case OutcomeRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// EnsureResult is the identity of an ensured object.
type EnsureResult struct {
	ID      int64
	Outcome EnsureOutcome
}

// EnsureOperation encapsulates find-or-create logic for any inventory object.
//
// Usage:
//
//	res, err := (&inventory.EnsureOperation[inventory.Site]{
//	    Object: inventory.Site{Name: name, Slug: naming.Slug(name)},
//	}).Execute(ctx, repo)
type EnsureOperation[T Object] struct {
	Object T
}

// Execute looks the object up by its natural key and returns the existing ID,
// or creates it. A duplicate conflict on create is recovered by re-reading the
// object by slug, or by natural key when the object has no slug.
func (op *EnsureOperation[T]) Execute(ctx context.Context, repo Repository) (EnsureResult, error) {
	kind := op.Object.Kind()

	existing, err := repo.Find(ctx, kind, op.Object.Lookup())
	if err != nil {
		return EnsureResult{}, fmt.Errorf("failed to look up %s: %w", kind, err)
	}
	if existing != nil {
		return EnsureResult{ID: existing.ID, Outcome: OutcomeExisting}, nil
	}

	res := repo.Create(ctx, op.Object)
	switch res.Outcome {
	case Created:
		return EnsureResult{ID: res.ID, Outcome: OutcomeCreated}, nil
	case AlreadyExists:
		rec, err := repo.Find(ctx, kind, recoveryFilter(op.Object))
		if err != nil {
			return EnsureResult{}, fmt.Errorf("failed to re-read duplicate %s: %w", kind, err)
		}
		if rec == nil {
			return EnsureResult{}, &CreationError{Kind: kind, Message: "reported as duplicate but not found"}
		}
		return EnsureResult{ID: rec.ID, Outcome: OutcomeRecovered}, nil
	default:
		return EnsureResult{}, createFailure(kind, res.Err)
	}
}

// Ensure runs an EnsureOperation for obj without validation.
func Ensure[T Object](ctx context.Context, repo Repository, obj T) (EnsureResult, error) {
	return (&EnsureOperation[T]{Object: obj}).Execute(ctx, repo)
}

// CreateOnly creates obj without a prior lookup. Duplicates are reported as
// creation failures.
func CreateOnly(ctx context.Context, repo Repository, obj Object) (int64, error) {
	res := repo.Create(ctx, obj)
	switch res.Outcome {
	case Created:
		return res.ID, nil
	case AlreadyExists:
		return 0, &CreationError{Kind: obj.Kind(), Message: "already exists"}
	default:
		return 0, createFailure(obj.Kind(), res.Err)
	}
}

func recoveryFilter(obj Object) Filter {
	if s, ok := obj.(slugged); ok && s.slug() != "" {
		return Filter{"slug": s.slug()}
	}
	return obj.Lookup()
}

func createFailure(kind Kind, err error) error {
	if err == nil {
		return &CreationError{Kind: kind, Message: "unknown error"}
	}
	var ce *CreationError
	if errors.As(err, &ce) {
		return err
	}
	return fmt.Errorf("failed to create %s: %w", kind, err)
}
