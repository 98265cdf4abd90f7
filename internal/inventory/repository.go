// Package inventory defines the inventory object model, the repository
// contract every backend implements, and the generic upsert reconciler.
package inventory

import (
	"context"
	"errors"
	"fmt"
)

// Repository is the storage contract of the inventory system of record.
//
// Find returns a nil Record and a nil error when nothing matches. Create never
// returns a Go error; its outcome is carried by the CreateResult.
type Repository interface {
	Find(ctx context.Context, kind Kind, filter Filter) (*Record, error)
	List(ctx context.Context, kind Kind, filter Filter) ([]Record, error)
	Create(ctx context.Context, obj Object) CreateResult
	Update(ctx context.Context, kind Kind, id int64, patch any) error
}

// CreateOutcome tags the result of a create call.
type CreateOutcome int

const (
	// Created means the object was stored and ID is set.
	Created CreateOutcome = iota + 1
	// AlreadyExists means the repository rejected the object as a duplicate.
	AlreadyExists
	// Failed means the object was not stored; Err explains why.
	Failed
)

func (o CreateOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already exists"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// CreateResult is the tagged outcome of Repository.Create.
type CreateResult struct {
	Outcome CreateOutcome
	ID      int64
	Err     error
}

// CreatedResult returns a successful result.
func CreatedResult(id int64) CreateResult {
	return CreateResult{Outcome: Created, ID: id}
}

// DuplicateResult returns a result signalling a uniqueness conflict.
func DuplicateResult() CreateResult {
	return CreateResult{Outcome: AlreadyExists}
}

// FailedResult returns a failed result carrying err.
func FailedResult(err error) CreateResult {
	return CreateResult{Outcome: Failed, Err: err}
}

var (
	// ErrEntityCreationFailed is wrapped by every rejected create.
	ErrEntityCreationFailed = errors.New("entity creation failed")
	// ErrInterfaceNotFound is returned when a device has no interface of the requested name.
	ErrInterfaceNotFound = errors.New("interface not found")
)

// CreationError describes a create the repository rejected.
type CreationError struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *CreationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to create %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("failed to create %s: %s", e.Kind, e.Message)
}

func (e *CreationError) Unwrap() error {
	return ErrEntityCreationFailed
}
