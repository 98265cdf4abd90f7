package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/siteprov/siteprov/internal/inventory"
)

// MockRepository is a testify mock of inventory.Repository.
type MockRepository struct {
	mock.Mock
}

// Find returns the mocked record.
func (m *MockRepository) Find(ctx context.Context, kind inventory.Kind, filter inventory.Filter) (*inventory.Record, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Record), args.Error(1)
}

// List returns the mocked records.
func (m *MockRepository) List(ctx context.Context, kind inventory.Kind, filter inventory.Filter) ([]inventory.Record, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Record), args.Error(1)
}

// Create returns the mocked create result.
func (m *MockRepository) Create(ctx context.Context, obj inventory.Object) inventory.CreateResult {
	args := m.Called(ctx, obj)
	return args.Get(0).(inventory.CreateResult)
}

// Update returns the mocked error.
func (m *MockRepository) Update(ctx context.Context, kind inventory.Kind, id int64, patch any) error {
	args := m.Called(ctx, kind, id, patch)
	return args.Error(0)
}
