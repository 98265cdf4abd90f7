package provisioning

import (
	"errors"
	"sync"

	"github.com/siteprov/siteprov/internal/inventory"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	mu sync.Mutex

	// Foundation results (populated by the foundation provisioner)
	SiteID         int64
	ManufacturerID int64
	PrefixID       int64

	// Device results (populated by the devices provisioner), in creation order
	Devices []DeviceResult

	resources map[inventory.Kind]*Counts
	failures  []error
}

// DeviceResult describes one device the run attempted to create.
type DeviceResult struct {
	Group     int
	Name      string
	ID        int64    // zero when creation failed
	Addresses []string // addresses bound to the device's interfaces
	PrimaryIP  string // primary IPv4 address
	PrimaryIP6 string
	Err       error
}

// Counts tallies ensure outcomes for one kind.
type Counts struct {
	Created   int
	Existing  int
	Recovered int
	Failed    int
}

// Total returns the number of objects handled.
func (c Counts) Total() int {
	return c.Created + c.Existing + c.Recovered + c.Failed
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{resources: make(map[inventory.Kind]*Counts)}
}

// Record tallies one ensure outcome for kind.
func (s *State) Record(kind inventory.Kind, outcome inventory.EnsureOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counts(kind)
	switch outcome {
	case inventory.OutcomeCreated:
		c.Created++
	case inventory.OutcomeExisting:
		c.Existing++
	case inventory.OutcomeRecovered:
		c.Recovered++
	}
}

// Fail records a failure that does not stop the run.
func (s *State) Fail(kind inventory.Kind, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts(kind).Failed++
	s.failures = append(s.failures, err)
}

// AddDevice appends a device result.
func (s *State) AddDevice(d DeviceResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Devices = append(s.Devices, d)
}

// Resources returns a copy of the per-kind tallies.
func (s *State) Resources() map[inventory.Kind]Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[inventory.Kind]Counts, len(s.resources))
	for k, c := range s.resources {
		out[k] = *c
	}
	return out
}

// Err joins every recorded failure, or returns nil.
func (s *State) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.failures...)
}

func (s *State) counts(kind inventory.Kind) *Counts {
	c, ok := s.resources[kind]
	if !ok {
		c = &Counts{}
		s.resources[kind] = c
	}
	return c
}
