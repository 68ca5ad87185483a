package catalog

import (
	"errors"
	"sort"
	"sync"

	"github.com/voltmesh/load-distributor/internal/distributor"
)

var (
	// ErrInvalidTypes indicates the provided transformer types violate validation rules.
	ErrInvalidTypes = errors.New("transformer types must be non-empty with positive capacity, safe load, and breaker count")
)

// Reference catalog; safe load is 80% of the nameplate capacity.
var defaultTypes = []distributor.TransformerType{
	{Capacity: 200, SafeLoad: 160, Breakers: 4},
	{Capacity: 315, SafeLoad: 252, Breakers: 6},
	{Capacity: 400, SafeLoad: 320, Breakers: 6},
	{Capacity: 500, SafeLoad: 400, Breakers: 8},
	{Capacity: 630, SafeLoad: 504, Breakers: 8},
	{Capacity: 800, SafeLoad: 640, Breakers: 10},
	{Capacity: 1000, SafeLoad: 800, Breakers: 12},
	{Capacity: 1250, SafeLoad: 1000, Breakers: 12},
	{Capacity: 1600, SafeLoad: 1280, Breakers: 16},
}

// Store provides access to the transformer-type catalog used by the distributor.
type Store interface {
	GetTypes() ([]distributor.TransformerType, error)
	SetTypes(types []distributor.TransformerType) error
}

// MemoryStore keeps the catalog in-memory and guards access with a RWMutex.
type MemoryStore struct {
	mu    sync.RWMutex
	types []distributor.TransformerType
}

// NewMemoryStore initialises the store with a copy of the default catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		types: cloneAndSort(defaultTypes),
	}
}

// DefaultTypes returns a copy of the default transformer-type catalog.
func DefaultTypes() []distributor.TransformerType {
	return cloneAndSort(defaultTypes)
}

// GetTypes returns a defensive copy of the current catalog, ordered by
// ascending safe load.
func (s *MemoryStore) GetTypes() ([]distributor.TransformerType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAndSort(s.types), nil
}

// SetTypes validates, normalises, and stores the provided catalog.
func (s *MemoryStore) SetTypes(types []distributor.TransformerType) error {
	normalized, err := normalizeTypes(types)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.types = normalized
	s.mu.Unlock()

	return nil
}

func cloneAndSort(src []distributor.TransformerType) []distributor.TransformerType {
	out := make([]distributor.TransformerType, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SafeLoad < out[j].SafeLoad
	})
	return out
}

func normalizeTypes(types []distributor.TransformerType) ([]distributor.TransformerType, error) {
	if len(types) == 0 {
		return nil, ErrInvalidTypes
	}
	for _, t := range types {
		if t.Capacity <= 0 || t.SafeLoad <= 0 || t.Breakers <= 0 {
			return nil, ErrInvalidTypes
		}
	}
	return cloneAndSort(types), nil
}
