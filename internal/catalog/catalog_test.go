package catalog

import (
	"errors"
	"testing"

	"github.com/voltmesh/load-distributor/internal/distributor"
)

func TestNewMemoryStoreUsesDefaults(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	types, err := store.GetTypes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(types) != len(DefaultTypes()) {
		t.Fatalf("expected default catalog, got %d types", len(types))
	}
	for i := 1; i < len(types); i++ {
		if types[i-1].SafeLoad > types[i].SafeLoad {
			t.Fatalf("catalog not ordered by safe load: %v", types)
		}
	}
}

func TestSetTypesNormalizesOrder(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	err := store.SetTypes([]distributor.TransformerType{
		{Capacity: 1000, SafeLoad: 800, Breakers: 12},
		{Capacity: 200, SafeLoad: 160, Breakers: 4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	types, err := store.GetTypes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(types) != 2 || types[0].Capacity != 200 || types[1].Capacity != 1000 {
		t.Fatalf("expected normalized order, got %v", types)
	}
}

func TestSetTypesRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	invalid := [][]distributor.TransformerType{
		nil,
		{},
		{{Capacity: 0, SafeLoad: 160, Breakers: 4}},
		{{Capacity: 200, SafeLoad: 0, Breakers: 4}},
		{{Capacity: 200, SafeLoad: 160, Breakers: -1}},
	}
	for _, types := range invalid {
		if err := store.SetTypes(types); !errors.Is(err, ErrInvalidTypes) {
			t.Fatalf("expected ErrInvalidTypes for %v, got %v", types, err)
		}
	}
}

func TestGetTypesReturnsDefensiveCopy(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	types, err := store.GetTypes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	types[0].SafeLoad = -999

	again, err := store.GetTypes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again[0].SafeLoad == -999 {
		t.Fatalf("store leaked internal slice")
	}
}
