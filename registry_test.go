package compose

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	card := NewHostType("card", nil)
	tooltip := NewFeatureType("tooltip", nil)

	if err := registry.Register(card); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := registry.Register(tooltip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := registry.Lookup("card")
	if !ok || got != card {
		t.Error("expected lookup to return the registered descriptor")
	}
	if _, ok := registry.Lookup("missing"); ok {
		t.Error("expected lookup miss for an unknown name")
	}
	if names := registry.Names(); !reflect.DeepEqual(names, []string{"card", "tooltip"}) {
		t.Errorf("names = %v", names)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(NewHostType("card", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := registry.Register(NewHostType("card", nil))
	if !errors.Is(err, ErrTypeRegistered) {
		t.Fatalf("expected ErrTypeRegistered, got %v", err)
	}
}

func TestRegistryRejectsInvalidTypes(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(nil); err == nil {
		t.Error("expected an error for a nil type")
	}
	if err := registry.Register(NewHostType("", nil)); err == nil {
		t.Error("expected an error for an unnamed type")
	}
}
