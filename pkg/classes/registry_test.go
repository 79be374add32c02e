package classes

import (
	"errors"
	"testing"
)

func TestBuiltinOrder(t *testing.T) {
	r := NewRegistry()
	all := r.All()

	if len(all) != 80 {
		t.Fatalf("expected 80 built-in classes, got %d", len(all))
	}
	if all[0] != "person" || all[2] != "car" || all[79] != "toothbrush" {
		t.Errorf("unexpected built-in ordering: %v %v %v", all[0], all[2], all[79])
	}
	if r.Index("person") != 0 || r.Index("car") != 2 {
		t.Errorf("unexpected indices: person=%d car=%d", r.Index("person"), r.Index("car"))
	}
}

func TestAddCustom(t *testing.T) {
	r := NewRegistry()

	name, err := r.AddCustom("  Drone ")
	if err != nil {
		t.Fatalf("AddCustom failed: %v", err)
	}
	if name != "drone" {
		t.Errorf("expected normalized name 'drone', got %q", name)
	}
	if r.Index("drone") != 80 {
		t.Errorf("expected custom class at index 80, got %d", r.Index("drone"))
	}

	if _, err := r.AddCustom("DRONE"); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists for duplicate, got %v", err)
	}
	if _, err := r.AddCustom("Person"); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists for built-in collision, got %v", err)
	}
	if _, err := r.AddCustom("   "); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestFilter(t *testing.T) {
	r := NewRegistry()
	r.AddCustom("catapult")

	if got := r.Filter(""); len(got) != 81 {
		t.Errorf("empty query should return full list, got %d entries", len(got))
	}

	got := r.Filter("CAT")
	want := map[string]bool{"cat": true, "catapult": true}
	for _, name := range got {
		if !want[name] {
			t.Errorf("unexpected match %q", name)
		}
		delete(want, name)
	}
	if len(want) != 0 {
		t.Errorf("missing matches: %v", want)
	}
}

func TestColorDeterminism(t *testing.T) {
	r := NewRegistry()

	// Built-in classes hit the palette by index.
	if r.ColorFor("person") != palette[0] {
		t.Error("person should use palette entry 0")
	}
	if r.ColorFor("car") != palette[2] {
		t.Error("car should use palette entry 2")
	}
	// Index 24 wraps around.
	if r.ColorFor(builtin[24]) != palette[0] {
		t.Error("palette must wrap at 24 entries")
	}

	// Custom classes must hash to the same color on every call.
	first := r.ColorFor("quadcopter")
	for i := 0; i < 5; i++ {
		if r.ColorFor("quadcopter") != first {
			t.Fatal("hash-derived color is not stable")
		}
	}
	if first.A != 0xFF {
		t.Error("expected opaque color")
	}
}

func TestHexColorFor(t *testing.T) {
	r := NewRegistry()
	if got := r.HexColorFor("person"); got != "#FF6B6B" {
		t.Errorf("HexColorFor(person) = %q", got)
	}
}
