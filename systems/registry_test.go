package systems

import (
	"slices"
	"testing"
)

func TestSystemRegistryOrder(t *testing.T) {
	reg := NewSystemRegistry()
	want := []string{"player", "chase", "physics", "sync", "telemetry"}
	if got := reg.IDs(); !slices.Equal(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestSystemRegistryLookup(t *testing.T) {
	reg := NewSystemRegistry()
	tests := []struct {
		id   string
		want string
	}{
		{"chase", "Chase"},
		{"sync", "Sync"},
		{"unknown", "unknown"},
	}
	for _, tt := range tests {
		if got := reg.GetName(tt.id); got != tt.want {
			t.Errorf("GetName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
	if _, ok := reg.Get("render"); ok {
		t.Error("Get(render) should not be found")
	}
}

func TestSystemRegistryCategories(t *testing.T) {
	reg := NewSystemRegistry()
	if got := len(reg.ByCategory("physics")); got != 2 {
		t.Errorf("physics systems = %d, want 2", got)
	}
	if got := len(reg.ByCategory("visual")); got != 0 {
		t.Errorf("visual systems = %d, want 0", got)
	}
}

func TestSystemRegistryReplace(t *testing.T) {
	reg := NewSystemRegistry()
	reg.Register(SystemInfo{ID: "chase", Name: "Pursuit", Category: "ai"})
	if n := len(reg.All()); n != 5 {
		t.Errorf("len(All()) = %d, want 5", n)
	}
	if got := reg.All()[1].Name; got != "Pursuit" {
		t.Errorf("All()[1].Name = %q, want Pursuit", got)
	}
}
