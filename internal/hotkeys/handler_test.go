package hotkeys

import (
	"slices"
	"testing"
)

func TestIgnoreMasks(t *testing.T) {
	got := ignoreMasks([]uint16{2, 16})
	slices.Sort(got)
	if want := []uint16{0, 2, 16, 18}; !slices.Equal(got, want) {
		t.Fatalf("ignoreMasks = %v, want %v", got, want)
	}
	if got := ignoreMasks(nil); !slices.Equal(got, []uint16{0}) {
		t.Fatalf("ignoreMasks(nil) = %v", got)
	}
}

func TestBindWithoutX11(t *testing.T) {
	h := NewHandler(nil, func(string) error { return nil }, nil)
	if err := h.Bind(map[string]string{"Mod4-j": "tile next"}); err == nil {
		t.Fatalf("expected error binding without an X11 backend")
	}
}
