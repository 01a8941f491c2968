package view

import (
	"testing"

	"github.com/bayleafwalker/bindery-panel/internal/registry"
)

func TestCompare_FrameworkFirst(t *testing.T) {
	root := mustView(module(registry.FrameworkModuleID, "zzz", "9.0.0"))
	other := mustView(module(4, "AAA", "1.0.0"))

	if Compare(root, other) >= 0 || Compare(other, root) <= 0 {
		t.Fatalf("expected framework module first")
	}
	if Compare(root, root) != 0 {
		t.Fatalf("expected framework module to equal itself")
	}
}

func TestCompare_NameIgnoresCase(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"alpha", "Beta", -1},
		{"Beta", "alpha", 1},
		{"same", "SAME", 0},
		{"abc", "abcd", -1},
		{"", "a", -1},
	}
	for _, tt := range tests {
		a := mustView(module(1, tt.a, "1.0.0"))
		b := mustView(module(2, tt.b, "1.0.0"))
		if got := Compare(a, b); sign(got) != tt.want {
			t.Fatalf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompare_EqualNamesFallBackToVersionString(t *testing.T) {
	foo := mustView(module(1, "Foo", "2.0.0"))
	lowerFoo := mustView(module(2, "foo", "1.0.0"))

	if Compare(lowerFoo, foo) >= 0 {
		t.Fatalf("expected 1.0.0 before 2.0.0 for case-equal names")
	}

	// Version strings compare lexicographically, not numerically.
	ten := mustView(module(3, "Foo", "10.0.0"))
	if Compare(ten, foo) >= 0 {
		t.Fatalf("expected \"10.0.0\" before \"2.0.0\"")
	}
}

func TestCompare_AbsentNameSortsAsEmpty(t *testing.T) {
	unnamed := mustView(module(5, "", "1.0.0"))
	named := mustView(module(6, "a", "1.0.0"))
	if Compare(unnamed, named) >= 0 {
		t.Fatalf("expected unnamed module before named one")
	}
}

func TestSort(t *testing.T) {
	views := []*ModuleView{
		mustView(module(3, "charlie", "1.0.0")),
		mustView(module(7, "Alpha", "2.0.0")),
		mustView(module(0, "System", "1.0.0")),
		mustView(module(8, "alpha", "10.0.0")),
		mustView(module(9, "Bravo", "1.0.0")),
	}
	Sort(views)

	want := []int64{0, 8, 7, 9, 3}
	for i, v := range views {
		if v.ID() != want[i] {
			got := make([]int64, len(views))
			for j, v := range views {
				got[j] = v.ID()
			}
			t.Fatalf("unexpected order %v, want %v", got, want)
		}
	}
}

func TestSort_StableForEqualViews(t *testing.T) {
	views := []*ModuleView{
		mustView(module(11, "Same", "1.0.0")),
		mustView(module(12, "same", "1.0.0")),
		mustView(module(13, "SAME", "1.0.0")),
	}
	Sort(views)
	for i, id := range []int64{11, 12, 13} {
		if views[i].ID() != id {
			t.Fatalf("expected input order to be kept, got id %d at %d", views[i].ID(), i)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
