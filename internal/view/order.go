package view

import (
	"sort"
	"strings"
	"unicode"

	"github.com/bayleafwalker/bindery-panel/internal/registry"
)

// Compare orders module views for list display:
//
//  1. the framework module (id 0) comes first;
//  2. otherwise display names compare case-insensitively, an absent name counting as "";
//  3. equal names fall back to comparing the version strings lexicographically.
//
// Step 3 is a plain string comparison, so "10.0.0" sorts before "2.0.0".
func Compare(a, b *ModuleView) int {
	aRoot := a.ID() == registry.FrameworkModuleID
	bRoot := b.ID() == registry.FrameworkModuleID
	switch {
	case aRoot && bRoot:
		return 0
	case aRoot:
		return -1
	case bRoot:
		return 1
	}

	an, _ := a.DisplayName()
	bn, _ := b.DisplayName()
	if c := compareFold(an, bn); c != 0 {
		return c
	}
	return strings.Compare(a.VersionDisplay(), b.VersionDisplay())
}

// Sort orders views in place using Compare. Views that compare equal keep their input order.
func Sort(views []*ModuleView) {
	sort.SliceStable(views, func(i, j int) bool {
		return Compare(views[i], views[j]) < 0
	})
}

// compareFold compares rune by rune, treating runes as equal when they match after
// upper-casing or after lower-casing, and otherwise ordering by their lower-case form.
func compareFold(a, b string) int {
	ar, br := []rune(a), []rune(b)
	for i := 0; i < len(ar) && i < len(br); i++ {
		x, y := ar[i], br[i]
		if x == y {
			continue
		}
		x, y = unicode.ToUpper(x), unicode.ToUpper(y)
		if x == y {
			continue
		}
		x, y = unicode.ToLower(x), unicode.ToLower(y)
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ar) < len(br):
		return -1
	case len(ar) > len(br):
		return 1
	}
	return 0
}
