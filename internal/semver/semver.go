// Package semver matches manifest versions against manifest version ranges using semantic
// version constraints.
package semver

import (
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"

	"github.com/bayleafwalker/bindery-panel/internal/manifest"
)

// Version is a semantic version.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3.
type Version struct {
	v *mm.Version
}

// Constraint is a semantic version constraint such as ">=1.0.0, <2.0.0".
type Constraint struct {
	c *mm.Constraints
}

func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// FromManifest converts a manifest version.
//
// The qualifier is carried as build metadata, which semantic versioning ignores when
// comparing; qualifier ordering is therefore lost in the conversion.
func FromManifest(v manifest.Version) (Version, error) {
	if v.Major < 0 || v.Minor < 0 || v.Micro < 0 {
		return Version{}, fmt.Errorf("semver: negative segment in %s", v)
	}
	sv := mm.New(uint64(v.Major), uint64(v.Minor), uint64(v.Micro), "", "")
	if v.Qualifier != "" {
		// Build metadata does not allow '_', which qualifiers do.
		withMeta, err := sv.SetMetadata(strings.ReplaceAll(v.Qualifier, "_", "-"))
		if err != nil {
			return Version{}, fmt.Errorf("semver: qualifier %q: %w", v.Qualifier, err)
		}
		sv = &withMeta
	}
	return Version{v: sv}, nil
}

func ParseConstraint(raw string) (Constraint, error) {
	c, err := mm.NewConstraint(raw)
	if err != nil {
		return Constraint{}, fmt.Errorf("semver: parse constraint %q: %w", raw, err)
	}
	return Constraint{c: c}, nil
}

// ConstraintForRange translates a manifest version range, e.g. "[1.0,2.0)" becomes
// ">=1.0.0, <2.0.0".
//
// Qualifiers cannot be represented, so the floor is always inclusive and a qualified
// ceiling is widened to inclusive: "(1.0,2.0)" becomes ">=1.0.0, <2.0.0" because
// 1.0.0.RELEASE lies inside it. The constraint may accept versions the range excludes but
// never the reverse; callers needing exact bounds also check manifest.VersionRange.Includes.
func ConstraintForRange(r manifest.VersionRange) (Constraint, error) {
	raw := ">=" + numeric(r.Floor)
	if r.Ceiling != nil {
		upper := "<"
		if r.CeilingInclusive || r.Ceiling.Qualifier != "" {
			upper = "<="
		}
		raw += ", " + upper + numeric(*r.Ceiling)
	}
	return ParseConstraint(raw)
}

func Satisfies(v Version, c Constraint) bool {
	if v.v == nil || c.c == nil {
		return false
	}
	return c.c.Check(v.v)
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

func numeric(v manifest.Version) string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
}
