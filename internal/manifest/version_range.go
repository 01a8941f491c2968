package manifest

import (
	"fmt"
	"strings"
)

// VersionRange is the version interval attached to an imported package.
//
// A bare version ("1.2") means "at least 1.2" with no ceiling. Interval notation uses
// '[' / ']' for inclusive and '(' / ')' for exclusive ends, e.g. "[1.0,2.0)".
type VersionRange struct {
	Floor            Version
	FloorInclusive   bool
	Ceiling          *Version
	CeilingInclusive bool
}

// AnyVersion is the range used when an import declares no version: [0.0.0, ∞).
var AnyVersion = VersionRange{Floor: EmptyVersion, FloorInclusive: true}

// ParseVersionRange parses a bare version or interval notation.
func ParseVersionRange(raw string) (VersionRange, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return AnyVersion, nil
	}

	open := s[0]
	if open != '[' && open != '(' {
		floor, err := ParseVersion(s)
		if err != nil {
			return VersionRange{}, err
		}
		return VersionRange{Floor: floor, FloorInclusive: true}, nil
	}

	if len(s) < 2 {
		return VersionRange{}, fmt.Errorf("manifest: parse version range %q: %w: unterminated interval", raw, ErrInvalidVersionRange)
	}
	closing := s[len(s)-1]
	if closing != ']' && closing != ')' {
		return VersionRange{}, fmt.Errorf("manifest: parse version range %q: %w: unterminated interval", raw, ErrInvalidVersionRange)
	}

	bounds := strings.Split(s[1:len(s)-1], ",")
	if len(bounds) != 2 {
		return VersionRange{}, fmt.Errorf("manifest: parse version range %q: %w: expected two bounds", raw, ErrInvalidVersionRange)
	}
	if strings.TrimSpace(bounds[0]) == "" || strings.TrimSpace(bounds[1]) == "" {
		return VersionRange{}, fmt.Errorf("manifest: parse version range %q: %w: empty bound", raw, ErrInvalidVersionRange)
	}

	floor, err := ParseVersion(bounds[0])
	if err != nil {
		return VersionRange{}, err
	}
	ceiling, err := ParseVersion(bounds[1])
	if err != nil {
		return VersionRange{}, err
	}

	return VersionRange{
		Floor:            floor,
		FloorInclusive:   open == '[',
		Ceiling:          &ceiling,
		CeilingInclusive: closing == ']',
	}, nil
}

// Includes reports whether v falls inside the range.
func (r VersionRange) Includes(v Version) bool {
	c := v.Compare(r.Floor)
	if c < 0 || (c == 0 && !r.FloorInclusive) {
		return false
	}
	if r.Ceiling == nil {
		return true
	}
	c = v.Compare(*r.Ceiling)
	return c < 0 || (c == 0 && r.CeilingInclusive)
}

// String renders the range in the notation ParseVersionRange accepts.
func (r VersionRange) String() string {
	if r.Ceiling == nil {
		return r.Floor.String()
	}
	open, closing := "(", ")"
	if r.FloorInclusive {
		open = "["
	}
	if r.CeilingInclusive {
		closing = "]"
	}
	return open + r.Floor.String() + "," + r.Ceiling.String() + closing
}
