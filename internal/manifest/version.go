package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a module or package version: major.minor.micro plus an optional qualifier.
//
// Versions are totally ordered: numeric segments compare numerically and the qualifier
// compares as a plain string (an empty qualifier sorts first).
type Version struct {
	Major     int
	Minor     int
	Micro     int
	Qualifier string
}

// EmptyVersion is 0.0.0, the version assumed when none is declared.
var EmptyVersion = Version{}

// ParseVersion parses "major[.minor[.micro[.qualifier]]]".
//
// Surrounding whitespace is ignored and an empty string yields EmptyVersion.
func ParseVersion(raw string) (Version, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return EmptyVersion, nil
	}

	parts := strings.SplitN(s, ".", 4)
	var v Version
	nums := []*int{&v.Major, &v.Minor, &v.Micro}
	for i, part := range parts {
		if i == 3 {
			if !validQualifier(part) {
				return Version{}, fmt.Errorf("manifest: parse version %q: %w: bad qualifier %q", raw, ErrInvalidVersion, part)
			}
			v.Qualifier = part
			break
		}
		n, err := parseSegment(part)
		if err != nil {
			return Version{}, fmt.Errorf("manifest: parse version %q: %w: %v", raw, ErrInvalidVersion, err)
		}
		*nums[i] = n
	}
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func parseSegment(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty segment")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric segment %q", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("segment %q out of range", s)
	}
	return n, nil
}

func validQualifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// String returns the canonical form major.minor.micro[.qualifier].
func (v Version) String() string {
	if v.Qualifier == "" {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
	}
	return fmt.Sprintf("%d.%d.%d.%s", v.Major, v.Minor, v.Micro, v.Qualifier)
}

// Compare returns -1, 0 or 1 depending on whether v sorts before, equal to or after o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	case v.Micro != o.Micro:
		return cmpInt(v.Micro, o.Micro)
	}
	return strings.Compare(v.Qualifier, o.Qualifier)
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	return 1
}
