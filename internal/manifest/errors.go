package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is wrapped by every ParseError so callers can use errors.Is.
	ErrParse = errors.New("manifest parse error")

	// ErrInvalidVersion is returned for version strings that are not major[.minor[.micro[.qualifier]]].
	ErrInvalidVersion = errors.New("invalid version")

	// ErrInvalidVersionRange is returned for malformed interval notation.
	ErrInvalidVersionRange = errors.New("invalid version range")
)

// ParseError reports a malformed manifest header.
type ParseError struct {
	// Header is the manifest header that failed to parse, e.g. "Import-Package".
	Header string
	// Value is the raw header value.
	Value string
	// Reason is a short human-readable description of the failure.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("manifest: invalid %s header: %s", e.Header, e.Reason)
}

// Unwrap returns ErrParse.
func (e *ParseError) Unwrap() error { return ErrParse }

// IsParseError reports whether err (or any error in its chain) is a manifest parse failure.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}
