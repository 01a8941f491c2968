package view

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/bayleafwalker/bindery-panel/internal/registry"
)

// CapabilityBindingView adapts one published service for display.
type CapabilityBindingView struct {
	ref registry.ServiceReference
}

// Property is a display-ready service property.
type Property struct {
	Key   string
	Value string
}

// NewCapabilityBindingView wraps ref. A nil ref violates the view invariant.
func NewCapabilityBindingView(ref registry.ServiceReference) (*CapabilityBindingView, error) {
	if isNil(ref) {
		return nil, fmt.Errorf("%w: service reference is required", ErrInvariantViolation)
	}
	return &CapabilityBindingView{ref: ref}, nil
}

// ServiceID returns the service.id property, or 0 when it is missing or not numeric.
func (b *CapabilityBindingView) ServiceID() int64 {
	v, _ := b.ref.Property(registry.PropertyServiceID)
	n, _ := toInt64(v)
	return n
}

// ObjectClasses returns the interface names the service was published under.
func (b *CapabilityBindingView) ObjectClasses() []string {
	v, ok := b.ref.Property(registry.PropertyObjectClass)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Ranking returns the service.ranking property. Missing or non-integer rankings count as 0.
func (b *CapabilityBindingView) Ranking() int {
	v, _ := b.ref.Property(registry.PropertyServiceRanking)
	if _, isString := v.(string); isString {
		return 0
	}
	n, ok := toInt64(v)
	if !ok || n > math.MaxInt || n < math.MinInt {
		return 0
	}
	return int(n)
}

// Property returns the raw value of a service property.
func (b *CapabilityBindingView) Property(key string) (any, bool) {
	return b.ref.Property(key)
}

// Properties returns every property, sorted by key, with display-formatted values.
func (b *CapabilityBindingView) Properties() []Property {
	keys := append([]string(nil), b.ref.PropertyKeys()...)
	sort.Strings(keys)
	out := make([]Property, 0, len(keys))
	for _, k := range keys {
		v, _ := b.ref.Property(k)
		out = append(out, Property{Key: k, Value: formatValue(v)})
	}
	return out
}

// CompareBindings orders services by ranking (highest first), then by service id.
func CompareBindings(a, b *CapabilityBindingView) int {
	if ra, rb := a.Ranking(), b.Ranking(); ra != rb {
		if ra > rb {
			return -1
		}
		return 1
	}
	if ia, ib := a.ServiceID(), b.ServiceID(); ia != ib {
		if ia < ib {
			return -1
		}
		return 1
	}
	return strings.Compare(strings.Join(a.ObjectClasses(), ","), strings.Join(b.ObjectClasses(), ","))
}

func sortBindings(bindings []*CapabilityBindingView) {
	sort.SliceStable(bindings, func(i, j int) bool {
		return CompareBindings(bindings[i], bindings[j]) < 0
	})
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n), true
		}
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	case float64:
		// 2^63 is the first float64 outside the int64 range.
		if n >= -(1<<63) && n < 1<<63 && n == math.Trunc(n) {
			return int64(n), true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, formatValue(e))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}
