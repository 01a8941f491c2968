package registry

import (
	"context"
	"sort"

	"github.com/bayleafwalker/bindery-panel/internal/manifest"
)

// StaticModule is a plain-data Module.
type StaticModule struct {
	ModuleID          int64
	Name              string
	ModuleVersion     manifest.Version
	ModuleState       State
	ModuleHeaders     manifest.Headers
	ModuleLocation    string
	LastModifiedMilli int64
}

var _ Module = (*StaticModule)(nil)

func (m *StaticModule) ID() int64                 { return m.ModuleID }
func (m *StaticModule) SymbolicName() string      { return m.Name }
func (m *StaticModule) Version() manifest.Version { return m.ModuleVersion }
func (m *StaticModule) State() State              { return m.ModuleState }
func (m *StaticModule) Headers() manifest.Headers { return m.ModuleHeaders }
func (m *StaticModule) Location() string          { return m.ModuleLocation }
func (m *StaticModule) LastModified() int64       { return m.LastModifiedMilli }

// StaticServiceReference is a ServiceReference backed by a property map.
type StaticServiceReference map[string]any

var _ ServiceReference = StaticServiceReference(nil)

func (r StaticServiceReference) Property(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

// PropertyKeys returns the property names in sorted order.
func (r StaticServiceReference) PropertyKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StaticSource always returns the same snapshot, regardless of namespace.
type StaticSource struct {
	Snap Snapshot
	Err  error
}

func (s StaticSource) Snapshot(context.Context, string) (Snapshot, error) {
	if s.Err != nil {
		return Snapshot{}, s.Err
	}
	return s.Snap, nil
}
