package view

import (
	"sync/atomic"

	"github.com/bayleafwalker/bindery-panel/internal/manifest"
	"github.com/bayleafwalker/bindery-panel/internal/registry"
)

func module(id int64, name, version string) *registry.StaticModule {
	h := manifest.Headers{}
	if name != "" {
		h[manifest.HeaderBundleName] = name
	}
	return &registry.StaticModule{
		ModuleID:      id,
		Name:          "sym." + name,
		ModuleVersion: manifest.MustParseVersion(version),
		ModuleState:   registry.StateActive,
		ModuleHeaders: h,
	}
}

func mustView(m registry.Module, refs ...registry.ServiceReference) *ModuleView {
	v, err := New(m, refs)
	if err != nil {
		panic(err)
	}
	return v
}

// countingModule counts how often its headers are read.
type countingModule struct {
	*registry.StaticModule
	reads atomic.Int32
}

func (m *countingModule) Headers() manifest.Headers {
	m.reads.Add(1)
	return m.StaticModule.Headers()
}
