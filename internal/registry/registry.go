// Package registry describes the module runtime as seen by the panel: the loaded modules,
// their lifecycle state and raw headers, and the services they currently publish.
//
// The runtime owns all of this; the panel only reads point-in-time snapshots.
package registry

import (
	"context"

	"github.com/bayleafwalker/bindery-panel/internal/manifest"
)

// FrameworkModuleID identifies the module that represents the runtime itself.
const FrameworkModuleID int64 = 0

// Module is one loaded module as reported by the runtime.
type Module interface {
	ID() int64
	SymbolicName() string
	Version() manifest.Version
	State() State
	Headers() manifest.Headers
	// Location is the opaque origin the module was installed from.
	Location() string
	// LastModified is in epoch milliseconds; 0 means unknown.
	LastModified() int64
}

// ServiceReference is one service a module currently publishes.
type ServiceReference interface {
	Property(key string) (any, bool)
	PropertyKeys() []string
}

// Standard service property keys.
const (
	PropertyServiceID      = "service.id"
	PropertyObjectClass    = "objectClass"
	PropertyServiceRanking = "service.ranking"
)

// Snapshot is a consistent listing of modules and their published services.
type Snapshot struct {
	Modules []Module
	// Services groups published services by the ID of the module that registered them.
	Services map[int64][]ServiceReference
}

// ServicesFor returns the services published by the given module.
func (s Snapshot) ServicesFor(moduleID int64) []ServiceReference {
	if s.Services == nil {
		return nil
	}
	return s.Services[moduleID]
}

// Source produces snapshots of a module registry.
type Source interface {
	Snapshot(ctx context.Context, namespace string) (Snapshot, error)
}
