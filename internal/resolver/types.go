package resolver

import (
	"github.com/bayleafwalker/bindery-panel/internal/graph"
	"github.com/bayleafwalker/bindery-panel/internal/view"
)

// Input is the set of modules to wire against each other.
type Input struct {
	Modules []*view.ModuleView
}

// Plan is the result of wiring a snapshot.
type Plan struct {
	Wires       []Wire
	Diagnostics Diagnostics
}

// Wire connects one import to the export that satisfies it.
type Wire struct {
	Consumer graph.ModuleKey
	Package  string
	// Range is the import's version range in header notation.
	Range           string
	Provider        graph.ModuleKey
	ProviderVersion string
}

// Diagnostics captures imports that could not be wired and modules that could not take part.
type Diagnostics struct {
	UnresolvedRequired []UnresolvedImport
	UnresolvedOptional []UnresolvedImport
	Unparseable        []UnparseableModule
}

type UnresolvedImport struct {
	Consumer graph.ModuleKey
	Package  string
	Range    string
	Reason   string
}

type UnparseableModule struct {
	Module graph.ModuleKey
	Reason string
}

// WireFor returns the wire of consumer's import of pkg, if one was resolved.
func (p Plan) WireFor(consumerID int64, pkg string) (Wire, bool) {
	for _, w := range p.Wires {
		if w.Consumer.ID == consumerID && w.Package == pkg {
			return w, true
		}
	}
	return Wire{}, false
}
