package resolver

import (
	"context"
	"fmt"
	"sort"

	"github.com/bayleafwalker/bindery-panel/internal/graph"
	"github.com/bayleafwalker/bindery-panel/internal/registry"
	"github.com/bayleafwalker/bindery-panel/internal/semver"
	"github.com/bayleafwalker/bindery-panel/internal/view"
)

// DefaultResolver wires imports to the highest-version export whose version falls in range.
type DefaultResolver struct{}

type provider struct {
	node    graph.ProviderNode
	version semver.Version
}

func NewDefault() *DefaultResolver {
	return &DefaultResolver{}
}

func (r *DefaultResolver) Resolve(_ context.Context, in Input) (Plan, error) {
	plan := Plan{}
	g, err := buildGraph(in.Modules, &plan.Diagnostics)
	if err != nil {
		return Plan{}, err
	}

	for _, req := range g.Requirements {
		rangeRaw := req.Range.String()
		constraint, err := semver.ConstraintForRange(req.Range)
		if err != nil {
			addUnresolved(&plan.Diagnostics, req, "invalid version range")
			continue
		}

		candidates := make([]provider, 0)
		for _, p := range g.ProvidersOf(req.Package) {
			v, err := semver.FromManifest(p.Version)
			if err != nil {
				continue
			}
			if !semver.Satisfies(v, constraint) || !req.Range.Includes(p.Version) {
				continue
			}
			candidates = append(candidates, provider{node: p, version: v})
		}

		if len(candidates) == 0 {
			addUnresolved(&plan.Diagnostics, req, "no exporter in range")
			continue
		}

		selected := selectProviderDeterministic(candidates)
		plan.Wires = append(plan.Wires, Wire{
			Consumer:        req.Module,
			Package:         req.Package,
			Range:           rangeRaw,
			Provider:        selected.node.Module,
			ProviderVersion: selected.node.Version.String(),
		})
	}

	sort.SliceStable(plan.Wires, func(i, j int) bool {
		a, b := plan.Wires[i], plan.Wires[j]
		if a.Consumer.ID != b.Consumer.ID {
			return a.Consumer.ID < b.Consumer.ID
		}
		return a.Package < b.Package
	})

	return plan, nil
}

// buildGraph indexes the exports and imports of every module whose manifest parses.
// Uninstalled modules keep their imports but export nothing.
func buildGraph(modules []*view.ModuleView, diag *Diagnostics) (*graph.DependencyGraph, error) {
	g := &graph.DependencyGraph{}
	for i, m := range modules {
		if m == nil {
			return nil, fmt.Errorf("%w at index %d", ErrNilModule, i)
		}
		key := graph.ModuleKey{ID: m.ID(), SymbolicName: m.SymbolicName()}

		exports, err := m.ExportedCapabilities()
		if err != nil {
			diag.Unparseable = append(diag.Unparseable, UnparseableModule{Module: key, Reason: err.Error()})
			continue
		}
		imports, err := m.ImportedCapabilities()
		if err != nil {
			diag.Unparseable = append(diag.Unparseable, UnparseableModule{Module: key, Reason: err.Error()})
			continue
		}

		if m.Module().State() != registry.StateUninstalled {
			for _, e := range exports {
				g.AddProvider(graph.ProviderNode{Module: key, Package: e.Name, Version: e.Version})
			}
		}
		for _, imp := range imports {
			g.AddRequirement(graph.RequirementNode{
				Module:   key,
				Package:  imp.Name,
				Range:    imp.Range,
				Optional: imp.Optional,
			})
		}
	}
	return g, nil
}

func addUnresolved(diag *Diagnostics, req graph.RequirementNode, reason string) {
	unresolved := UnresolvedImport{
		Consumer: req.Module,
		Package:  req.Package,
		Range:    req.Range.String(),
		Reason:   reason,
	}
	if req.Optional {
		diag.UnresolvedOptional = append(diag.UnresolvedOptional, unresolved)
		return
	}
	diag.UnresolvedRequired = append(diag.UnresolvedRequired, unresolved)
}

func selectProviderDeterministic(candidates []provider) provider {
	// Deterministic ordering:
	// 1) Higher version wins (qualifiers break semver ties)
	// 2) Tie-break: symbolic name, then module id (ascending)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if cmp := semver.Compare(a.version, b.version); cmp != 0 {
			return cmp > 0
		}
		if cmp := a.node.Version.Compare(b.node.Version); cmp != 0 {
			return cmp > 0
		}
		if a.node.Module.SymbolicName != b.node.Module.SymbolicName {
			return a.node.Module.SymbolicName < b.node.Module.SymbolicName
		}
		return a.node.Module.ID < b.node.Module.ID
	})
	return candidates[0]
}
