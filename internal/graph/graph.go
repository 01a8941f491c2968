// Package graph indexes the package wiring between modules: who exports what, and who
// imports it.
package graph

import (
	"sort"

	"github.com/bayleafwalker/bindery-panel/internal/manifest"
)

// ModuleKey identifies a module within one snapshot.
type ModuleKey struct {
	ID           int64
	SymbolicName string
}

// ProviderNode is one exported package.
type ProviderNode struct {
	Module  ModuleKey
	Package string
	Version manifest.Version
}

// RequirementNode is one imported package.
type RequirementNode struct {
	Module   ModuleKey
	Package  string
	Range    manifest.VersionRange
	Optional bool
}

// DependencyGraph holds every export and import of a snapshot.
type DependencyGraph struct {
	Providers    []ProviderNode
	Requirements []RequirementNode

	byPackage map[string][]int
}

// AddProvider records an export.
func (g *DependencyGraph) AddProvider(n ProviderNode) {
	if g.byPackage == nil {
		g.byPackage = make(map[string][]int)
	}
	g.byPackage[n.Package] = append(g.byPackage[n.Package], len(g.Providers))
	g.Providers = append(g.Providers, n)
}

// AddRequirement records an import.
func (g *DependencyGraph) AddRequirement(n RequirementNode) {
	g.Requirements = append(g.Requirements, n)
}

// ProvidersOf returns the exports of pkg in insertion order.
func (g *DependencyGraph) ProvidersOf(pkg string) []ProviderNode {
	idx := g.byPackage[pkg]
	out := make([]ProviderNode, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.Providers[i])
	}
	return out
}

// Packages returns the exported package names, sorted.
func (g *DependencyGraph) Packages() []string {
	out := make([]string, 0, len(g.byPackage))
	for pkg := range g.byPackage {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}
