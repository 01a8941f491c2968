// Package view adapts registry snapshots into display-ready, sortable records.
//
// Views are built per request from a snapshot and never mutated afterwards. The only
// internal state is the compute-once manifest cell behind ImportedCapabilities and
// ExportedCapabilities.
package view

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/bayleafwalker/bindery-panel/internal/manifest"
	"github.com/bayleafwalker/bindery-panel/internal/registry"
)

// LastModifiedLayout is the fixed timestamp layout of LastModifiedDisplay.
const LastModifiedLayout = "2006-01-02 15:04:05 -0700"

// Store classifications derived from a module's origin.
const (
	StoreFilesystem = "filesystem"
	StoreRepository = "repository"
	StoreUnknown    = "n/a"
)

// RepositoryRoot is the origin prefix of modules that may be deleted from the panel.
const RepositoryRoot = "/Company Home"

var statusTokens = map[registry.State]string{
	registry.StateUninstalled: "uninstalled",
	registry.StateInstalled:   "installed",
	registry.StateResolved:    "resolved",
	registry.StateStarting:    "starting",
	registry.StateStopping:    "stopping",
	registry.StateActive:      "active",
}

// ModuleView is the display record of one module.
type ModuleView struct {
	module     registry.Module
	classifier ExtensionClassifier
	bindings   []*CapabilityBindingView
	manifest   func() (*manifest.Manifest, error)
}

// Option configures a ModuleView.
type Option func(*ModuleView)

// WithClassifier sets the predicate behind IsExtension.
func WithClassifier(c ExtensionClassifier) Option {
	return func(v *ModuleView) {
		if c != nil {
			v.classifier = c
		}
	}
}

// New builds the view of m and its published services.
//
// A nil module violates the view invariant. Nil or empty refs yield no capability bindings;
// nil entries in refs are skipped.
func New(m registry.Module, refs []registry.ServiceReference, opts ...Option) (*ModuleView, error) {
	if isNil(m) {
		return nil, fmt.Errorf("%w: module is required", ErrInvariantViolation)
	}

	v := &ModuleView{
		module:     m,
		classifier: noExtensions,
		bindings:   make([]*CapabilityBindingView, 0, len(refs)),
	}
	for _, opt := range opts {
		opt(v)
	}

	for _, ref := range refs {
		b, err := NewCapabilityBindingView(ref)
		if err != nil {
			continue
		}
		v.bindings = append(v.bindings, b)
	}
	sortBindings(v.bindings)

	v.manifest = sync.OnceValues(func() (*manifest.Manifest, error) {
		return manifest.Parse(m.Headers())
	})
	return v, nil
}

// Module returns the wrapped module.
func (v *ModuleView) Module() registry.Module { return v.module }

func (v *ModuleView) ID() int64 { return v.module.ID() }

func (v *ModuleView) SymbolicName() string { return v.module.SymbolicName() }

// DisplayName returns the Bundle-Name header.
func (v *ModuleView) DisplayName() (string, bool) {
	return v.header(manifest.HeaderBundleName)
}

// Description returns the Bundle-Description header.
func (v *ModuleView) Description() (string, bool) {
	return v.header(manifest.HeaderBundleDescription)
}

// IsExtension reports whether the configured classifier treats the module as a dynamic extension.
func (v *ModuleView) IsExtension() bool {
	return v.classifier.IsExtension(v.module)
}

// IsFragment reports whether the module attaches to a host instead of having its own lifecycle.
func (v *ModuleView) IsFragment() bool {
	_, ok := v.header(manifest.HeaderFragmentHost)
	return ok
}

// Origin returns the location the module was installed from.
func (v *ModuleView) Origin() string { return v.module.Location() }

// LastModifiedDisplay formats the last-modified time in UTC using LastModifiedLayout.
// Unknown (non-positive) timestamps are absent.
func (v *ModuleView) LastModifiedDisplay() (string, bool) {
	ms := v.module.LastModified()
	if ms <= 0 {
		return "", false
	}
	return time.UnixMilli(ms).UTC().Format(LastModifiedLayout), true
}

func (v *ModuleView) VersionDisplay() string {
	return v.module.Version().String()
}

// Store classifies the origin by prefix only; nothing is probed.
func (v *ModuleView) Store() string {
	origin := v.Origin()
	switch {
	case strings.HasPrefix(origin, "file:"):
		return StoreFilesystem
	case strings.HasPrefix(origin, "/"):
		return StoreRepository
	}
	return StoreUnknown
}

// Status returns the lowercase lifecycle token. Unrecognized states are absent.
func (v *ModuleView) Status() (string, bool) {
	s, ok := statusTokens[v.module.State()]
	return s, ok
}

// ExportPackageHeader returns the raw Export-Package header, unparsed.
func (v *ModuleView) ExportPackageHeader() (string, bool) {
	return v.header(manifest.HeaderExportPackage)
}

func (v *ModuleView) DocumentationURL() (string, bool) {
	return v.header(manifest.HeaderBundleDocURL)
}

// IsDeletable reports whether the module was installed from the repository root.
func (v *ModuleView) IsDeletable() bool {
	return strings.HasPrefix(v.Origin(), RepositoryRoot)
}

// ImportedCapabilities returns the packages named by Import-Package, in declaration order.
//
// Parsing covers the whole header block: if any package header is malformed the call fails
// with an error matching manifest.ErrParse and no partial list is returned.
func (v *ModuleView) ImportedCapabilities() ([]ImportedCapabilitySpec, error) {
	m, err := v.manifest()
	if err != nil {
		return nil, fmt.Errorf("module %d: %w", v.ID(), err)
	}
	return importSpecs(m.Imports), nil
}

// ExportedCapabilities returns the packages named by Export-Package, in declaration order.
func (v *ModuleView) ExportedCapabilities() ([]ExportedCapabilitySpec, error) {
	m, err := v.manifest()
	if err != nil {
		return nil, fmt.Errorf("module %d: %w", v.ID(), err)
	}
	return exportSpecs(m.Exports), nil
}

// CapabilityBindings returns the module's services in display order.
// The slice is shared; callers must not modify it.
func (v *ModuleView) CapabilityBindings() []*CapabilityBindingView {
	return v.bindings
}

func (v *ModuleView) header(name string) (string, bool) {
	return v.module.Headers().Get(name)
}

func isNil(x any) bool {
	if x == nil {
		return true
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
