package view

import "github.com/bayleafwalker/bindery-panel/internal/registry"

// ExtensionClassifier decides whether a module is a dynamic extension.
//
// The predicate belongs to the runtime integration, not to the view model.
type ExtensionClassifier interface {
	IsExtension(m registry.Module) bool
}

// ClassifierFunc adapts a plain function to ExtensionClassifier.
type ClassifierFunc func(m registry.Module) bool

// IsExtension calls f(m).
func (f ClassifierFunc) IsExtension(m registry.Module) bool { return f(m) }

// noExtensions is used when no classifier is configured.
var noExtensions = ClassifierFunc(func(registry.Module) bool { return false })
