package view

import "github.com/bayleafwalker/bindery-panel/internal/manifest"

// ImportedCapabilitySpec is one package a module imports.
type ImportedCapabilitySpec struct {
	Name     string
	Range    manifest.VersionRange
	Optional bool
}

// MinVersion returns the display form of the range floor. Imports without a declared
// version report 0.0.0.
func (s ImportedCapabilitySpec) MinVersion() string {
	return s.Range.Floor.String()
}

// MaxVersion returns the display form of the range ceiling, if the range has one.
func (s ImportedCapabilitySpec) MaxVersion() (string, bool) {
	if s.Range.Ceiling == nil {
		return "", false
	}
	return s.Range.Ceiling.String(), true
}

// ExportedCapabilitySpec is one package a module exports.
type ExportedCapabilitySpec struct {
	Name    string
	Version manifest.Version
	Uses    []string
}

func importSpecs(in []manifest.ImportedPackage) []ImportedCapabilitySpec {
	out := make([]ImportedCapabilitySpec, 0, len(in))
	for _, p := range in {
		out = append(out, ImportedCapabilitySpec{
			Name:     p.Name,
			Range:    p.Version,
			Optional: p.Optional,
		})
	}
	return out
}

func exportSpecs(in []manifest.ExportedPackage) []ExportedCapabilitySpec {
	out := make([]ExportedCapabilitySpec, 0, len(in))
	for _, p := range in {
		out = append(out, ExportedCapabilitySpec{
			Name:    p.Name,
			Version: p.Version,
			Uses:    append([]string(nil), p.Uses...),
		})
	}
	return out
}
