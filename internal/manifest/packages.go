package manifest

import (
	"fmt"
	"strings"
)

const (
	attrVersion              = "version"
	attrSpecificationVersion = "specification-version"
	directiveResolution      = "resolution"
	directiveUses            = "uses"
	resolutionOptional       = "optional"
)

// ImportedPackage is one package named by an Import-Package clause.
type ImportedPackage struct {
	Name     string
	Version  VersionRange
	Optional bool
	// Attributes holds the clause's matching attributes other than the version.
	Attributes map[string]string
}

// ExportedPackage is one package named by an Export-Package clause.
type ExportedPackage struct {
	Name    string
	Version Version
	Uses    []string
	// Attributes holds the clause's attributes other than the version.
	Attributes map[string]string
}

// Manifest is the structured form of a module's package headers.
type Manifest struct {
	Imports []ImportedPackage
	Exports []ExportedPackage
}

// Parse parses the Import-Package and Export-Package headers.
//
// Parsing is all-or-nothing: any malformed clause in either header fails the whole manifest
// with a *ParseError. Absent headers yield empty lists.
func Parse(h Headers) (*Manifest, error) {
	imports, err := ParseImports(h)
	if err != nil {
		return nil, err
	}
	exports, err := ParseExports(h)
	if err != nil {
		return nil, err
	}
	return &Manifest{Imports: imports, Exports: exports}, nil
}

// ParseImports parses the Import-Package header in declaration order.
func ParseImports(h Headers) ([]ImportedPackage, error) {
	raw, ok := h.Get(HeaderImportPackage)
	if !ok {
		return nil, nil
	}
	clauses, err := ParseClauses(raw)
	if err != nil {
		return nil, &ParseError{Header: HeaderImportPackage, Value: raw, Reason: err.Error()}
	}

	var out []ImportedPackage
	for _, c := range clauses {
		rawVersion, err := versionAttribute(c)
		if err != nil {
			return nil, &ParseError{Header: HeaderImportPackage, Value: raw, Reason: err.Error()}
		}
		rng, err := ParseVersionRange(rawVersion)
		if err != nil {
			return nil, &ParseError{Header: HeaderImportPackage, Value: raw, Reason: err.Error()}
		}
		resolution, _ := c.Directive(directiveResolution)
		optional := strings.EqualFold(strings.TrimSpace(resolution), resolutionOptional)
		for _, path := range c.Paths {
			out = append(out, ImportedPackage{
				Name:       path,
				Version:    rng,
				Optional:   optional,
				Attributes: extraAttributes(c),
			})
		}
	}
	return out, nil
}

// ParseExports parses the Export-Package header in declaration order.
func ParseExports(h Headers) ([]ExportedPackage, error) {
	raw, ok := h.Get(HeaderExportPackage)
	if !ok {
		return nil, nil
	}
	clauses, err := ParseClauses(raw)
	if err != nil {
		return nil, &ParseError{Header: HeaderExportPackage, Value: raw, Reason: err.Error()}
	}

	var out []ExportedPackage
	for _, c := range clauses {
		rawVersion, err := versionAttribute(c)
		if err != nil {
			return nil, &ParseError{Header: HeaderExportPackage, Value: raw, Reason: err.Error()}
		}
		v, err := ParseVersion(rawVersion)
		if err != nil {
			return nil, &ParseError{Header: HeaderExportPackage, Value: raw, Reason: err.Error()}
		}
		var uses []string
		if u, ok := c.Directive(directiveUses); ok {
			for _, name := range strings.Split(u, ",") {
				if name = strings.TrimSpace(name); name != "" {
					uses = append(uses, name)
				}
			}
		}
		for _, path := range c.Paths {
			out = append(out, ExportedPackage{
				Name:       path,
				Version:    v,
				Uses:       uses,
				Attributes: extraAttributes(c),
			})
		}
	}
	return out, nil
}

// versionAttribute returns the clause's version, accepting the legacy specification-version
// attribute as long as it does not contradict "version".
func versionAttribute(c Clause) (string, error) {
	v, hasVersion := c.Attribute(attrVersion)
	spec, hasSpec := c.Attribute(attrSpecificationVersion)
	switch {
	case hasVersion && hasSpec && strings.TrimSpace(v) != strings.TrimSpace(spec):
		return "", fmt.Errorf("%s %q conflicts with %s %q", attrVersion, v, attrSpecificationVersion, spec)
	case hasVersion:
		return v, nil
	case hasSpec:
		return spec, nil
	}
	return "", nil
}

func extraAttributes(c Clause) map[string]string {
	var out map[string]string
	for k, v := range c.Attributes {
		if k == attrVersion || k == attrSpecificationVersion {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[k] = v
	}
	return out
}
