package presenter

import (
	"github.com/bayleafwalker/bindery-panel/internal/view"
)

// ModuleRecord is the flat, serializable form of a ModuleView.
type ModuleRecord struct {
	ID               int64  `json:"id"`
	SymbolicName     string `json:"symbolicName"`
	DisplayName      string `json:"displayName,omitempty"`
	Description      string `json:"description,omitempty"`
	Version          string `json:"version"`
	Status           string `json:"status,omitempty"`
	Store            string `json:"store"`
	Origin           string `json:"origin,omitempty"`
	LastModified     string `json:"lastModified,omitempty"`
	DocumentationURL string `json:"documentationUrl,omitempty"`
	Extension        bool   `json:"extension"`
	Fragment         bool   `json:"fragment"`
	Deletable        bool   `json:"deletable"`

	Imports []ImportRecord `json:"imports,omitempty"`
	Exports []ExportRecord `json:"exports,omitempty"`
	// ExportPackage is the raw header, kept so a page can still show exports when the
	// manifest does not parse.
	ExportPackage string `json:"exportPackage,omitempty"`
	ManifestError string `json:"manifestError,omitempty"`

	Services []ServiceRecord `json:"services,omitempty"`
}

type ImportRecord struct {
	Package    string `json:"package"`
	MinVersion string `json:"minVersion"`
	MaxVersion string `json:"maxVersion,omitempty"`
	Optional   bool   `json:"optional,omitempty"`
	// ProviderID is the module the import is wired to, when one was found.
	ProviderID      *int64 `json:"providerId,omitempty"`
	ProviderName    string `json:"providerName,omitempty"`
	ProviderVersion string `json:"providerVersion,omitempty"`
}

type ExportRecord struct {
	Package string   `json:"package"`
	Version string   `json:"version"`
	Uses    []string `json:"uses,omitempty"`
}

type ServiceRecord struct {
	ServiceID     int64             `json:"serviceId"`
	ObjectClasses []string          `json:"objectClasses,omitempty"`
	Ranking       int               `json:"ranking"`
	Properties    map[string]string `json:"properties,omitempty"`
}

// Records flattens the page in display order.
func Records(page Page) []ModuleRecord {
	out := make([]ModuleRecord, 0, len(page.Modules))
	for _, v := range page.Modules {
		out = append(out, Record(page, v))
	}
	return out
}

// Record flattens one view, annotating its imports with the page's wiring.
func Record(page Page, v *view.ModuleView) ModuleRecord {
	r := ModuleRecord{
		ID:           v.ID(),
		SymbolicName: v.SymbolicName(),
		Version:      v.VersionDisplay(),
		Store:        v.Store(),
		Origin:       v.Origin(),
		Extension:    v.IsExtension(),
		Fragment:     v.IsFragment(),
		Deletable:    v.IsDeletable(),
	}
	r.DisplayName, _ = v.DisplayName()
	r.Description, _ = v.Description()
	r.Status, _ = v.Status()
	r.LastModified, _ = v.LastModifiedDisplay()
	r.DocumentationURL, _ = v.DocumentationURL()
	r.ExportPackage, _ = v.ExportPackageHeader()

	imports, err := v.ImportedCapabilities()
	if err != nil {
		r.ManifestError = err.Error()
	} else {
		for _, imp := range imports {
			ir := ImportRecord{
				Package:    imp.Name,
				MinVersion: imp.MinVersion(),
				Optional:   imp.Optional,
			}
			ir.MaxVersion, _ = imp.MaxVersion()
			if w, ok := page.Wiring.WireFor(v.ID(), imp.Name); ok {
				id := w.Provider.ID
				ir.ProviderID = &id
				ir.ProviderName = w.Provider.SymbolicName
				ir.ProviderVersion = w.ProviderVersion
			}
			r.Imports = append(r.Imports, ir)
		}
	}

	if exports, err := v.ExportedCapabilities(); err == nil {
		for _, e := range exports {
			r.Exports = append(r.Exports, ExportRecord{
				Package: e.Name,
				Version: e.Version.String(),
				Uses:    e.Uses,
			})
		}
	}

	for _, b := range v.CapabilityBindings() {
		sr := ServiceRecord{
			ServiceID:     b.ServiceID(),
			ObjectClasses: b.ObjectClasses(),
			Ranking:       b.Ranking(),
		}
		for _, p := range b.Properties() {
			if sr.Properties == nil {
				sr.Properties = make(map[string]string)
			}
			sr.Properties[p.Key] = p.Value
		}
		r.Services = append(r.Services, sr)
	}
	return r
}
