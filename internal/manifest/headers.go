package manifest

import "strings"

// Well-known manifest header names.
const (
	HeaderBundleName         = "Bundle-Name"
	HeaderBundleDescription  = "Bundle-Description"
	HeaderBundleDocURL       = "Bundle-DocURL"
	HeaderBundleSymbolicName = "Bundle-SymbolicName"
	HeaderBundleVersion      = "Bundle-Version"
	HeaderFragmentHost       = "Fragment-Host"
	HeaderImportPackage      = "Import-Package"
	HeaderExportPackage      = "Export-Package"
)

// Headers is the raw header mapping declared by a module.
//
// Lookups are case-insensitive, matching how manifest headers are treated by the runtime.
type Headers map[string]string

// Get returns the value of the named header and whether it was declared.
func (h Headers) Get(name string) (string, bool) {
	if h == nil {
		return "", false
	}
	if v, ok := h[name]; ok {
		return v, true
	}
	// Several keys may fold to the same name; pick the smallest so lookups stay deterministic.
	var (
		match string
		value string
		found bool
	)
	for k, v := range h {
		if !strings.EqualFold(k, name) {
			continue
		}
		if !found || k < match {
			match, value, found = k, v, true
		}
	}
	return value, found
}

// Has reports whether the named header was declared.
func (h Headers) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}
