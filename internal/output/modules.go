package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/bayleafwalker/bindery-panel/internal/presenter"
)

// Format selects how records are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts "table", "json" or "yaml", ignoring case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want %s, %s or %s)", s, FormatTable, FormatJSON, FormatYAML)
}

// Write writes v in a structured format. Table output is rendered by the caller.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	}
	return fmt.Errorf("format %q is not a structured format", f)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML. Field names follow the json tags.
func WriteYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// RenderModuleTable renders one row per module, in the given order.
func RenderModuleTable(records []presenter.ModuleRecord) string {
	t := NewTable("ID", "NAME", "VERSION", "STATUS", "STORE", "MODIFIED", "FLAGS")
	for _, r := range records {
		name := r.DisplayName
		if name == "" {
			name = r.SymbolicName
		}
		t.Row(strconv.FormatInt(r.ID, 10), name, r.Version, orDash(r.Status), r.Store, orDash(r.LastModified), flags(r))
	}
	return t.String()
}

// RenderModuleDetail renders the identity block and the import, export and service tables
// of one module.
func RenderModuleDetail(r presenter.ModuleRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s) %s\n", orDash(r.DisplayName), r.SymbolicName, r.Version)
	if r.Description != "" {
		fmt.Fprintf(&b, "  %s\n", r.Description)
	}
	fmt.Fprintf(&b, "  id: %d  status: %s  store: %s  deletable: %t\n", r.ID, orDash(r.Status), r.Store, r.Deletable)
	if r.Origin != "" {
		fmt.Fprintf(&b, "  origin: %s\n", r.Origin)
	}
	if r.LastModified != "" {
		fmt.Fprintf(&b, "  modified: %s\n", r.LastModified)
	}
	if r.DocumentationURL != "" {
		fmt.Fprintf(&b, "  docs: %s\n", r.DocumentationURL)
	}

	if r.ManifestError != "" {
		fmt.Fprintf(&b, "\nmanifest error: %s\n", r.ManifestError)
		if r.ExportPackage != "" {
			fmt.Fprintf(&b, "Export-Package: %s\n", r.ExportPackage)
		}
	}

	if len(r.Imports) > 0 {
		t := NewTable("IMPORT", "MIN", "MAX", "OPTIONAL", "PROVIDER")
		for _, imp := range r.Imports {
			provider := "-"
			if imp.ProviderID != nil {
				provider = fmt.Sprintf("%s %s [%d]", imp.ProviderName, imp.ProviderVersion, *imp.ProviderID)
			}
			t.Row(imp.Package, imp.MinVersion, orDash(imp.MaxVersion), strconv.FormatBool(imp.Optional), provider)
		}
		b.WriteString("\n" + t.String() + "\n")
	}
	if len(r.Exports) > 0 {
		t := NewTable("EXPORT", "VERSION", "USES")
		for _, e := range r.Exports {
			t.Row(e.Package, e.Version, orDash(strings.Join(e.Uses, ", ")))
		}
		b.WriteString("\n" + t.String() + "\n")
	}
	if len(r.Services) > 0 {
		t := NewTable("SERVICE", "RANKING", "OBJECT CLASS")
		for _, s := range r.Services {
			t.Row(strconv.FormatInt(s.ServiceID, 10), strconv.Itoa(s.Ranking), strings.Join(s.ObjectClasses, ", "))
		}
		b.WriteString("\n" + t.String() + "\n")
	}
	return b.String()
}

func flags(r presenter.ModuleRecord) string {
	var out []string
	if r.Extension {
		out = append(out, "extension")
	}
	if r.Fragment {
		out = append(out, "fragment")
	}
	if r.Deletable {
		out = append(out, "deletable")
	}
	if r.ManifestError != "" {
		out = append(out, "bad-manifest")
	}
	return orDash(strings.Join(out, ","))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
