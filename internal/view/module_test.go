package view

import (
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/bayleafwalker/bindery-panel/internal/manifest"
	"github.com/bayleafwalker/bindery-panel/internal/registry"
)

func TestNew_RequiresModule(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}

	var typedNil *registry.StaticModule
	if _, err := New(typedNil, nil); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation for typed nil, got %v", err)
	}
}

func TestNew_AbsentBindingsYieldEmptyList(t *testing.T) {
	v := mustView(module(7, "Seven", "1.0.0"))
	if got := v.CapabilityBindings(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil bindings, got %#v", got)
	}
}

func TestIdentityAccessors(t *testing.T) {
	m := &registry.StaticModule{
		ModuleID:      12,
		Name:          "com.acme.reports",
		ModuleVersion: manifest.MustParseVersion("2.1.0.RELEASE"),
		ModuleState:   registry.StateResolved,
		ModuleHeaders: manifest.Headers{
			manifest.HeaderBundleName:        "Acme Reports",
			manifest.HeaderBundleDescription: "Report generation",
			manifest.HeaderBundleDocURL:      "https://docs.acme.example/reports",
			manifest.HeaderExportPackage:     "com.acme.reports.api;version=2.1",
		},
		ModuleLocation: "file:/opt/modules/reports.jar",
	}
	v := mustView(m)

	if v.ID() != 12 || v.SymbolicName() != "com.acme.reports" {
		t.Fatalf("unexpected identity: %d %q", v.ID(), v.SymbolicName())
	}
	if name, ok := v.DisplayName(); !ok || name != "Acme Reports" {
		t.Fatalf("unexpected display name: %q %v", name, ok)
	}
	if desc, ok := v.Description(); !ok || desc != "Report generation" {
		t.Fatalf("unexpected description: %q %v", desc, ok)
	}
	if url, ok := v.DocumentationURL(); !ok || url != "https://docs.acme.example/reports" {
		t.Fatalf("unexpected doc url: %q %v", url, ok)
	}
	if raw, ok := v.ExportPackageHeader(); !ok || raw != "com.acme.reports.api;version=2.1" {
		t.Fatalf("unexpected export header: %q %v", raw, ok)
	}
	if v.VersionDisplay() != "2.1.0.RELEASE" {
		t.Fatalf("unexpected version display: %q", v.VersionDisplay())
	}
	if v.Origin() != "file:/opt/modules/reports.jar" {
		t.Fatalf("unexpected origin: %q", v.Origin())
	}
	if v.IsFragment() {
		t.Fatalf("expected non-fragment")
	}
}

func TestAbsentHeaders(t *testing.T) {
	v := mustView(&registry.StaticModule{ModuleID: 3})

	if _, ok := v.DisplayName(); ok {
		t.Fatalf("expected absent display name")
	}
	if _, ok := v.Description(); ok {
		t.Fatalf("expected absent description")
	}
	if _, ok := v.DocumentationURL(); ok {
		t.Fatalf("expected absent doc url")
	}
	if _, ok := v.ExportPackageHeader(); ok {
		t.Fatalf("expected absent export header")
	}
	if v.VersionDisplay() != "0.0.0" {
		t.Fatalf("unexpected version display: %q", v.VersionDisplay())
	}
	imports, err := v.ImportedCapabilities()
	if err != nil || len(imports) != 0 {
		t.Fatalf("expected no imports, got %v %v", imports, err)
	}
}

func TestIsFragment(t *testing.T) {
	m := module(4, "Fragment", "1.0.0")
	m.ModuleHeaders[manifest.HeaderFragmentHost] = "com.acme.host"
	if !mustView(m).IsFragment() {
		t.Fatalf("expected fragment")
	}

	// An empty Fragment-Host value is still a declared header.
	m.ModuleHeaders[manifest.HeaderFragmentHost] = ""
	if !mustView(m).IsFragment() {
		t.Fatalf("expected fragment for empty header value")
	}
}

func TestIsExtension_DelegatesToClassifier(t *testing.T) {
	m := module(5, "Ext", "1.0.0")

	if mustView(m).IsExtension() {
		t.Fatalf("expected no extension without a classifier")
	}

	var seen registry.Module
	v, err := New(m, nil, WithClassifier(ClassifierFunc(func(got registry.Module) bool {
		seen = got
		return true
	})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !v.IsExtension() {
		t.Fatalf("expected classifier result")
	}
	if seen != registry.Module(m) {
		t.Fatalf("classifier received a different module")
	}
}

func TestStore(t *testing.T) {
	tests := []struct {
		origin string
		want   string
	}{
		{"file:/opt/modules/a.jar", StoreFilesystem},
		{"/Company Home/Data/a.jar", StoreRepository},
		{"http://example/a.jar", StoreUnknown},
		{"", StoreUnknown},
	}
	for _, tt := range tests {
		m := module(9, "Store", "1.0.0")
		m.ModuleLocation = tt.origin
		if got := mustView(m).Store(); got != tt.want {
			t.Fatalf("Store(%q) = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestIsDeletable(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"/Company Home/x", true},
		{"/Company Home", true},
		{"file:/x", false},
		{"/company home/x", false},
	}
	for _, tt := range tests {
		m := module(9, "Deletable", "1.0.0")
		m.ModuleLocation = tt.origin
		if got := mustView(m).IsDeletable(); got != tt.want {
			t.Fatalf("IsDeletable(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		state registry.State
		want  string
	}{
		{registry.StateUninstalled, "uninstalled"},
		{registry.StateInstalled, "installed"},
		{registry.StateResolved, "resolved"},
		{registry.StateStarting, "starting"},
		{registry.StateStopping, "stopping"},
		{registry.StateActive, "active"},
	}
	for _, tt := range tests {
		m := module(2, "Status", "1.0.0")
		m.ModuleState = tt.state
		got, ok := mustView(m).Status()
		if !ok || got != tt.want {
			t.Fatalf("Status(%v) = %q %v, want %q", tt.state, got, ok, tt.want)
		}
	}

	for _, s := range []registry.State{registry.StateUnknown, registry.State(0x40), registry.State(-1)} {
		m := module(2, "Status", "1.0.0")
		m.ModuleState = s
		if got, ok := mustView(m).Status(); ok {
			t.Fatalf("expected absent status for %d, got %q", s, got)
		}
	}
}

func TestLastModifiedDisplay(t *testing.T) {
	m := module(3, "Time", "1.0.0")
	if _, ok := mustView(m).LastModifiedDisplay(); ok {
		t.Fatalf("expected absent timestamp for 0")
	}

	prev := time.Local
	t.Cleanup(func() { time.Local = prev })

	m.LastModifiedMilli = 1700000000000
	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} [+-]\d{4}$`)
	var first string
	for i, zone := range []*time.Location{time.UTC, time.FixedZone("X", 5*3600+1800), time.FixedZone("Y", -8*3600)} {
		time.Local = zone
		got, ok := mustView(m).LastModifiedDisplay()
		if !ok {
			t.Fatalf("expected timestamp")
		}
		if !pattern.MatchString(got) {
			t.Fatalf("unexpected format %q", got)
		}
		if i == 0 {
			first = got
		} else if got != first {
			t.Fatalf("display depends on local zone: %q vs %q", got, first)
		}
	}
	if first != "2023-11-14 22:13:20 +0000" {
		t.Fatalf("unexpected display %q", first)
	}
}

func TestImportedCapabilities(t *testing.T) {
	m := module(6, "Importer", "1.0.0")
	m.ModuleHeaders[manifest.HeaderImportPackage] = `com.x;version="[1.0,2.0)"`

	imports, err := mustView(m).ImportedCapabilities()
	if err != nil {
		t.Fatalf("ImportedCapabilities: %v", err)
	}
	if len(imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(imports))
	}
	imp := imports[0]
	if imp.Name != "com.x" {
		t.Fatalf("unexpected name %q", imp.Name)
	}
	if imp.Range.Floor.Compare(manifest.MustParseVersion("1.0")) != 0 || imp.MinVersion() != "1.0.0" {
		t.Fatalf("unexpected floor %q", imp.MinVersion())
	}
	if max, ok := imp.MaxVersion(); !ok || max != "2.0.0" {
		t.Fatalf("unexpected ceiling %q %v", max, ok)
	}
}

func TestExportedCapabilities(t *testing.T) {
	m := module(6, "Exporter", "1.0.0")
	m.ModuleHeaders[manifest.HeaderExportPackage] = `com.acme.api;version=1.2.3;uses:="com.acme.spi", com.acme.spi`

	exports, err := mustView(m).ExportedCapabilities()
	if err != nil {
		t.Fatalf("ExportedCapabilities: %v", err)
	}
	if len(exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(exports))
	}
	if exports[0].Name != "com.acme.api" || exports[0].Version.String() != "1.2.3" {
		t.Fatalf("unexpected export %+v", exports[0])
	}
	if len(exports[0].Uses) != 1 || exports[0].Uses[0] != "com.acme.spi" {
		t.Fatalf("unexpected uses %v", exports[0].Uses)
	}
	if exports[1].Version != manifest.EmptyVersion {
		t.Fatalf("expected default export version, got %s", exports[1].Version)
	}
}

func TestManifestParseError_IsAllOrNothing(t *testing.T) {
	m := module(8, "Broken", "1.0.0")
	m.ModuleHeaders[manifest.HeaderImportPackage] = `com.ok, com.bad;version="[1.0`
	m.ModuleHeaders[manifest.HeaderExportPackage] = `com.acme.api;version=1.0`
	v := mustView(m)

	imports, err := v.ImportedCapabilities()
	if !manifest.IsParseError(err) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if imports != nil {
		t.Fatalf("expected no partial imports, got %v", imports)
	}
	if _, err := v.ExportedCapabilities(); !manifest.IsParseError(err) {
		t.Fatalf("expected exports to fail with the same manifest, got %v", err)
	}

	// Raw accessors keep working.
	if raw, ok := v.ExportPackageHeader(); !ok || raw != "com.acme.api;version=1.0" {
		t.Fatalf("unexpected raw export header %q %v", raw, ok)
	}
	if name, ok := v.DisplayName(); !ok || name != "Broken" {
		t.Fatalf("unexpected display name %q", name)
	}
}

func TestManifestParsedOnce(t *testing.T) {
	m := &countingModule{StaticModule: module(10, "Counted", "1.0.0")}
	m.ModuleHeaders[manifest.HeaderImportPackage] = "com.a, com.b"
	v := mustView(m)
	if got := m.reads.Load(); got != 0 {
		t.Fatalf("expected lazy parsing, headers read %d times during construction", got)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := v.ImportedCapabilities(); err != nil {
				t.Errorf("ImportedCapabilities: %v", err)
			}
			if _, err := v.ExportedCapabilities(); err != nil {
				t.Errorf("ExportedCapabilities: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := m.reads.Load(); got != 1 {
		t.Fatalf("expected a single parse, headers read %d times", got)
	}
}
