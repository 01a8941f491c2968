package presenter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/bayleafwalker/bindery-panel/internal/manifest"
	"github.com/bayleafwalker/bindery-panel/internal/registry"
	"github.com/bayleafwalker/bindery-panel/internal/resolver"
	"github.com/bayleafwalker/bindery-panel/internal/view"
)

func sampleSnapshot() registry.Snapshot {
	return registry.Snapshot{
		Modules: []registry.Module{
			&registry.StaticModule{
				ModuleID:      12,
				Name:          "com.acme.reports",
				ModuleVersion: manifest.MustParseVersion("1.2.0"),
				ModuleState:   registry.StateActive,
				ModuleHeaders: manifest.Headers{
					manifest.HeaderBundleName:    "Reports",
					manifest.HeaderImportPackage: `com.acme.api;version="[1.0,2.0)", com.acme.optional;resolution:=optional`,
					DefaultExtensionHeader:       "true",
				},
				ModuleLocation:    "/Company Home/Data Dictionary/Modules/reports.jar",
				LastModifiedMilli: 1700000000000,
			},
			&registry.StaticModule{
				ModuleID:      0,
				Name:          "system.bundle",
				ModuleVersion: manifest.MustParseVersion("5.0.0"),
				ModuleState:   registry.StateActive,
				ModuleHeaders: manifest.Headers{
					manifest.HeaderBundleName:         "System Bundle",
					manifest.HeaderExportPackage:      "com.acme.api;version=1.4.0",
					manifest.HeaderBundleSymbolicName: "system.bundle",
				},
			},
			nil,
			&registry.StaticModule{
				ModuleID:    30,
				Name:        "com.acme.broken",
				ModuleState: registry.StateInstalled,
				ModuleHeaders: manifest.Headers{
					manifest.HeaderBundleName:    "Broken",
					manifest.HeaderImportPackage: `com.acme.api;version="[1.0`,
					manifest.HeaderExportPackage: "com.acme.broken.api",
				},
				ModuleLocation: "file:/opt/modules/broken.jar",
			},
		},
		Services: map[int64][]registry.ServiceReference{
			12: {
				registry.StaticServiceReference{
					registry.PropertyServiceID:   int64(101),
					registry.PropertyObjectClass: []string{"com.acme.reports.ReportService"},
				},
			},
		},
	}
}

func TestBuild_IsolatesFailuresAndSorts(t *testing.T) {
	before := testutil.ToFloat64(viewBuildErrorsTotal)

	page, err := New().Build(context.Background(), sampleSnapshot())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if len(page.Errors) != 1 || !errors.Is(page.Errors[0], view.ErrInvariantViolation) {
		t.Fatalf("expected one invariant violation, got %v", page.Errors)
	}
	if got := testutil.ToFloat64(viewBuildErrorsTotal) - before; got != 1 {
		t.Fatalf("expected view build error counter to grow by 1, got %v", got)
	}
	if got := testutil.ToFloat64(pageModules); got != 3 {
		t.Fatalf("expected page modules gauge 3, got %v", got)
	}

	want := []int64{0, 30, 12}
	if len(page.Modules) != len(want) {
		t.Fatalf("expected %d modules, got %d", len(want), len(page.Modules))
	}
	for i, id := range want {
		if page.Modules[i].ID() != id {
			t.Fatalf("module %d: got id %d, want %d", i, page.Modules[i].ID(), id)
		}
	}

	if len(page.Wiring.Diagnostics.Unparseable) != 1 || page.Wiring.Diagnostics.Unparseable[0].Module.ID != 30 {
		t.Fatalf("unexpected unparseable diagnostics %+v", page.Wiring.Diagnostics.Unparseable)
	}
	if len(page.Wiring.Diagnostics.UnresolvedOptional) != 1 {
		t.Fatalf("expected one optional unresolved import, got %+v", page.Wiring.Diagnostics.UnresolvedOptional)
	}
}

func TestFind(t *testing.T) {
	page, err := New().Build(context.Background(), sampleSnapshot())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if v, ok := Find(page, 12); !ok || v.SymbolicName() != "com.acme.reports" {
		t.Fatalf("expected module 12, got %v %v", v, ok)
	}
	if _, ok := Find(page, 99); ok {
		t.Fatalf("expected module 99 to be absent")
	}
}

func TestRecords(t *testing.T) {
	page, err := New().Build(context.Background(), sampleSnapshot())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	records := Records(page)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	reports := records[2]
	if reports.ID != 12 || !reports.Extension || !reports.Deletable || reports.Store != view.StoreRepository {
		t.Fatalf("unexpected reports record %+v", reports)
	}
	if reports.Status != "active" || reports.LastModified != "2023-11-14 22:13:20 +0000" {
		t.Fatalf("unexpected status/time %q %q", reports.Status, reports.LastModified)
	}
	if len(reports.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %+v", reports.Imports)
	}
	api := reports.Imports[0]
	if api.Package != "com.acme.api" || api.MinVersion != "1.0.0" || api.MaxVersion != "2.0.0" {
		t.Fatalf("unexpected import %+v", api)
	}
	if api.ProviderID == nil || *api.ProviderID != 0 || api.ProviderVersion != "1.4.0" {
		t.Fatalf("expected import wired to the framework module, got %+v", api)
	}
	if opt := reports.Imports[1]; !opt.Optional || opt.ProviderID != nil {
		t.Fatalf("unexpected optional import %+v", opt)
	}
	if len(reports.Services) != 1 || reports.Services[0].ServiceID != 101 {
		t.Fatalf("unexpected services %+v", reports.Services)
	}

	broken := records[1]
	if broken.ManifestError == "" || broken.Imports != nil || broken.Exports != nil {
		t.Fatalf("expected manifest error without structured lists, got %+v", broken)
	}
	if broken.ExportPackage != "com.acme.broken.api" {
		t.Fatalf("expected raw export header to survive, got %q", broken.ExportPackage)
	}
	if broken.Store != view.StoreFilesystem || broken.Deletable {
		t.Fatalf("unexpected broken record %+v", broken)
	}

	raw, err := json.Marshal(records[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"exports":[{"package":"com.acme.api","version":"1.4.0"}]`) {
		t.Fatalf("unexpected json %s", raw)
	}
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, resolver.Input) (resolver.Plan, error) {
	return resolver.Plan{}, errors.New("boom")
}

func TestBuild_ResolverFailure(t *testing.T) {
	_, err := New(WithResolver(failingResolver{})).Build(context.Background(), sampleSnapshot())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected resolver error, got %v", err)
	}
}

func TestHeaderClassifier(t *testing.T) {
	tests := []struct {
		headers manifest.Headers
		header  string
		want    bool
	}{
		{manifest.Headers{DefaultExtensionHeader: "true"}, "", true},
		{manifest.Headers{"dynamic-extension": " TRUE "}, "", true},
		{manifest.Headers{DefaultExtensionHeader: "false"}, "", false},
		{manifest.Headers{}, "", false},
		{manifest.Headers{"Alfresco-Dynamic-Extension": "true"}, "Alfresco-Dynamic-Extension", true},
	}
	for _, tt := range tests {
		c := HeaderClassifier{Header: tt.header}
		if got := c.IsExtension(&registry.StaticModule{ModuleHeaders: tt.headers}); got != tt.want {
			t.Fatalf("IsExtension(%v, %q) = %v, want %v", tt.headers, tt.header, got, tt.want)
		}
	}
}
