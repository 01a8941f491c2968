// Package presenter turns registry snapshots into sorted, wired module pages and flat records
// for renderers.
package presenter

import (
	"context"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/bayleafwalker/bindery-panel/internal/registry"
	"github.com/bayleafwalker/bindery-panel/internal/resolver"
	"github.com/bayleafwalker/bindery-panel/internal/view"
)

// Presenter builds module pages.
type Presenter struct {
	classifier view.ExtensionClassifier
	resolver   resolver.Resolver
}

type Option func(*Presenter)

// WithClassifier sets the predicate behind ModuleView.IsExtension.
func WithClassifier(c view.ExtensionClassifier) Option {
	return func(p *Presenter) { p.classifier = c }
}

// WithResolver replaces the import wiring resolver.
func WithResolver(r resolver.Resolver) Option {
	return func(p *Presenter) { p.resolver = r }
}

func New(opts ...Option) *Presenter {
	p := &Presenter{
		classifier: HeaderClassifier{Header: DefaultExtensionHeader},
		resolver:   resolver.NewDefault(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Page is one rendered listing of a snapshot.
type Page struct {
	// Modules are sorted for display.
	Modules []*view.ModuleView
	Wiring  resolver.Plan
	// Errors holds modules that could not be turned into views; the rest of the page is unaffected.
	Errors []error
}

// Build creates a view per module, sorts them and wires their imports.
func (p *Presenter) Build(ctx context.Context, snap registry.Snapshot) (Page, error) {
	logger := log.FromContext(ctx)
	start := time.Now()
	defer func() { pageBuildDuration.Observe(time.Since(start).Seconds()) }()

	page := Page{Modules: make([]*view.ModuleView, 0, len(snap.Modules))}
	for i, m := range snap.Modules {
		v, err := view.New(m, snap.ServicesFor(moduleID(m)), view.WithClassifier(p.classifier))
		if err != nil {
			viewBuildErrorsTotal.Inc()
			page.Errors = append(page.Errors, fmt.Errorf("snapshot entry %d: %w", i, err))
			logger.Info("skipping module", "index", i, "error", err.Error())
			continue
		}
		page.Modules = append(page.Modules, v)
	}
	view.Sort(page.Modules)

	plan, err := p.resolver.Resolve(ctx, resolver.Input{Modules: page.Modules})
	if err != nil {
		return Page{}, fmt.Errorf("wire imports: %w", err)
	}
	page.Wiring = plan

	pageModules.Set(float64(len(page.Modules)))
	unresolvedImports.WithLabelValues("required").Set(float64(len(plan.Diagnostics.UnresolvedRequired)))
	unresolvedImports.WithLabelValues("optional").Set(float64(len(plan.Diagnostics.UnresolvedOptional)))

	logger.V(1).Info("built module page",
		"modules", len(page.Modules),
		"wires", len(plan.Wires),
		"unresolvedRequired", len(plan.Diagnostics.UnresolvedRequired),
		"unparseable", len(plan.Diagnostics.Unparseable),
	)
	return page, nil
}

// Find returns the view of the module with the given id.
func Find(page Page, id int64) (*view.ModuleView, bool) {
	for _, v := range page.Modules {
		if v.ID() == id {
			return v, true
		}
	}
	return nil, false
}

// moduleID tolerates nil entries so view.New can report them.
func moduleID(m registry.Module) int64 {
	if m == nil {
		return -1
	}
	return m.ID()
}
