// Package kubesource reads registry snapshots from InstalledModule and PublishedService objects.
package kubesource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	panelv1alpha1 "github.com/bayleafwalker/bindery-panel/api/v1alpha1"
	"github.com/bayleafwalker/bindery-panel/internal/manifest"
	"github.com/bayleafwalker/bindery-panel/internal/registry"
)

// Source implements registry.Source on top of a controller-runtime reader.
type Source struct {
	Reader client.Reader
}

var _ registry.Source = Source{}

// ErrNamespaceRequired is returned for snapshots of no particular namespace. Module ids are
// only unique within one namespace, so a snapshot never spans several.
var ErrNamespaceRequired = errors.New("kubesource: namespace is required")

// Snapshot lists every module and service in namespace.
func (s Source) Snapshot(ctx context.Context, namespace string) (registry.Snapshot, error) {
	if namespace == "" {
		return registry.Snapshot{}, ErrNamespaceRequired
	}
	var modules panelv1alpha1.InstalledModuleList
	if err := s.Reader.List(ctx, &modules, client.InNamespace(namespace)); err != nil {
		return registry.Snapshot{}, fmt.Errorf("list installed modules: %w", err)
	}
	var services panelv1alpha1.PublishedServiceList
	if err := s.Reader.List(ctx, &services, client.InNamespace(namespace)); err != nil {
		return registry.Snapshot{}, fmt.Errorf("list published services: %w", err)
	}

	sort.Slice(modules.Items, func(i, j int) bool {
		return modules.Items[i].Spec.ModuleID < modules.Items[j].Spec.ModuleID
	})

	snap := registry.Snapshot{
		Modules:  make([]registry.Module, 0, len(modules.Items)),
		Services: make(map[int64][]registry.ServiceReference),
	}
	idByName := make(map[client.ObjectKey]int64, len(modules.Items))
	for i := range modules.Items {
		im := &modules.Items[i]
		snap.Modules = append(snap.Modules, ToModule(ctx, im))
		idByName[client.ObjectKeyFromObject(im)] = im.Spec.ModuleID
	}

	for i := range services.Items {
		ps := &services.Items[i]
		id, ok := idByName[ModuleKey(ps)]
		if !ok {
			log.FromContext(ctx).V(1).Info("ignoring service of unknown module",
				"service", client.ObjectKeyFromObject(ps), "module", ps.Spec.ModuleRef.Name)
			continue
		}
		snap.Services[id] = append(snap.Services[id], ToServiceReference(ps))
	}
	return snap, nil
}

// ServicesOf lists the services published by the module with the given key.
func (s Source) ServicesOf(ctx context.Context, key client.ObjectKey) ([]registry.ServiceReference, error) {
	var services panelv1alpha1.PublishedServiceList
	if err := s.Reader.List(ctx, &services, client.InNamespace(key.Namespace)); err != nil {
		return nil, fmt.Errorf("list published services: %w", err)
	}

	refs := make([]registry.ServiceReference, 0)
	for i := range services.Items {
		if ModuleKey(&services.Items[i]) != key {
			continue
		}
		refs = append(refs, ToServiceReference(&services.Items[i]))
	}
	return refs, nil
}

// ModuleKey returns the key of the InstalledModule a service belongs to. The module
// label wins over spec.moduleRef.
func ModuleKey(ps *panelv1alpha1.PublishedService) client.ObjectKey {
	name := ps.Spec.ModuleRef.Name
	if l := ps.Labels[panelv1alpha1.ModuleLabel]; l != "" {
		name = l
	}
	return client.ObjectKey{Namespace: ps.Namespace, Name: name}
}

// ToModule converts an InstalledModule. An unparseable version degrades to 0.0.0.
func ToModule(ctx context.Context, im *panelv1alpha1.InstalledModule) *registry.StaticModule {
	v, err := manifest.ParseVersion(im.Spec.Version)
	if err != nil {
		log.FromContext(ctx).Info("invalid module version, using 0.0.0",
			"module", client.ObjectKeyFromObject(im), "version", im.Spec.Version, "error", err.Error())
		v = manifest.EmptyVersion
	}
	headers := make(manifest.Headers, len(im.Spec.Headers))
	for k, val := range im.Spec.Headers {
		headers[k] = val
	}
	return &registry.StaticModule{
		ModuleID:          im.Spec.ModuleID,
		Name:              im.Spec.SymbolicName,
		ModuleVersion:     v,
		ModuleState:       registry.ParseState(string(im.Spec.State)),
		ModuleHeaders:     headers,
		ModuleLocation:    im.Spec.Location,
		LastModifiedMilli: im.Spec.LastModified,
	}
}

// ToServiceReference converts a PublishedService. Free-form properties in canonical integer
// form are exposed as int64; anything else, such as "007" or "+5", stays a string.
func ToServiceReference(ps *panelv1alpha1.PublishedService) registry.StaticServiceReference {
	ref := registry.StaticServiceReference{}
	for k, v := range ps.Spec.Properties {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && strconv.FormatInt(n, 10) == v {
			ref[k] = n
			continue
		}
		ref[k] = v
	}
	ref[registry.PropertyServiceID] = ps.Spec.ServiceID
	if len(ps.Spec.ObjectClass) > 0 {
		ref[registry.PropertyObjectClass] = append([]string(nil), ps.Spec.ObjectClass...)
	}
	ref[registry.PropertyServiceRanking] = int64(ps.Spec.Ranking)
	return ref
}
