package controllers

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	panelv1alpha1 "github.com/bayleafwalker/bindery-panel/api/v1alpha1"
	"github.com/bayleafwalker/bindery-panel/internal/presenter"
	"github.com/bayleafwalker/bindery-panel/internal/view"
)

func newTestReconciler(t *testing.T, objs ...client.Object) (*ModuleRegistryReconciler, client.Client, *record.FakeRecorder) {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := panelv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("AddToScheme: %v", err)
	}
	cl := fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(objs...).
		WithStatusSubresource(&panelv1alpha1.InstalledModule{}).
		Build()
	rec := record.NewFakeRecorder(10)
	return &ModuleRegistryReconciler{
		Client:     cl,
		Scheme:     scheme,
		Recorder:   rec,
		Classifier: presenter.HeaderClassifier{},
	}, cl, rec
}

func reportsModule(imports string) *panelv1alpha1.InstalledModule {
	return &panelv1alpha1.InstalledModule{
		ObjectMeta: metav1.ObjectMeta{Name: "reports", Namespace: "panel", Generation: 2},
		Spec: panelv1alpha1.InstalledModuleSpec{
			ModuleID:     12,
			SymbolicName: "com.acme.reports",
			Version:      "1.2.0",
			State:        panelv1alpha1.ModuleStateActive,
			Location:     "/Company Home/Modules/reports.jar",
			LastModified: 1700000000000,
			Headers: map[string]string{
				"Bundle-Name":       "Reports",
				"Import-Package":    imports,
				"Export-Package":    "com.acme.reports.api;version=1.2",
				"Dynamic-Extension": "true",
			},
		},
	}
}

func TestModuleRegistryReconcile_ProjectsStatus(t *testing.T) {
	ctx := context.Background()
	svc := &panelv1alpha1.PublishedService{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "reports-svc",
			Namespace: "panel",
			Labels:    map[string]string{panelv1alpha1.ModuleLabel: "reports"},
		},
		Spec: panelv1alpha1.PublishedServiceSpec{ModuleRef: panelv1alpha1.ObjectRef{Name: "reports"}, ServiceID: 101},
	}
	r, cl, rec := newTestReconciler(t, reportsModule(`com.acme.api;version="[1.0,2.0)", com.acme.spi`), svc)

	if _, err := r.Reconcile(ctx, ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "panel", Name: "reports"}}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	var got panelv1alpha1.InstalledModule
	if err := cl.Get(ctx, types.NamespacedName{Namespace: "panel", Name: "reports"}, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	st := got.Status
	if st.Phase != "active" || st.Store != view.StoreRepository || !st.Deletable || !st.Extension || st.Fragment {
		t.Fatalf("unexpected status %+v", st)
	}
	if st.ImportCount != 2 || st.ExportCount != 1 || st.ServiceCount != 1 {
		t.Fatalf("unexpected counts %+v", st)
	}
	if st.LastModified != "2023-11-14 22:13:20 +0000" {
		t.Fatalf("unexpected last modified %q", st.LastModified)
	}
	if st.ObservedGeneration != got.Generation {
		t.Fatalf("unexpected observed generation %d, want %d", st.ObservedGeneration, got.Generation)
	}
	if !meta.IsStatusConditionTrue(st.Conditions, panelv1alpha1.ConditionManifestParsed) {
		t.Fatalf("expected ManifestParsed=True, got %+v", st.Conditions)
	}
	select {
	case e := <-rec.Events:
		t.Fatalf("unexpected event %q", e)
	default:
	}
}

func TestModuleRegistryReconcile_ManifestParseError(t *testing.T) {
	ctx := context.Background()
	r, cl, rec := newTestReconciler(t, reportsModule(`com.acme.api;version="[1.0`))
	before := testutil.ToFloat64(moduleRegistryManifestParseFailuresTotal)

	if _, err := r.Reconcile(ctx, ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "panel", Name: "reports"}}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	var got panelv1alpha1.InstalledModule
	if err := cl.Get(ctx, types.NamespacedName{Namespace: "panel", Name: "reports"}, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	cond := meta.FindStatusCondition(got.Status.Conditions, panelv1alpha1.ConditionManifestParsed)
	if cond == nil || cond.Status != metav1.ConditionFalse || cond.Reason != ReasonManifestParseError {
		t.Fatalf("expected ManifestParsed=False, got %+v", cond)
	}
	if got.Status.ImportCount != 0 || got.Status.ExportCount != 0 {
		t.Fatalf("expected no counts for a broken manifest, got %+v", got.Status)
	}
	// Display fields that do not depend on the manifest are still projected.
	if got.Status.Phase != "active" || got.Status.Store != view.StoreRepository {
		t.Fatalf("unexpected status %+v", got.Status)
	}

	select {
	case e := <-rec.Events:
		if !strings.HasPrefix(e, "Warning "+ReasonManifestParseError) {
			t.Fatalf("unexpected event %q", e)
		}
	default:
		t.Fatalf("expected a warning event")
	}
	if got := testutil.ToFloat64(moduleRegistryManifestParseFailuresTotal) - before; got != 1 {
		t.Fatalf("expected parse failure counter to grow by 1, got %v", got)
	}
}

func TestModuleRegistryReconcile_ReadsModuleOnce(t *testing.T) {
	ctx := context.Background()
	scheme := runtime.NewScheme()
	if err := panelv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("AddToScheme: %v", err)
	}
	gets := 0
	cl := fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(reportsModule("com.acme.api")).
		WithStatusSubresource(&panelv1alpha1.InstalledModule{}).
		WithInterceptorFuncs(interceptor.Funcs{
			Get: func(ctx context.Context, c client.WithWatch, key client.ObjectKey, obj client.Object, opts ...client.GetOption) error {
				if _, ok := obj.(*panelv1alpha1.InstalledModule); ok {
					gets++
				}
				return c.Get(ctx, key, obj, opts...)
			},
		}).
		Build()
	r := &ModuleRegistryReconciler{Client: cl, Scheme: scheme, Recorder: record.NewFakeRecorder(10)}

	if _, err := r.Reconcile(ctx, ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "panel", Name: "reports"}}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if gets != 1 {
		t.Fatalf("expected the module to be read once per reconcile, got %d reads", gets)
	}
}

func TestModuleRegistryReconcile_NotFound(t *testing.T) {
	r, _, _ := newTestReconciler(t)
	res, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "panel", Name: "gone"}})
	if err != nil || res.Requeue {
		t.Fatalf("expected a quiet no-op, got %+v %v", res, err)
	}
}

func TestEnqueueModuleForService(t *testing.T) {
	ps := &panelv1alpha1.PublishedService{
		ObjectMeta: metav1.ObjectMeta{Name: "svc", Namespace: "panel"},
		Spec:       panelv1alpha1.PublishedServiceSpec{ModuleRef: panelv1alpha1.ObjectRef{Name: "reports"}},
	}
	reqs := enqueueModuleForService(context.Background(), ps)
	if len(reqs) != 1 || reqs[0].Namespace != "panel" || reqs[0].Name != "reports" {
		t.Fatalf("unexpected requests %+v", reqs)
	}

	if reqs := enqueueModuleForService(context.Background(), &panelv1alpha1.PublishedService{}); len(reqs) != 0 {
		t.Fatalf("expected no requests without a module, got %+v", reqs)
	}
	if reqs := enqueueModuleForService(context.Background(), &panelv1alpha1.InstalledModule{}); len(reqs) != 0 {
		t.Fatalf("expected no requests for other kinds, got %+v", reqs)
	}
}
