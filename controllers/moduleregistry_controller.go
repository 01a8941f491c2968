package controllers

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	panelv1alpha1 "github.com/bayleafwalker/bindery-panel/api/v1alpha1"
	"github.com/bayleafwalker/bindery-panel/internal/kubesource"
	"github.com/bayleafwalker/bindery-panel/internal/view"
)

const controllerName = "ModuleRegistry"

// ModuleRegistryReconciler projects the display view of each InstalledModule into its status.
//
// RBAC:
// +kubebuilder:rbac:groups=bindery.platform,resources=installedmodules,verbs=get;list;watch
// +kubebuilder:rbac:groups=bindery.platform,resources=installedmodules/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=bindery.platform,resources=publishedservices,verbs=get;list;watch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch;update
type ModuleRegistryReconciler struct {
	client.Client
	Scheme     *runtime.Scheme
	Recorder   record.EventRecorder
	Classifier view.ExtensionClassifier
}

func (r *ModuleRegistryReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	binderyControllerReconcileTotal.WithLabelValues(controllerName).Inc()

	logger := log.FromContext(ctx).WithValues(
		"controller", controllerName,
		"namespace", req.Namespace,
		"module", req.Name,
	)

	var im panelv1alpha1.InstalledModule
	if err := r.Get(ctx, req.NamespacedName, &im); err != nil {
		if client.IgnoreNotFound(err) == nil {
			return ctrl.Result{}, nil
		}
		binderyControllerReconcileErrorTotal.WithLabelValues(controllerName).Inc()
		return ctrl.Result{}, err
	}

	start := time.Now()
	refs, err := kubesource.Source{Reader: r.Client}.ServicesOf(ctx, req.NamespacedName)
	if err != nil {
		logger.Error(err, "failed to list module services")
		binderyControllerReconcileErrorTotal.WithLabelValues(controllerName).Inc()
		return ctrl.Result{}, err
	}
	v, err := view.New(kubesource.ToModule(ctx, &im), refs, view.WithClassifier(r.Classifier))
	if err != nil {
		binderyControllerReconcileErrorTotal.WithLabelValues(controllerName).Inc()
		return ctrl.Result{}, err
	}

	before := im.DeepCopy()
	parseErr := projectStatus(&im, v)
	moduleRegistryViewBuildDuration.Observe(time.Since(start).Seconds())

	if parseErr != nil {
		moduleRegistryManifestParseFailuresTotal.Inc()
		logger.Info("module manifest does not parse", "error", parseErr.Error())
		r.recordEventf(&im, corev1.EventTypeWarning, ReasonManifestParseError, "%v", parseErr)
	}

	if err := r.Status().Patch(ctx, &im, client.MergeFrom(before)); err != nil {
		logger.Error(err, "failed to patch module status")
		binderyControllerReconcileErrorTotal.WithLabelValues(controllerName).Inc()
		return ctrl.Result{}, err
	}

	logger.V(1).Info("projected module view",
		"phase", im.Status.Phase,
		"store", im.Status.Store,
		"imports", im.Status.ImportCount,
		"exports", im.Status.ExportCount,
		"services", im.Status.ServiceCount,
	)
	return ctrl.Result{}, nil
}

// projectStatus writes the view's display fields into the module status and returns the
// manifest parse error, if any.
func projectStatus(im *panelv1alpha1.InstalledModule, v *view.ModuleView) error {
	im.Status.ObservedGeneration = im.Generation
	im.Status.Phase, _ = v.Status()
	im.Status.Store = v.Store()
	im.Status.Deletable = v.IsDeletable()
	im.Status.Extension = v.IsExtension()
	im.Status.Fragment = v.IsFragment()
	im.Status.LastModified, _ = v.LastModifiedDisplay()
	im.Status.ServiceCount = int32(len(v.CapabilityBindings()))

	imports, err := v.ImportedCapabilities()
	if err != nil {
		im.Status.ImportCount = 0
		im.Status.ExportCount = 0
		setModuleCondition(im, metav1.Condition{
			Type:    panelv1alpha1.ConditionManifestParsed,
			Status:  metav1.ConditionFalse,
			Reason:  ReasonManifestParseError,
			Message: err.Error(),
		})
		return err
	}
	exports, err := v.ExportedCapabilities()
	if err != nil {
		return err
	}
	im.Status.ImportCount = int32(len(imports))
	im.Status.ExportCount = int32(len(exports))
	setModuleCondition(im, metav1.Condition{
		Type:    panelv1alpha1.ConditionManifestParsed,
		Status:  metav1.ConditionTrue,
		Reason:  ReasonManifestParsed,
		Message: fmt.Sprintf("%d imports, %d exports", len(imports), len(exports)),
	})
	return nil
}

func (r *ModuleRegistryReconciler) recordEventf(obj client.Object, eventType, reason, messageFmt string, args ...any) {
	if r.Recorder == nil || obj == nil {
		return
	}
	r.Recorder.Eventf(obj, eventType, reason, messageFmt, args...)
}

func (r *ModuleRegistryReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&panelv1alpha1.InstalledModule{}, builder.WithPredicates(predicate.GenerationChangedPredicate{})).
		Watches(
			&panelv1alpha1.PublishedService{},
			handler.EnqueueRequestsFromMapFunc(enqueueModuleForService),
		).
		Complete(r)
}

// enqueueModuleForService maps a PublishedService to the InstalledModule that registered it.
func enqueueModuleForService(ctx context.Context, obj client.Object) []reconcile.Request {
	ps, ok := obj.(*panelv1alpha1.PublishedService)
	if !ok {
		return nil
	}
	key := kubesource.ModuleKey(ps)
	if key.Name == "" {
		return nil
	}
	return []reconcile.Request{{NamespacedName: key}}
}
