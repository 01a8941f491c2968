package main

import (
	"flag"
	"os"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	panelv1alpha1 "github.com/bayleafwalker/bindery-panel/api/v1alpha1"
	"github.com/bayleafwalker/bindery-panel/controllers"
	"github.com/bayleafwalker/bindery-panel/internal/kubesource"
	"github.com/bayleafwalker/bindery-panel/internal/panelrpc"
	"github.com/bayleafwalker/bindery-panel/internal/presenter"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(panelv1alpha1.AddToScheme(scheme))
}

func main() {
	var metricsAddr string
	var probeAddr string
	var grpcAddr string
	var namespace string
	var extensionHeader string
	var enableLeaderElection bool

	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8080", "The address the metric endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.StringVar(&grpcAddr, "grpc-bind-address", ":9090", "The address the module panel gRPC service binds to.")
	flag.StringVar(&namespace, "namespace", "", "Namespace to watch and serve by default. Empty watches all namespaces and serves \"default\" when a request names none.")
	flag.StringVar(&extensionHeader, "extension-header", presenter.DefaultExtensionHeader, "Manifest header that marks dynamic extensions.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", false, "Enable leader election for controller manager.")

	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	cacheOpts := cache.Options{}
	if namespace != "" {
		cacheOpts.DefaultNamespaces = map[string]cache.Config{namespace: {}}
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: metricsAddr},
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "moduleregistry.bindery.platform",
		Cache:                  cacheOpts,
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	classifier := presenter.HeaderClassifier{Header: extensionHeader}

	// Pages cover one namespace; without a watch namespace, clients pick one or get "default".
	panelNamespace := namespace
	if panelNamespace == "" {
		panelNamespace = "default"
	}

	if err := (&controllers.ModuleRegistryReconciler{
		Client:     mgr.GetClient(),
		Scheme:     mgr.GetScheme(),
		Recorder:   mgr.GetEventRecorderFor("ModuleRegistry"),
		Classifier: classifier,
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "ModuleRegistry")
		os.Exit(1)
	}

	if err := mgr.Add(&panelrpc.Runnable{
		Addr: grpcAddr,
		Server: &panelrpc.Server{
			Source:    kubesource.Source{Reader: mgr.GetClient()},
			Presenter: presenter.New(presenter.WithClassifier(classifier)),
			Namespace: panelNamespace,
		},
	}); err != nil {
		setupLog.Error(err, "unable to add module panel service")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
