package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
	"sigs.k8s.io/controller-runtime/pkg/client"

	panelv1alpha1 "github.com/bayleafwalker/bindery-panel/api/v1alpha1"
)

var (
	scheme = runtime.NewScheme()
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(panelv1alpha1.AddToScheme(scheme))
}

func main() {
	var kubeconfig string
	if home := homedir.HomeDir(); home != "" {
		kubeconfig = filepath.Join(home, ".kube", "config")
	} else {
		kubeconfig = os.Getenv("KUBECONFIG")
	}
	flag.StringVar(&kubeconfig, "kubeconfig", kubeconfig, "absolute path to the kubeconfig file")

	var numModules int
	var namespace string
	var wait time.Duration

	flag.IntVar(&numModules, "modules", 10, "Number of sample modules to publish")
	flag.StringVar(&namespace, "namespace", "default", "Namespace to publish modules in")
	flag.DurationVar(&wait, "wait", 2*time.Minute, "How long to wait for each module status to be projected")
	flag.Parse()

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		log.Fatalf("Error building kubeconfig: %v", err)
	}

	k8sClient, err := client.New(config, client.Options{Scheme: scheme})
	if err != nil {
		log.Fatalf("Error creating client: %v", err)
	}

	fmt.Printf("Seeding %d modules in namespace %s\n", numModules, namespace)

	if err := k8sClient.Create(context.Background(), frameworkModule(namespace)); err != nil {
		fmt.Printf("Error creating framework module: %v\n", err)
	}

	var wg sync.WaitGroup
	start := time.Now()
	latencies := make(chan time.Duration, numModules)

	for i := 1; i <= numModules; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			im, ps := sampleModule(namespace, id)

			createStart := time.Now()
			if err := k8sClient.Create(context.Background(), im); err != nil {
				fmt.Printf("Error creating module %s: %v\n", im.Name, err)
				return
			}
			if err := k8sClient.Create(context.Background(), ps); err != nil {
				fmt.Printf("Error creating service %s: %v\n", ps.Name, err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), wait)
			defer cancel()

			for {
				select {
				case <-ctx.Done():
					fmt.Printf("Timeout waiting for module %s\n", im.Name)
					return
				case <-time.After(1 * time.Second):
					var current panelv1alpha1.InstalledModule
					if err := k8sClient.Get(ctx, client.ObjectKeyFromObject(im), &current); err != nil {
						continue
					}
					if meta.FindStatusCondition(current.Status.Conditions, panelv1alpha1.ConditionManifestParsed) != nil {
						latency := time.Since(createStart)
						latencies <- latency
						fmt.Printf("Module %s projected in %v (phase=%s store=%s)\n", im.Name, latency, current.Status.Phase, current.Status.Store)
						return
					}
				}
			}
		}(i)
	}

	wg.Wait()
	close(latencies)
	totalDuration := time.Since(start)

	var totalLatency time.Duration
	count := 0
	for l := range latencies {
		totalLatency += l
		count++
	}

	if count > 0 {
		fmt.Printf("Seeding completed in %v. Avg projection latency: %v\n", totalDuration, totalLatency/time.Duration(count))
	} else {
		fmt.Printf("Seeding completed in %v. No module status was projected.\n", totalDuration)
	}
}

func frameworkModule(namespace string) *panelv1alpha1.InstalledModule {
	return &panelv1alpha1.InstalledModule{
		ObjectMeta: metav1.ObjectMeta{Name: "system-bundle", Namespace: namespace},
		Spec: panelv1alpha1.InstalledModuleSpec{
			ModuleID:     0,
			SymbolicName: "system.bundle",
			Version:      "1.0.0",
			State:        panelv1alpha1.ModuleStateActive,
			Headers: map[string]string{
				"Bundle-Name":    "System Bundle",
				"Export-Package": `com.acme.api;version="1.4.0", com.acme.spi;version="1.0.0"`,
			},
		},
	}
}

// sampleModule alternates between repository and filesystem origins; every fifth module
// carries a broken Import-Package header.
func sampleModule(namespace string, id int) (*panelv1alpha1.InstalledModule, *panelv1alpha1.PublishedService) {
	name := fmt.Sprintf("seed-module-%d", id)
	location := fmt.Sprintf("/Company Home/Data Dictionary/Modules/%s.jar", name)
	if id%2 == 0 {
		location = fmt.Sprintf("file:/opt/modules/%s.jar", name)
	}
	imports := `com.acme.api;version="[1.0,2.0)", com.acme.optional;resolution:=optional`
	if id%5 == 0 {
		imports = `com.acme.api;version="[1.0`
	}

	im := &panelv1alpha1.InstalledModule{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: panelv1alpha1.InstalledModuleSpec{
			ModuleID:     int64(id),
			SymbolicName: fmt.Sprintf("com.acme.seed%d", id),
			Version:      fmt.Sprintf("1.%d.0", id),
			State:        panelv1alpha1.ModuleStateActive,
			Location:     location,
			LastModified: time.Now().UnixMilli(),
			Headers: map[string]string{
				"Bundle-Name":        fmt.Sprintf("Seed Module %d", id),
				"Bundle-Description": "Sample module published by module-seed",
				"Import-Package":     imports,
				"Export-Package":     fmt.Sprintf("com.acme.seed%d.api;version=1.%d.0", id, id),
				"Dynamic-Extension":  "true",
			},
		},
	}
	ps := &panelv1alpha1.PublishedService{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name + "-svc",
			Namespace: namespace,
			Labels:    map[string]string{panelv1alpha1.ModuleLabel: name},
		},
		Spec: panelv1alpha1.PublishedServiceSpec{
			ModuleRef:   panelv1alpha1.ObjectRef{Name: name},
			ServiceID:   int64(1000 + id),
			ObjectClass: []string{fmt.Sprintf("com.acme.seed%d.api.SeedService", id)},
			Ranking:     int32(id % 3),
			Properties:  map[string]string{"vendor": "acme"},
		},
	}
	return im, ps
}
