package v1alpha1

// ModuleLabel carries the name of the InstalledModule a PublishedService belongs to, so
// services can be listed per module.
const ModuleLabel = "bindery.platform/module"

// Condition types set on InstalledModule status.
const (
	ConditionManifestParsed = "ManifestParsed"
)

// ModuleState is the runtime lifecycle state name, e.g. "ACTIVE".
//
// +kubebuilder:validation:Enum=UNINSTALLED;INSTALLED;RESOLVED;STARTING;STOPPING;ACTIVE
type ModuleState string

const (
	ModuleStateUninstalled ModuleState = "UNINSTALLED"
	ModuleStateInstalled   ModuleState = "INSTALLED"
	ModuleStateResolved    ModuleState = "RESOLVED"
	ModuleStateStarting    ModuleState = "STARTING"
	ModuleStateStopping    ModuleState = "STOPPING"
	ModuleStateActive      ModuleState = "ACTIVE"
)

type ObjectRef struct {
	Name string `json:"name"`
}
