package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// InstalledModule mirrors one module loaded by the runtime.
//
// The runtime owns the spec; the panel controller owns the status.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=im
// +kubebuilder:printcolumn:name="ID",type=integer,JSONPath=`.spec.moduleId`
// +kubebuilder:printcolumn:name="Module",type=string,JSONPath=`.spec.symbolicName`
// +kubebuilder:printcolumn:name="Version",type=string,JSONPath=`.spec.version`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Store",type=string,JSONPath=`.status.store`
type InstalledModule struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   InstalledModuleSpec   `json:"spec"`
	Status InstalledModuleStatus `json:"status,omitempty"`
}

type InstalledModuleSpec struct {
	// ModuleID is the runtime-assigned id; 0 is the framework module.
	// +kubebuilder:validation:Minimum=0
	ModuleID     int64       `json:"moduleId"`
	SymbolicName string      `json:"symbolicName"`
	Version      string      `json:"version,omitempty"`
	State        ModuleState `json:"state,omitempty"`
	// Location is the origin the module was installed from.
	Location string `json:"location,omitempty"`
	// LastModified is in epoch milliseconds; 0 means unknown.
	LastModified int64 `json:"lastModified,omitempty"`
	// Headers are the raw manifest headers.
	Headers map[string]string `json:"headers,omitempty"`
}

type InstalledModuleStatus struct {
	ObservedGeneration int64  `json:"observedGeneration,omitempty"`
	Phase              string `json:"phase,omitempty"`
	Store              string `json:"store,omitempty"`
	Deletable          bool   `json:"deletable,omitempty"`
	Extension          bool   `json:"extension,omitempty"`
	Fragment           bool   `json:"fragment,omitempty"`
	LastModified       string `json:"lastModified,omitempty"`
	ImportCount        int32  `json:"importCount,omitempty"`
	ExportCount        int32  `json:"exportCount,omitempty"`
	ServiceCount       int32  `json:"serviceCount,omitempty"`

	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
type InstalledModuleList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []InstalledModule `json:"items"`
}

func init() {
	SchemeBuilder.Register(&InstalledModule{}, &InstalledModuleList{})
}
