package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PublishedService mirrors one service registered by a module.
//
// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Namespaced,shortName=ps
// +kubebuilder:printcolumn:name="Module",type=string,JSONPath=`.spec.moduleRef.name`
// +kubebuilder:printcolumn:name="Service",type=integer,JSONPath=`.spec.serviceId`
// +kubebuilder:printcolumn:name="Ranking",type=integer,JSONPath=`.spec.ranking`
type PublishedService struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec PublishedServiceSpec `json:"spec"`
}

type PublishedServiceSpec struct {
	// ModuleRef names the InstalledModule that registered the service.
	ModuleRef   ObjectRef `json:"moduleRef"`
	ServiceID   int64     `json:"serviceId"`
	ObjectClass []string  `json:"objectClass,omitempty"`
	Ranking     int32     `json:"ranking,omitempty"`
	// Properties holds the remaining service properties in display form.
	Properties map[string]string `json:"properties,omitempty"`
}

// +kubebuilder:object:root=true
type PublishedServiceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []PublishedService `json:"items"`
}

func init() {
	SchemeBuilder.Register(&PublishedService{}, &PublishedServiceList{})
}
