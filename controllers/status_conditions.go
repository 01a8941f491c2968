package controllers

import (
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	panelv1alpha1 "github.com/bayleafwalker/bindery-panel/api/v1alpha1"
)

const (
	ReasonManifestParsed     = "Parsed"
	ReasonManifestParseError = "ManifestParseError"
)

func setModuleCondition(m *panelv1alpha1.InstalledModule, condition metav1.Condition) {
	if m == nil {
		return
	}
	condition.ObservedGeneration = m.Generation
	meta.SetStatusCondition(&m.Status.Conditions, condition)
}
