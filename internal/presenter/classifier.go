package presenter

import (
	"strings"

	"github.com/bayleafwalker/bindery-panel/internal/registry"
)

// DefaultExtensionHeader is the manifest header that marks dynamic extensions.
const DefaultExtensionHeader = "Dynamic-Extension"

// HeaderClassifier treats a module as a dynamic extension when its manifest sets Header to "true".
type HeaderClassifier struct {
	Header string
}

func (c HeaderClassifier) IsExtension(m registry.Module) bool {
	name := c.Header
	if name == "" {
		name = DefaultExtensionHeader
	}
	v, ok := m.Headers().Get(name)
	return ok && strings.EqualFold(strings.TrimSpace(v), "true")
}
