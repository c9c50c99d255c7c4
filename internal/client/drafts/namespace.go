package drafts

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/formdraft/internal/common"
)

// Namespace is the storage key a store keeps its collection under.
type Namespace string

const (
	NamespaceCorrectiveAction Namespace = "corrective-action-draft"
	NamespaceFormData         Namespace = "form-data-draft"
)

// Namespaces lists the known namespaces.
func Namespaces() []Namespace {
	return []Namespace{NamespaceFormData, NamespaceCorrectiveAction}
}

// ParseNamespace accepts a full namespace key or its short form without the
// "-draft" suffix.
func ParseNamespace(s string) (Namespace, error) {
	s = strings.TrimSpace(s)
	for _, ns := range Namespaces() {
		if s == string(ns) || s+"-draft" == string(ns) {
			return ns, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownNamespace, s)
}

func (n Namespace) String() string {
	return string(n)
}
