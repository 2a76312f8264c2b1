// Package validation checks manifest documents against their schema and
// verifies a built registry against a manifest.
package validation

import (
	"github.com/reglet-dev/reglet-traitcast/manifest"
	"github.com/reglet-dev/reglet-traitcast/registry"
)

// ManifestVerifier verifies a registry against a manifest.
type ManifestVerifier interface {
	// Verify checks that expected declarations are registered and forbidden
	// ones are not.
	Verify(m *manifest.Manifest) (*Result, error)
}

// EntryLister builds and lists registered pairs. *registry.Registry
// satisfies it.
type EntryLister interface {
	Build() error
	Entries() []registry.Entry
}

// Result is the outcome of a validation or verification.
type Result struct {
	Errors []string
	Valid  bool
}

func newResult(errs []string) *Result {
	return &Result{Valid: len(errs) == 0, Errors: errs}
}
