package validation

import (
	"fmt"

	"github.com/reglet-dev/reglet-traitcast/manifest"
)

// Verifier implements ManifestVerifier against an EntryLister.
type Verifier struct {
	entries EntryLister
}

// NewVerifier creates a Verifier over the given registry.
func NewVerifier(entries EntryLister) *Verifier {
	return &Verifier{entries: entries}
}

type pair struct {
	typeName       string
	capabilityName string
}

// Verify returns an error for an invalid manifest or a registry that failed
// to build. Unmet expectations and forbidden registrations are reported in
// the Result.
func (v *Verifier) Verify(m *manifest.Manifest) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("manifest is nil")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if err := v.entries.Build(); err != nil {
		return nil, fmt.Errorf("registry build failed: %w", err)
	}

	entries := v.entries.Entries()
	registered := make(map[pair]string, len(entries))
	for _, e := range entries {
		registered[pair{manifest.TypeName(e.Concrete), manifest.TypeName(e.Capability)}] = e.Site
	}

	var errs []string

	for _, exp := range m.Expect {
		for _, capName := range exp.Capabilities {
			if _, ok := registered[pair{exp.Type, capName}]; !ok {
				errs = append(errs, fmt.Sprintf("%s is not registered for %s", exp.Type, capName))
			}
		}
	}

	// Walk entries in registry order so reports are stable.
	for _, e := range entries {
		typeName := manifest.TypeName(e.Concrete)
		capName := manifest.TypeName(e.Capability)
		for _, p := range m.Forbid {
			if p.Matches(typeName, capName) {
				errs = append(errs, fmt.Sprintf("%s is registered for %s at %s, forbidden by %q -> %q",
					typeName, capName, e.Site, p.Type, p.Capability))
				break
			}
		}
	}

	return newResult(errs), nil
}
