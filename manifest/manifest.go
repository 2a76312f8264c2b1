// Package manifest describes which capability declarations a program expects
// to find in its registry, and which it forbids.
package manifest

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
)

// SupportedVersions is the manifest format constraint this package reads.
const SupportedVersions = "^1.0"

// Sentinel errors for manifest validation.
var (
	// ErrUnsupportedVersion is returned for manifests outside SupportedVersions.
	ErrUnsupportedVersion = errors.New("unsupported manifest version")

	// ErrInvalidPattern is returned for malformed glob patterns.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// Manifest lists expected and forbidden capability declarations.
type Manifest struct {
	Version string        `yaml:"version" json:"version" jsonschema:"description=Manifest format version,example=1.0.0"`
	Expect  []Expectation `yaml:"expect,omitempty" json:"expect,omitempty" jsonschema:"description=Declarations that must be registered"`
	Forbid  []Prohibition `yaml:"forbid,omitempty" json:"forbid,omitempty" jsonschema:"description=Declarations that must not be registered"`
}

// Expectation requires Type to be registered for every listed capability.
// Names are exact; see TypeName.
type Expectation struct {
	Type         string   `yaml:"type" json:"type" jsonschema:"minLength=1"`
	Capabilities []string `yaml:"capabilities" json:"capabilities" jsonschema:"minItems=1"`
}

// Prohibition rejects any registered pair whose names match both patterns.
// Patterns use doublestar syntax with "/" as the separator.
type Prohibition struct {
	Type       string `yaml:"type" json:"type" jsonschema:"minLength=1"`
	Capability string `yaml:"capability" json:"capability" jsonschema:"minLength=1"`
}

// Matches reports whether the prohibition covers the named pair.
func (p Prohibition) Matches(typeName, capabilityName string) bool {
	typeOK, err := doublestar.Match(p.Type, typeName)
	if err != nil || !typeOK {
		return false
	}
	capOK, err := doublestar.Match(p.Capability, capabilityName)
	return err == nil && capOK
}

// CheckVersion verifies the manifest version satisfies SupportedVersions.
func (m *Manifest) CheckVersion() error {
	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, m.Version, err)
	}

	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", SupportedVersions, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v.Original(), SupportedVersions)
	}
	return nil
}

// Validate checks the version and every prohibition pattern.
func (m *Manifest) Validate() error {
	if err := m.CheckVersion(); err != nil {
		return err
	}

	for i, p := range m.Forbid {
		if !doublestar.ValidatePattern(p.Type) {
			return fmt.Errorf("%w: forbid[%d].type %q", ErrInvalidPattern, i, p.Type)
		}
		if !doublestar.ValidatePattern(p.Capability) {
			return fmt.Errorf("%w: forbid[%d].capability %q", ErrInvalidPattern, i, p.Capability)
		}
	}
	return nil
}

// TypeName returns the name manifests use for t: the full import path and
// type name ("github.com/acme/shapes.Circle"), prefixed with "*" for pointer
// types. Unnamed types fall back to reflect's string form.
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		return "*" + TypeName(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
