package registry

import (
	"errors"
	"fmt"

	"github.com/reglet-dev/reglet-traitcast/ledger"
)

// Sentinel errors for registry failures.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrDuplicateRegistration is returned when two declarations share a
	// (concrete type, capability) pair.
	ErrDuplicateRegistration = errors.New("duplicate capability registration")

	// ErrInvariantViolation is reported when a registered downcast fails.
	ErrInvariantViolation = errors.New("capability registry invariant violated")

	// ErrMalformedEntry is returned when a producer yields an entry missing a
	// key type or a downcast.
	ErrMalformedEntry = errors.New("malformed capability entry")
)

// DuplicateRegistrationError names both colliding declarations.
type DuplicateRegistrationError struct {
	Key        ledger.Key
	FirstSite  string
	SecondSite string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf(
		"duplicate capability registration for %s: declared at %s and %s",
		e.Key, e.FirstSite, e.SecondSite,
	)
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, registry.ErrDuplicateRegistration)
func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

// InvariantViolationError indicates that a lookup matched a registered pair
// but the stored downcast could not view the value as the capability.
type InvariantViolationError struct {
	Key  ledger.Key
	Site string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("capability downcast failed for %s declared at %s", e.Key, e.Site)
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, registry.ErrInvariantViolation)
func (e *InvariantViolationError) Is(target error) bool {
	return target == ErrInvariantViolation
}

// MalformedEntryError names an entry the registry refused to build from.
type MalformedEntryError struct {
	Key    ledger.Key
	Site   string
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed capability entry %s declared at %s: %s", e.Key, e.Site, e.Reason)
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, registry.ErrMalformedEntry)
func (e *MalformedEntryError) Is(target error) bool {
	return target == ErrMalformedEntry
}
