package registry

import (
	"reflect"

	"github.com/reglet-dev/reglet-traitcast/ledger"
)

// CapabilityRegistry answers "may this value be viewed as that capability".
type CapabilityRegistry interface {
	// Query returns v viewed as capability, or (nil, false) when v's dynamic
	// type was not registered for it.
	Query(v any, capability reflect.Type) (any, bool)

	// Capabilities returns every capability registered for v's dynamic type.
	Capabilities(v any) []reflect.Type

	// Entries returns a sorted snapshot of every registered pair.
	Entries() []Entry
}

// EntrySource supplies the entries a registry is built from.
// *ledger.Ledger satisfies it.
type EntrySource interface {
	Enumerate() []ledger.Entry
}

// ViolationHandler is called when a registered downcast fails against a value
// of the registered concrete type.
type ViolationHandler interface {
	OnViolation(err *InvariantViolationError)
}

var _ CapabilityRegistry = (*Registry)(nil)
