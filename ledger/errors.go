package ledger

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for ledger registration and declaration failures.
var (
	// ErrLedgerClosed is returned when registering after the ledger was enumerated.
	ErrLedgerClosed = errors.New("ledger closed")

	// ErrNilProducer is returned when registering a nil producer.
	ErrNilProducer = errors.New("nil entry producer")

	// ErrNotInterface is returned when the capability type is not an interface.
	ErrNotInterface = errors.New("capability is not an interface type")

	// ErrNotConcrete is returned when the declared concrete type is itself an interface.
	ErrNotConcrete = errors.New("concrete type is an interface type")

	// ErrNotImplemented is returned when the concrete type does not implement the capability.
	ErrNotImplemented = errors.New("concrete type does not implement capability")
)

// DeclarationError describes an invalid "type implements capability" declaration.
type DeclarationError struct {
	Err        error
	Concrete   reflect.Type
	Capability reflect.Type
	Site       string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("invalid capability declaration %v -> %v at %s: %v",
		e.Concrete, e.Capability, e.Site, e.Err)
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}
