package ledger

import (
	"fmt"
	"reflect"
)

// Key identifies a single capability fact: a concrete type and one capability
// (interface) type it was declared to implement.
type Key struct {
	Concrete   reflect.Type
	Capability reflect.Type
}

func (k Key) String() string {
	return fmt.Sprintf("%v -> %v", k.Concrete, k.Capability)
}

// DowncastFunc recovers a capability view of v.
// It is only valid for values whose dynamic type is the entry's Key.Concrete;
// any other value yields (nil, false).
type DowncastFunc func(v any) (any, bool)

// Entry is one contributed "concrete type implements capability" fact.
type Entry struct {
	Key      Key
	Downcast DowncastFunc
	// Site is the file:line of the declaration that produced the entry.
	Site string
}

// Producer lazily constructs an Entry. It is forced at most once, when the
// ledger is enumerated.
type Producer func() Entry
