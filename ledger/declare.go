package ledger

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
)

// For declares that concrete type T implements capability C and returns the
// producer to register. C must be an interface type and T must implement it;
// both are checked here so a bad declaration fails at startup rather than at
// lookup time.
//
// T and *T are distinct concrete types. Declare the one that is actually
// stored in the values being queried.
func For[T, C any]() (Producer, error) {
	return ForSite[T, C](CallerSite(1))
}

// MustFor is like For but panics on an invalid declaration.
func MustFor[T, C any]() Producer {
	p, err := ForSite[T, C](CallerSite(1))
	if err != nil {
		panic(err)
	}
	return p
}

// ForSite is For with an explicit declaration site, for wrappers that want
// to report their own caller.
func ForSite[T, C any](site string) (Producer, error) {
	concrete := reflect.TypeFor[T]()
	capability := reflect.TypeFor[C]()

	declErr := func(err error) error {
		return &DeclarationError{
			Err:        err,
			Concrete:   concrete,
			Capability: capability,
			Site:       site,
		}
	}

	if capability.Kind() != reflect.Interface {
		return nil, declErr(ErrNotInterface)
	}
	if concrete.Kind() == reflect.Interface {
		return nil, declErr(ErrNotConcrete)
	}
	if !concrete.Implements(capability) {
		return nil, declErr(ErrNotImplemented)
	}

	return func() Entry {
		return Entry{
			Key:      Key{Concrete: concrete, Capability: capability},
			Downcast: downcast[T, C],
			Site:     site,
		}
	}, nil
}

// downcast recovers a T from v and views it as C.
func downcast[T, C any](v any) (any, bool) {
	t, ok := v.(T)
	if !ok {
		return nil, false
	}
	c, ok := any(t).(C)
	if !ok {
		return nil, false
	}
	return c, true
}

// CallerSite returns "dir/file.go:line" for the caller skip frames above the
// function calling CallerSite.
func CallerSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file)), line)
}
