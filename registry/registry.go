// Package registry implements the capability registry: a lookup table from
// (concrete type, capability) pairs to downcast operations, built once from
// a ledger on first use.
package registry

import (
	"cmp"
	"errors"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/reglet-dev/reglet-traitcast/config"
	"github.com/reglet-dev/reglet-traitcast/ledger"
)

// DuplicatePolicy decides what a build does with colliding declarations.
type DuplicatePolicy int

const (
	// DuplicatePolicyError fails the build and names both declarations.
	DuplicatePolicyError DuplicatePolicy = iota
	// DuplicatePolicyLastWins keeps the later declaration and logs a warning.
	DuplicatePolicyLastWins
)

// Entry is a diagnostic view of one registered pair.
type Entry struct {
	Concrete   reflect.Type
	Capability reflect.Type
	Site       string
}

// table is the immutable result of a build.
type table struct {
	casters      map[ledger.Key]ledger.Entry
	capabilities map[reflect.Type][]reflect.Type
}

// Registry implements CapabilityRegistry on top of an EntrySource.
// Queries never lock; the table is read-only once built.
type Registry struct {
	source  EntrySource
	logger  *slog.Logger
	handler ViolationHandler
	build   func() (*table, error)
	builds  atomic.Int32
	policy  DuplicatePolicy
}

// RegistryOption configures the Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for build diagnostics.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDuplicatePolicy sets how colliding declarations are resolved.
func WithDuplicatePolicy(policy DuplicatePolicy) RegistryOption {
	return func(r *Registry) {
		r.policy = policy
	}
}

// WithViolationHandler sets the handler for failed registered downcasts.
func WithViolationHandler(handler ViolationHandler) RegistryOption {
	return func(r *Registry) {
		if handler != nil {
			r.handler = handler
		}
	}
}

// WithConfig applies the duplicate policy and violation reaction from cfg.
func WithConfig(cfg config.Config) RegistryOption {
	return func(r *Registry) {
		if cfg.Duplicates == config.DuplicatesLastWins {
			r.policy = DuplicatePolicyLastWins
		} else {
			r.policy = DuplicatePolicyError
		}

		switch cfg.OnViolation {
		case config.OnViolationLog:
			r.handler = &LogViolationHandler{}
		case config.OnViolationIgnore:
			r.handler = &NopViolationHandler{}
		default:
			r.handler = &PanicViolationHandler{}
		}
	}
}

// New creates a registry that builds itself from source on first use.
func New(source EntrySource, opts ...RegistryOption) *Registry {
	r := &Registry{
		source:  source,
		logger:  slog.Default(),
		handler: &PanicViolationHandler{},
		policy:  DuplicatePolicyError,
	}

	for _, opt := range opts {
		opt(r)
	}

	if h, ok := r.handler.(*LogViolationHandler); ok && h.Logger == nil {
		r.handler = &LogViolationHandler{Logger: r.logger}
	}

	r.build = sync.OnceValues(r.buildTable)
	return r
}

// Build forces the one-time build and returns its error, if any.
// Every call returns the same result.
func (r *Registry) Build() error {
	_, err := r.build()
	return err
}

// Builds returns how many times the table has been built (0 or 1).
func (r *Registry) Builds() int {
	return int(r.builds.Load())
}

func (r *Registry) buildTable() (*table, error) {
	defer r.builds.Add(1)

	entries := r.source.Enumerate()
	t := &table{
		casters:      make(map[ledger.Key]ledger.Entry, len(entries)),
		capabilities: make(map[reflect.Type][]reflect.Type),
	}

	var errs []error
	for _, e := range entries {
		if err := checkEntry(e); err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, exists := t.casters[e.Key]; exists {
			dup := &DuplicateRegistrationError{
				Key:        e.Key,
				FirstSite:  prev.Site,
				SecondSite: e.Site,
			}
			if r.policy == DuplicatePolicyError {
				errs = append(errs, dup)
				continue
			}
			r.logger.Warn("traitcast: duplicate registration, keeping the later one",
				"key", e.Key.String(),
				"kept", e.Site,
				"dropped", prev.Site,
			)
			t.casters[e.Key] = e
			continue
		}
		t.casters[e.Key] = e
		t.capabilities[e.Key.Concrete] = append(t.capabilities[e.Key.Concrete], e.Key.Capability)
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		r.logger.Error("traitcast: registry build failed", "error", err)
		return nil, err
	}

	for _, caps := range t.capabilities {
		slices.SortFunc(caps, compareTypes)
	}

	r.logger.Debug("traitcast: registry built",
		"entries", len(t.casters),
		"types", len(t.capabilities),
	)
	return t, nil
}

// checkEntry rejects entries the table cannot serve safely.
func checkEntry(e ledger.Entry) error {
	var reason string
	switch {
	case e.Key.Concrete == nil:
		reason = "nil concrete type"
	case e.Key.Capability == nil:
		reason = "nil capability type"
	case e.Downcast == nil:
		reason = "nil downcast"
	default:
		return nil
	}
	return &MalformedEntryError{Key: e.Key, Site: e.Site, Reason: reason}
}

// compareTypes orders types by their short name, then by package path so
// same-named types from different packages sort deterministically.
func compareTypes(a, b reflect.Type) int {
	if c := cmp.Compare(a.String(), b.String()); c != 0 {
		return c
	}
	return cmp.Compare(pkgPath(a), pkgPath(b))
}

// pkgPath returns the import path of t, looking through pointers, slices
// and other element types.
func pkgPath(t reflect.Type) string {
	for t.PkgPath() == "" {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan, reflect.Map:
			t = t.Elem()
		default:
			return ""
		}
	}
	return t.PkgPath()
}

// mustTable returns the built table, panicking if the build failed.
func (r *Registry) mustTable() *table {
	t, err := r.build()
	if err != nil {
		panic(err)
	}
	return t
}

// Query returns v viewed as capability, or (nil, false) when v's dynamic type
// was not registered for it. It panics if the build failed.
func (r *Registry) Query(v any, capability reflect.Type) (any, bool) {
	t := r.mustTable()
	if v == nil || capability == nil {
		return nil, false
	}

	key := ledger.Key{Concrete: reflect.TypeOf(v), Capability: capability}
	entry, ok := t.casters[key]
	if !ok {
		return nil, false
	}

	out, ok := entry.Downcast(v)
	if !ok {
		r.handler.OnViolation(&InvariantViolationError{Key: key, Site: entry.Site})
		return nil, false
	}
	return out, true
}

// Lookup is the typed form of Query: it returns v viewed as C.
func Lookup[C any](r *Registry, v any) (C, bool) {
	var zero C
	capability := reflect.TypeFor[C]()

	out, ok := r.Query(v, capability)
	if !ok {
		return zero, false
	}

	c, ok := out.(C)
	if !ok {
		r.handler.OnViolation(&InvariantViolationError{
			Key:  ledger.Key{Concrete: reflect.TypeOf(v), Capability: capability},
			Site: r.siteOf(v, capability),
		})
		return zero, false
	}
	return c, true
}

func (r *Registry) siteOf(v any, capability reflect.Type) string {
	key := ledger.Key{Concrete: reflect.TypeOf(v), Capability: capability}
	return r.mustTable().casters[key].Site
}

// Capabilities returns every capability registered for v's dynamic type,
// sorted by name. The result is a copy.
func (r *Registry) Capabilities(v any) []reflect.Type {
	t := r.mustTable()
	if v == nil {
		return nil
	}

	caps := t.capabilities[reflect.TypeOf(v)]
	out := make([]reflect.Type, len(caps))
	copy(out, caps)
	return out
}

// Entries returns a snapshot of every registered pair, sorted by concrete
// type then capability. It panics if the build failed; callers that need the
// error call Build first.
func (r *Registry) Entries() []Entry {
	t := r.mustTable()

	out := make([]Entry, 0, len(t.casters))
	for key, e := range t.casters {
		out = append(out, Entry{
			Concrete:   key.Concrete,
			Capability: key.Capability,
			Site:       e.Site,
		})
	}

	slices.SortFunc(out, func(a, b Entry) int {
		if c := compareTypes(a.Concrete, b.Concrete); c != 0 {
			return c
		}
		return compareTypes(a.Capability, b.Capability)
	})
	return out
}

// Len returns the number of registered pairs.
func (r *Registry) Len() int {
	return len(r.mustTable().casters)
}
