// Package traitcast recovers capability (interface) views of type-erased
// values from a process-wide registry of declared "type implements
// capability" facts.
//
// Packages declare their facts from init functions:
//
//	func init() {
//		traitcast.MustDeclare[Circle, Drawable]()
//	}
//
// and any code holding an any can later ask for a capability:
//
//	if d, ok := traitcast.Query[Drawable](v); ok {
//		d.Draw()
//	}
//
// The registry is built from every declaration on the first query. Declaring
// after that point is an error.
package traitcast

import (
	"io"
	"log/slog"
	"os"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/reglet-dev/reglet-traitcast/config"
	"github.com/reglet-dev/reglet-traitcast/ledger"
	"github.com/reglet-dev/reglet-traitcast/manifest"
	"github.com/reglet-dev/reglet-traitcast/registry"
	"github.com/reglet-dev/reglet-traitcast/validation"
)

var (
	defaultLedger = ledger.New()

	// loggerOverride is set by SetLogger.
	loggerOverride atomic.Pointer[slog.Logger]

	defaultRegistry = sync.OnceValue(func() *registry.Registry {
		cfg, err := config.LoadFromEnv()
		logger := resolveLogger(cfg, loggerOverride.Load(), os.Stderr)
		if err != nil {
			logger.Warn("traitcast: ignoring invalid environment configuration", "error", err)
		}
		return registry.New(defaultLedger,
			registry.WithConfig(cfg),
			registry.WithLogger(logger),
		)
	})
)

// SetLogger sets the logger the process-wide registry reports through. It
// only takes effect when called before the registry is first used; without
// it the registry logs through slog.Default(), or through a stderr logger when
// TRAITCAST_LOG_LEVEL or TRAITCAST_LOG_FORMAT is set.
func SetLogger(logger *slog.Logger) {
	loggerOverride.Store(logger)
}

// resolveLogger picks, in order: an explicit logger, an environment-configured
// logger writing to w, slog.Default().
func resolveLogger(cfg config.Config, explicit *slog.Logger, w io.Writer) *slog.Logger {
	if explicit != nil {
		return explicit
	}
	if cfg.HasLogOverride() {
		return cfg.Logger(w)
	}
	return slog.Default()
}

// Declare records that concrete type T implements capability C in the
// process-wide ledger. Call it from init functions.
func Declare[T, C any]() error {
	p, err := ledger.ForSite[T, C](ledger.CallerSite(1))
	if err != nil {
		return err
	}
	return defaultLedger.Register(p)
}

// MustDeclare is like Declare but panics on error.
func MustDeclare[T, C any]() {
	p, err := ledger.ForSite[T, C](ledger.CallerSite(1))
	if err != nil {
		panic(err)
	}
	defaultLedger.MustRegister(p)
}

// Query returns v viewed as capability C when v's dynamic type was declared
// to implement C. An undeclared pair is reported as (zero, false).
func Query[C any](v any) (C, bool) {
	return registry.Lookup[C](Default(), v)
}

// Supports reports whether v's dynamic type was declared to implement C.
func Supports[C any](v any) bool {
	_, ok := Query[C](v)
	return ok
}

// Capabilities returns every capability declared for v's dynamic type.
func Capabilities(v any) []reflect.Type {
	return Default().Capabilities(v)
}

// Build forces the process-wide registry to build and returns any collision
// error. Programs that want to fail at startup rather than on first query
// call it from main.
func Build() error {
	return Default().Build()
}

// Verify checks the process-wide registry against m.
func Verify(m *manifest.Manifest) (*validation.Result, error) {
	return validation.NewVerifier(Default()).Verify(m)
}

// Default returns the process-wide registry.
func Default() *registry.Registry {
	return defaultRegistry()
}
