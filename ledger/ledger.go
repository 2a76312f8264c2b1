// Package ledger collects capability declarations contributed from anywhere
// in a program before they are aggregated into a registry.
//
// Contributors call Register (usually from an init function) with a lazily
// evaluated Producer. The registry calls Enumerate exactly once, which forces
// every producer and closes the ledger to further registration.
package ledger

import (
	"sync"
)

// Ledger is an append-only, write-before-first-read collection of entries.
type Ledger struct {
	producers []Producer
	entries   []Entry
	mu        sync.Mutex
	closed    bool
}

// New creates an empty, open ledger.
func New() *Ledger {
	return &Ledger{}
}

// Register records a lazily constructed entry.
// Contribution order is not significant.
func (l *Ledger) Register(p Producer) error {
	if p == nil {
		return ErrNilProducer
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLedgerClosed
	}
	l.producers = append(l.producers, p)
	return nil
}

// MustRegister is like Register but panics on error.
func (l *Ledger) MustRegister(p Producer) {
	if err := l.Register(p); err != nil {
		panic(err)
	}
}

// Enumerate forces every contributed producer exactly once and returns the
// resulting entries. The first call closes the ledger; later calls return
// the same entries without forcing producers again.
func (l *Ledger) Enumerate() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed {
		l.entries = make([]Entry, 0, len(l.producers))
		for _, p := range l.producers {
			l.entries = append(l.entries, p())
		}
		// Producers are no longer needed once forced.
		l.producers = nil
		l.closed = true
	}

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of contributed entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return len(l.entries)
	}
	return len(l.producers)
}

// Closed reports whether the ledger has been enumerated.
func (l *Ledger) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
