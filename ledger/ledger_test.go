package ledger_test

import (
	"reflect"
	"testing"

	"github.com/reglet-dev/reglet-traitcast/internal/shapes"
	"github.com/reglet-dev/reglet-traitcast/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingProducer(calls *int, site string) ledger.Producer {
	return func() ledger.Entry {
		*calls++
		return ledger.Entry{
			Key: ledger.Key{
				Concrete:   reflect.TypeFor[shapes.Circle](),
				Capability: reflect.TypeFor[shapes.Drawable](),
			},
			Site: site,
		}
	}
}

func TestLedger_Register(t *testing.T) {
	t.Parallel()

	l := ledger.New()
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Closed())

	require.ErrorIs(t, l.Register(nil), ledger.ErrNilProducer)

	var calls int
	require.NoError(t, l.Register(countingProducer(&calls, "a.go:1")))
	require.NoError(t, l.Register(countingProducer(&calls, "b.go:2")))

	assert.Equal(t, 2, l.Len())
	assert.Zero(t, calls, "producers must stay lazy until enumeration")
}

func TestLedger_EnumerateForcesOnce(t *testing.T) {
	t.Parallel()

	l := ledger.New()
	var calls int
	l.MustRegister(countingProducer(&calls, "a.go:1"))
	l.MustRegister(countingProducer(&calls, "b.go:2"))

	first := l.Enumerate()
	require.Len(t, first, 2)
	assert.Equal(t, 2, calls)
	assert.True(t, l.Closed())

	second := l.Enumerate()
	assert.Equal(t, 2, calls, "second enumeration must not force producers again")
	assert.Equal(t, []string{"a.go:1", "b.go:2"}, []string{second[0].Site, second[1].Site})
	assert.Equal(t, 2, l.Len())
}

func TestLedger_RegisterAfterEnumerate(t *testing.T) {
	t.Parallel()

	l := ledger.New()
	_ = l.Enumerate()

	var calls int
	err := l.Register(countingProducer(&calls, "late.go:9"))
	require.ErrorIs(t, err, ledger.ErrLedgerClosed)
	assert.Empty(t, l.Enumerate())

	assert.PanicsWithValue(t, ledger.ErrLedgerClosed, func() {
		l.MustRegister(countingProducer(&calls, "late.go:10"))
	})
}

func TestLedger_EnumerateReturnsCopy(t *testing.T) {
	t.Parallel()

	l := ledger.New()
	var calls int
	l.MustRegister(countingProducer(&calls, "a.go:1"))

	got := l.Enumerate()
	got[0].Site = "mutated"

	assert.Equal(t, "a.go:1", l.Enumerate()[0].Site)
}
