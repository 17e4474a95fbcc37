package orderstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	t.Parallel()

	tests := map[Status]Status{
		Pending:         Processing,
		Processing:      Completed,
		Completed:       Completed,
		Cancelled:       Cancelled,
		Refunded:        Refunded,
		Status("weird"): Status("weird"),
	}
	for from, want := range tests {
		assert.Equal(t, want, from.Next(), string(from))
	}
}

func TestNextStaysInsideEnum(t *testing.T) {
	t.Parallel()

	for _, s := range All() {
		cur := s
		for i := 0; i < 5; i++ {
			cur = cur.Next()
			assert.True(t, cur.Valid())
		}
	}
}

func TestCheckChange(t *testing.T) {
	t.Parallel()

	require.NoError(t, Pending.CheckChange(Cancelled))
	require.NoError(t, Completed.CheckChange(Refunded))
	assert.ErrorIs(t, Pending.CheckChange(Pending), ErrSameStatus)
	assert.ErrorIs(t, Pending.CheckChange(Status("shipped")), ErrUnknown)
}

func TestAdvance(t *testing.T) {
	t.Parallel()

	n, err := Pending.Advance()
	require.NoError(t, err)
	assert.Equal(t, Processing, n)

	_, err = Refunded.Advance()
	assert.ErrorIs(t, err, ErrTerminal)

	_, err = Status("x").Advance()
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestParse(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Status{
		"pending":     Pending,
		" Processing": Processing,
		"pendiente":   Pending,
		"entregado":   Completed,
		"reembolsado": Refunded,
	} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("lost")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestLabelsAndFlags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Reembolsado", Refunded.Label())
	assert.Equal(t, "x", Status("x").Label())
	assert.True(t, Completed.Terminal())
	assert.False(t, Pending.Terminal())
	assert.False(t, Cancelled.Countable())
	assert.True(t, Processing.Countable())
}

func TestNormalizeAndSpellings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Pending, Normalize("pendiente"))
	assert.Equal(t, Completed, Normalize("Entregado"))
	assert.Equal(t, Processing, Normalize(Processing))
	assert.Equal(t, Status("archivado"), Normalize("archivado"))

	assert.Equal(t, []string{"pending", "pendiente"}, Spellings(Pending))
	assert.Equal(t, []string{"completed", "completado", "entregado"}, Spellings(Completed))
}
