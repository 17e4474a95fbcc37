package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"987 654 321":     "51987654321",
		"+51 987-654-321": "51987654321",
		"51987654321":     "51987654321",
		"12345":           "12345",
		"":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}

func TestContactService_Submit(t *testing.T) {
	env := newTestEnv(t)
	svc := &ContactService{Repo: env.rp}
	ctx := context.Background()

	m, err := svc.Submit(ctx, ContactInput{
		Name:    " Ana ",
		Email:   "Ana@Loot.pe",
		Phone:   "987 654 321",
		Subject: "Pedido",
		Message: "¿Cuándo llega mi pedido?",
	})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, "Ana", m.Name)
	assert.Equal(t, "ana@loot.pe", m.Email)
	assert.Equal(t, "51987654321", m.Phone)

	bad := []ContactInput{
		{Email: "a@b.pe", Message: "hola"},
		{Name: "Ana", Email: "not-an-email", Message: "hola"},
		{Name: "Ana", Email: "a@b.pe", Message: "  "},
		{Name: "Ana", Email: "a@b.pe", Message: strings.Repeat("ñ", MaxMessageLen+1)},
	}
	for _, in := range bad {
		_, err := svc.Submit(ctx, in)
		assert.ErrorIs(t, err, ErrValidation)
	}

	// exactly the limit counts runes, not bytes
	_, err = svc.Submit(ctx, ContactInput{Name: "Ana", Email: "a@b.pe", Message: strings.Repeat("ñ", MaxMessageLen)})
	require.NoError(t, err)

	total, msgs, err := svc.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, msgs, 2)
}
