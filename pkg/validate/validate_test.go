package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func TestValidate(t *testing.T) {
	t.Parallel()

	v := New()
	require.NoError(t, v.Validate(&signup{Email: "a@b.pe", Password: "123456"}))

	err := v.Validate(&signup{Email: "nope", Password: "123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email: email")
	assert.Contains(t, err.Error(), "password: min=6")
}
