package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdb "github.com/digitalloot/storefront/pkg/db"
	"github.com/digitalloot/storefront/pkg/events/eventstest"
	"github.com/digitalloot/storefront/pkg/tokens"
	"github.com/digitalloot/storefront/services/auth/internal/models"
	"github.com/digitalloot/storefront/services/auth/internal/repo"
)

type testEnv struct {
	auth     *AuthService
	profiles *ProfileService
	repo     *repo.GormRepo
	events   *eventstest.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := pkgdb.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	rp := &repo.GormRepo{DB: db}
	require.NoError(t, rp.Migrate(context.Background()))

	rec := &eventstest.Recorder{}
	return &testEnv{
		auth: &AuthService{
			Repo:          rp,
			Publisher:     rec,
			AccessSecret:  []byte("test-jwt-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
		},
		profiles: &ProfileService{Repo: rp, Publisher: rec},
		repo:     rp,
		events:   rec,
	}
}

func validInput() RegisterInput {
	return RegisterInput{
		FullName:        "Ana Quispe",
		Email:           "Ana@Loot.pe",
		Password:        "secreto",
		ConfirmPassword: "secreto",
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{name: "empty name", mutate: func(in *RegisterInput) { in.FullName = "  " }},
		{name: "bad email", mutate: func(in *RegisterInput) { in.Email = "ana@loot" }},
		{name: "short password", mutate: func(in *RegisterInput) { in.Password, in.ConfirmPassword = "12345", "12345" }},
		{name: "confirmation mismatch", mutate: func(in *RegisterInput) { in.ConfirmPassword = "otro123" }},
	}
	for _, tt := range tests {
		in := validInput()
		tt.mutate(&in)
		_, err := env.auth.Register(ctx, in)
		assert.ErrorIs(t, err, ErrValidation, tt.name)
	}
}

func TestRegister_DefaultsAndConflict(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.auth.Register(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "ana@loot.pe", p.Email)
	assert.Equal(t, tokens.RoleUser, p.Role)
	assert.Equal(t, "Perú", p.Country)
	assert.Equal(t, "dark", p.Preferences.Theme)
	assert.True(t, p.Preferences.Notifications)
	assert.Equal(t, "es", p.Preferences.Language)
	assert.Contains(t, p.AvatarURL, "name=Ana+Quispe")
	assert.NotEqual(t, "secreto", p.PasswordHash)
	assert.Equal(t, []string{"user_registered"}, env.events.Types())

	_, err = env.auth.Register(ctx, validInput())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, validInput())
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, "ana@loot.pe", "wrong-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.auth.Login(ctx, "nobody@loot.pe", "secreto")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	res, err := env.auth.Login(ctx, "ANA@loot.pe", "secreto")
	require.NoError(t, err)
	require.NotNil(t, res.Profile.LastLoginAt)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, env.auth.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, res.Profile.ID.String(), claims.Subject)
	assert.Equal(t, tokens.RoleUser, claims.Role)
	assert.WithinDuration(t, time.Now().Add(DefaultAccessTTL), claims.ExpiresAt.Time, 5*time.Second)

	stored, err := env.repo.GetByID(ctx, res.Profile.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestRefresh_RotatesAndPicksUpRole(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p, err := env.auth.Register(ctx, validInput())
	require.NoError(t, err)
	first, err := env.auth.Login(ctx, p.Email, "secreto")
	require.NoError(t, err)

	_, err = env.repo.UpdateProfile(ctx, p.ID, map[string]any{"role": tokens.RoleAdmin})
	require.NoError(t, err)

	second, err := env.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	claims, err := tokens.AccessClaimsFromToken(second.AccessToken, env.auth.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, tokens.RoleAdmin, claims.Role)

	// the first token was revoked by the rotation
	_, err = env.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.auth.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogOut_RevokesRefresh(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p, err := env.auth.Register(ctx, validInput())
	require.NoError(t, err)
	res, err := env.auth.Login(ctx, p.Email, "secreto")
	require.NoError(t, err)

	require.NoError(t, env.auth.LogOut(ctx, res.RefreshToken))
	_, err = env.auth.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestProfile_UpdateFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p, err := env.auth.Register(ctx, validInput())
	require.NoError(t, err)

	phone, city, birth := "987654321", "Cusco", "1995-04-12"
	got, err := env.profiles.Update(ctx, p.ID, ProfileUpdate{Phone: &phone, City: &city, BirthDate: &birth})
	require.NoError(t, err)
	assert.Equal(t, phone, got.Phone)
	assert.Equal(t, city, got.City)
	require.NotNil(t, got.BirthDate)
	assert.Equal(t, 1995, got.BirthDate.Year())

	bad := "12/04/1995"
	_, err = env.profiles.Update(ctx, p.ID, ProfileUpdate{BirthDate: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	empty := ""
	_, err = env.profiles.Update(ctx, p.ID, ProfileUpdate{FullName: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	got, err = env.profiles.UpdatePreferences(ctx, p.ID, prefs("light", false, "en"))
	require.NoError(t, err)
	assert.Equal(t, "light", got.Preferences.Theme)
	assert.False(t, got.Preferences.Notifications)

	_, err = env.profiles.UpdatePreferences(ctx, p.ID, prefs("neon", true, "es"))
	assert.ErrorIs(t, err, ErrValidation)

	got, err = env.profiles.UpdateAvatar(ctx, p.ID, "https://cdn.loot.pe/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.loot.pe/a.png", got.AvatarURL)

	_, err = env.profiles.UpdateAvatar(ctx, p.ID, "javascript:alert(1)")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.profiles.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfile_Delete(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p, err := env.auth.Register(ctx, validInput())
	require.NoError(t, err)
	res, err := env.auth.Login(ctx, p.Email, "secreto")
	require.NoError(t, err)

	require.NoError(t, env.profiles.Delete(ctx, p.ID))
	_, err = env.profiles.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.auth.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.ErrorIs(t, env.profiles.Delete(ctx, p.ID), ErrNotFound)
	assert.Contains(t, env.events.Types(), "user_deleted")
}

func prefs(theme string, notify bool, lang string) models.Preferences {
	return models.Preferences{Theme: theme, Notifications: notify, Language: lang}
}
