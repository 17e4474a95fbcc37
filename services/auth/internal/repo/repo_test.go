package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgdb "github.com/digitalloot/storefront/pkg/db"
	"github.com/digitalloot/storefront/services/auth/internal/models"
)

func newRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := pkgdb.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := &GormRepo{DB: db}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func profile(email string) *models.Profile {
	return &models.Profile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Ana Quispe",
		Role:         "user",
		Preferences:  models.DefaultPreferences(),
	}
}

func TestCreateProfileIfNotExists(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	first := profile("ana@loot.pe")
	require.NoError(t, r.CreateProfileIfNotExists(ctx, first))

	// a fresh id must not hide the existing email
	err := r.CreateProfileIfNotExists(ctx, profile(" ANA@loot.pe "))
	require.ErrorIs(t, err, ErrEmailTaken)

	var n int64
	require.NoError(t, r.DB.Model(&models.Profile{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	got, err := r.GetByEmail(ctx, "Ana@Loot.pe")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestCreateProfileIfNotExists_UniqueIndexBackstop(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.DB.Create(profile("luis@loot.pe")).Error)
	err := r.DB.Create(profile("luis@loot.pe")).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
