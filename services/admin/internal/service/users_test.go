package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalloot/storefront/pkg/events"
	"github.com/digitalloot/storefront/pkg/orderstatus"
	"github.com/digitalloot/storefront/pkg/tokens"
	"github.com/digitalloot/storefront/services/admin/internal/models"
	"github.com/digitalloot/storefront/services/admin/internal/repo"
)

func TestUserAdmin_PromoteAndDemote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, "boss@loot.pe", tokens.RoleAdmin)
	user := env.seedUser(t, "ana@loot.pe", tokens.RoleUser)

	u, err := env.users.Promote(ctx, admin.ID, " ANA@loot.pe ")
	require.NoError(t, err)
	assert.Equal(t, tokens.RoleAdmin, u.Role)

	// already admin: no change, no event
	_, err = env.users.Promote(ctx, admin.ID, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{events.UserRoleChanged}, env.rec.Types())

	u, err = env.users.Demote(ctx, admin.ID, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, tokens.RoleUser, u.Role)

	_, err = env.users.Demote(ctx, admin.ID, admin.Email)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.users.Promote(ctx, admin.ID, "nobody@loot.pe")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.users.Promote(ctx, admin.ID, "nobody")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.users.Promote(ctx, admin.ID, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	recs := env.rec.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, events.TopicUsers, recs[0].Topic)
	assert.Equal(t, "user-"+user.ID.String(), recs[0].Key)
}

func TestUserAdmin_ListAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedUser(t, "boss@loot.pe", tokens.RoleAdmin)
	env.seedUser(t, "old@loot.pe", tokens.RoleLegacyAdmin)
	env.seedUser(t, "ana@loot.pe", tokens.RoleUser)

	total, _, err := env.users.List(ctx, repo.UserFilter{}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	total, users, err := env.users.List(ctx, repo.UserFilter{AdminsOnly: true}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	total, users, err = env.users.List(ctx, repo.UserFilter{Search: "ANA"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "ana@loot.pe", users[0].Email)
}

func TestUserAdmin_Stats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedUser(t, "boss@loot.pe", tokens.RoleAdmin)
	env.seedUser(t, "ana@loot.pe", tokens.RoleUser)
	require.NoError(t, env.db.Create(&models.Product{Name: "Hades", Active: true}).Error)
	env.seedOrder(t, "DL-1", "Ana", orderstatus.Pending, "10", 0)

	st, err := env.users.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &GlobalStats{Users: 2, Admins: 1, Products: 1, Orders: 1}, st)
}
