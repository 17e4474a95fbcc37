package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgdb "github.com/digitalloot/storefront/pkg/db"
	"github.com/digitalloot/storefront/pkg/events/eventstest"
	"github.com/digitalloot/storefront/pkg/orderstatus"
	"github.com/digitalloot/storefront/services/admin/internal/models"
	"github.com/digitalloot/storefront/services/admin/internal/repo"
)

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	db     *gorm.DB
	rp     *repo.GormRepo
	rec    *eventstest.Recorder
	orders *OrderAdmin
	users  *UserAdmin
}

// newTestEnv migrates the shared tables next to the admin one so the read
// models have something to read.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := pkgdb.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.User{}, &models.Product{}))
	rp := &repo.GormRepo{DB: db}
	require.NoError(t, rp.Migrate(context.Background()))

	rec := &eventstest.Recorder{}
	return &testEnv{
		db:     db,
		rp:     rp,
		rec:    rec,
		orders: &OrderAdmin{Repo: rp, Publisher: rec, Now: func() time.Time { return now }},
		users:  &UserAdmin{Repo: rp, Publisher: rec},
	}
}

func (env *testEnv) seedOrder(t *testing.T, number, customer string, status orderstatus.Status, total string, age time.Duration) models.Order {
	t.Helper()

	id := uuid.New()
	o := models.Order{
		ID:            id,
		OrderNumber:   number,
		UserID:        uuid.New(),
		CustomerName:  customer,
		CustomerEmail: "buyer@loot.pe",
		PaymentMethod: "card",
		Subtotal:      decimal.RequireFromString(total),
		Total:         decimal.RequireFromString(total),
		Status:        status,
		CreatedAt:     now.Add(-age),
		UpdatedAt:     now.Add(-age),
		Items: []models.OrderItem{
			{OrderID: id, ProductID: 1, ProductName: "Hades", Quantity: 1, UnitPrice: decimal.RequireFromString(total), Subtotal: decimal.RequireFromString(total)},
		},
	}
	require.NoError(t, env.db.Create(&o).Error)
	return o
}

func (env *testEnv) seedUser(t *testing.T, email, role string) models.User {
	t.Helper()

	u := models.User{ID: uuid.New(), Email: email, FullName: email, Role: role, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, env.db.Create(&u).Error)
	return u
}
