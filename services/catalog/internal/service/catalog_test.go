package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	pkgdb "github.com/digitalloot/storefront/pkg/db"
	"github.com/digitalloot/storefront/pkg/events/eventstest"
	"github.com/digitalloot/storefront/services/catalog/internal/models"
	"github.com/digitalloot/storefront/services/catalog/internal/repo"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	args := m.Called(ctx, query, from, size)
	items, _ := args.Get(1).([]models.Product)
	return args.Get(0).(int64), items, args.Error(2)
}

func (m *mockSearcher) Put(ctx context.Context, p *models.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockSearcher) Remove(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type testEnv struct {
	svc *CatalogService
	rec *eventstest.Recorder
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
		svc: &CatalogService{Repo: rp, Publisher: rec, StorageBase: "https://cdn.loot.pe/"},
		rec: rec,
	}
}

func (env *testEnv) seed(t *testing.T, in ProductInput) *models.Product {
	t.Helper()
	p, err := env.svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	return p
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func boolPtr(v bool) *bool { return &v }

func seedCatalog(t *testing.T, env *testEnv) {
	t.Helper()
	env.seed(t, ProductInput{Name: "Elden Ring", Price: price("59.90"), Platform: "PC", Category: "RPG", Featured: true})
	env.seed(t, ProductInput{Name: "Zelda TOTK", Price: price("69.90"), Platform: "Switch", Category: "Aventura", Featured: true})
	env.seed(t, ProductInput{Name: "Astro Bot", Price: price("49.90"), Platform: "PS5", Category: "Plataformas"})
	env.seed(t, ProductInput{Name: "Shadow of the Erdtree", Price: price("39.90"), Platform: "PC", Category: "DLC"})
	env.seed(t, ProductInput{Name: "Old Demo", Price: price("5"), Platform: "Xbox", Category: "RPG", Active: boolPtr(false)})
}

func names(items []models.Product) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Name
	}
	return out
}

func TestListProducts_Filters(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	ctx := context.Background()

	total, items, err := env.svc.ListProducts(ctx, repo.Filter{Platform: "todos", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total, "inactive products are hidden")
	assert.Equal(t, []string{"Shadow of the Erdtree", "Astro Bot", "Zelda TOTK", "Elden Ring"}, names(items), "newest first")

	_, items, err = env.svc.ListProducts(ctx, repo.Filter{Platform: "Todo", Limit: 20})
	require.NoError(t, err)
	assert.Len(t, items, 4)

	_, items, err = env.svc.ListProducts(ctx, repo.Filter{Platform: "PC", Limit: 20})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Elden Ring", "Shadow of the Erdtree"}, names(items))

	_, items, err = env.svc.ListProducts(ctx, repo.Filter{Platform: "DLC", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"Shadow of the Erdtree"}, names(items))

	_, items, err = env.svc.ListProducts(ctx, repo.Filter{FeaturedOnly: true, Sort: repo.SortNameAsc, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"Elden Ring", "Zelda TOTK"}, names(items))

	_, items, err = env.svc.ListProducts(ctx, repo.Filter{Query: "ZEL", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"Zelda TOTK"}, names(items))

	_, items, err = env.svc.ListProducts(ctx, repo.Filter{Query: "100%", Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListProducts_SortAndPaging(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	ctx := context.Background()

	_, items, err := env.svc.ListProducts(ctx, repo.Filter{Sort: repo.SortPriceAsc, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"Shadow of the Erdtree", "Astro Bot", "Elden Ring", "Zelda TOTK"}, names(items))

	_, items, err = env.svc.ListProducts(ctx, repo.Filter{Sort: repo.SortPriceDesc, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "Zelda TOTK", items[0].Name)

	_, items, err = env.svc.ListProducts(ctx, repo.Filter{Sort: repo.SortNameDesc, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "Zelda TOTK", items[0].Name)

	total, items, err := env.svc.ListProducts(ctx, repo.Filter{Sort: repo.SortNameAsc, Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []string{"Shadow of the Erdtree", "Zelda TOTK"}, names(items))

	_, _, err = env.svc.ListProducts(ctx, repo.Filter{Sort: "random", Limit: 20})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFeaturedAndPlatforms(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	ctx := context.Background()

	env.svc.FeaturedLimit = 1
	items, err := env.svc.Featured(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zelda TOTK"}, names(items))

	platforms, err := env.svc.Platforms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PC", "PS5", "Switch"}, platforms)
}

func TestGetProduct_ResolvesImage(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t, ProductInput{Name: "Hades", Price: price("24.50"), ImageURL: "productos/hades.jpg"})

	got, err := env.svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.loot.pe/storage/v1/object/public/productos/hades.jpg", got.Image)
	assert.True(t, got.Price.Equal(price("24.50")))

	_, err = env.svc.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateProduct(ctx, ProductInput{Name: "  ", Price: price("1")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.CreateProduct(ctx, ProductInput{Name: "Bad", Price: price("-1")})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, env.rec.Records())
}

func TestPatchToggleDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seed(t, ProductInput{Name: "Celeste", Price: price("20")})
	require.True(t, p.Active)

	newPrice := price("15.5")
	newName := "Celeste Deluxe"
	patched, err := env.svc.PatchProduct(ctx, p.ID, ProductPatch{Name: &newName, Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, "Celeste Deluxe", patched.Name)
	assert.True(t, patched.Price.Equal(newPrice))

	neg := price("-3")
	_, err = env.svc.PatchProduct(ctx, p.ID, ProductPatch{Price: &neg})
	assert.ErrorIs(t, err, ErrValidation)

	toggled, err := env.svc.ToggleActive(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)

	toggled, err = env.svc.ToggleFeatured(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Featured)

	_, err = env.svc.PatchProduct(ctx, 404, ProductPatch{Name: &newName})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.svc.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, env.svc.DeleteProduct(ctx, p.ID), ErrNotFound)

	assert.Equal(t, []string{"product_created", "product_updated", "product_updated", "product_updated", "product_deleted"}, env.rec.Types())
	for _, r := range env.rec.Records() {
		assert.Equal(t, "product_events", r.Topic)
		assert.Equal(t, "product-1", r.Key)
	}
}

func TestSearchProducts_UsesIndexThenFallsBack(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	ctx := context.Background()

	ms := &mockSearcher{}
	env.svc.Search = ms

	ms.On("Search", mock.Anything, "elden", 0, 10).
		Return(int64(1), []models.Product{{ID: 1, Name: "Elden Ring", ImageURL: "https://img/er.png"}}, nil).Once()
	total, items, err := env.svc.SearchProducts(ctx, " elden ", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "https://img/er.png", items[0].Image)

	ms.On("Search", mock.Anything, "erdtree", 0, 10).Return(int64(0), nil, errors.New("es down")).Once()
	total, items, err = env.svc.SearchProducts(ctx, "erdtree", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Shadow of the Erdtree", items[0].Name)
	assert.Equal(t, PlaceholderImage, items[0].Image)

	total, items, err = env.svc.SearchProducts(ctx, "   ", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	ms.AssertExpectations(t)
}

func TestMutations_KeepIndexInStep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ms := &mockSearcher{}
	env.svc.Search = ms
	ms.On("Put", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()
	ms.On("Remove", mock.Anything, uint(1)).Return(errors.New("index gone")).Once()

	p := env.seed(t, ProductInput{Name: "Hollow Knight", Price: price("14.99")})
	require.NoError(t, env.svc.DeleteProduct(ctx, p.ID), "index failures do not fail the mutation")

	ms.AssertExpectations(t)
}
