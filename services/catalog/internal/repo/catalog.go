package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/digitalloot/storefront/services/catalog/internal/models"
)

const (
	SortPriceAsc  = "precio_asc"
	SortPriceDesc = "precio_desc"
	SortNameAsc   = "nombre_asc"
	SortNameDesc  = "nombre_desc"
)

type GormRepo struct {
	DB *gorm.DB
}

// Filter narrows the active product listing. Zero values disable a filter.
type Filter struct {
	Platform     string
	Category     string
	FeaturedOnly bool
	Query        string
	Sort         string
	Offset       int
	Limit        int
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&models.Product{})
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepo) ListProducts(ctx context.Context, f Filter) (int64, []models.Product, error) {
	q := applyFilter(r.DB.WithContext(ctx).Model(&models.Product{}), f).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, f.Limit)
	if err := q.Order(orderBy(f.Sort)).Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	var items []models.Product
	err := r.DB.WithContext(ctx).
		Where("active = ? AND featured = ?", true, true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *GormRepo) Platforms(ctx context.Context) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("active = ? AND platform <> ''", true).
		Distinct("platform").
		Order("platform ASC").
		Pluck("platform", &out).Error
	return out, err
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchByName is the database fallback for full text search.
func (r *GormRepo) SearchByName(ctx context.Context, term string, offset, limit int) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("active = ?", true).
		Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(term)).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, updates map[string]any) (*models.Product, error) {
	var p models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	q = q.Where("active = ?", true)

	switch platform := strings.TrimSpace(f.Platform); {
	case platform == "", strings.EqualFold(platform, "todos"), strings.EqualFold(platform, "todo"):
	case strings.EqualFold(platform, models.CategoryDLC):
		q = q.Where("category = ?", models.CategoryDLC)
	default:
		q = q.Where("platform = ?", platform)
	}

	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	if f.FeaturedOnly {
		q = q.Where("featured = ?", true)
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(term))
	}
	return q
}

func orderBy(sort string) string {
	switch sort {
	case SortPriceAsc:
		return "price ASC, id ASC"
	case SortPriceDesc:
		return "price DESC, id ASC"
	case SortNameAsc:
		return "name ASC, id ASC"
	case SortNameDesc:
		return "name DESC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}
