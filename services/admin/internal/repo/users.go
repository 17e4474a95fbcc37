package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/digitalloot/storefront/pkg/tokens"
	"github.com/digitalloot/storefront/services/admin/internal/models"
)

var adminRoles = []string{tokens.RoleAdmin, tokens.RoleLegacyAdmin}

type UserFilter struct {
	Search     string
	AdminsOnly bool
}

func (r *GormRepo) ListUsers(ctx context.Context, f UserFilter, offset, limit int) (int64, []models.User, error) {
	q := r.DB.WithContext(ctx).Model(&models.User{})
	if f.AdminsOnly {
		q = q.Where("role IN ?", adminRoles)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		p := likePattern(term)
		q = q.Where("LOWER(full_name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\'", p, p)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	users := make([]models.User, 0, limit)
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return 0, nil, err
	}
	return total, users, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) SetRole(ctx context.Context, id uuid.UUID, role string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type Counts struct {
	Users    int64
	Admins   int64
	Products int64
	Orders   int64
}

func (r *GormRepo) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	db := r.DB.WithContext(ctx)
	if err := db.Model(&models.User{}).Count(&c.Users).Error; err != nil {
		return c, err
	}
	if err := db.Model(&models.User{}).Where("role IN ?", adminRoles).Count(&c.Admins).Error; err != nil {
		return c, err
	}
	if err := db.Model(&models.Product{}).Count(&c.Products).Error; err != nil {
		return c, err
	}
	if err := db.Model(&models.Order{}).Count(&c.Orders).Error; err != nil {
		return c, err
	}
	return c, nil
}
