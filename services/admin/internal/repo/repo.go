package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/digitalloot/storefront/services/admin/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// Migrate creates the tables this service owns. The order, profile and
// product tables are migrated by their own services.
func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&models.ContactMessage{})
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}
