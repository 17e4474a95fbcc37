package repo

import (
	"context"

	"github.com/digitalloot/storefront/services/admin/internal/models"
)

func (r *GormRepo) CreateMessage(ctx context.Context, m *models.ContactMessage) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepo) ListMessages(ctx context.Context, offset, limit int) (int64, []models.ContactMessage, error) {
	q := r.DB.WithContext(ctx).Model(&models.ContactMessage{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	msgs := make([]models.ContactMessage, 0, limit)
	err := r.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&msgs).Error
	return total, msgs, err
}
