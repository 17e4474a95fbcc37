package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/digitalloot/storefront/pkg/orderstatus"
	"github.com/digitalloot/storefront/services/admin/internal/models"
)

var ErrStatusChanged = errors.New("order status changed concurrently")

type OrderFilter struct {
	Status orderstatus.Status
	Search string
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter, offset, limit int) (int64, []models.Order, error) {
	q := r.filterOrders(ctx, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, 0, limit)
	err := q.Preload("Items", itemsOrder).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// ExportOrders returns every order matching f, newest first.
func (r *GormRepo) ExportOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := r.filterOrders(ctx, f).
		Preload("Items", itemsOrder).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Items", itemsOrder).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus changes the status if the order is still in from.
// deliveredAt is written only when non-nil.
func (r *GormRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to orderstatus.Status, deliveredAt *time.Time) error {
	updates := map[string]any{"status": to}
	if deliveredAt != nil {
		updates["delivered_at"] = *deliveredAt
	}

	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, orderstatus.Spellings(from)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

// DeleteOrder removes the items first and then the order.
func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) StatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	var rows []models.StatusCount
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *GormRepo) filterOrders(ctx context.Context, f OrderFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if f.Status != "" {
		q = q.Where("status IN ?", orderstatus.Spellings(f.Status))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		p := likePattern(term)
		q = q.Where(
			"LOWER(order_number) LIKE ? ESCAPE '\\' OR LOWER(customer_name) LIKE ? ESCAPE '\\' OR LOWER(customer_email) LIKE ? ESCAPE '\\'",
			p, p, p,
		)
	}
	return q.Session(&gorm.Session{})
}

func itemsOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
