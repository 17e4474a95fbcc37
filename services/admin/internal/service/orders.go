package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/digitalloot/storefront/pkg/events"
	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/pkg/orderstatus"
	"github.com/digitalloot/storefront/services/admin/internal/models"
	"github.com/digitalloot/storefront/services/admin/internal/repo"
)

type OrderAdmin struct {
	Repo      *repo.GormRepo
	Publisher events.Publisher
	Now       func() time.Time
}

type DashboardStats struct {
	TotalOrders int64                        `json:"total_orders"`
	ByStatus    map[orderstatus.Status]int64 `json:"by_status"`
	TotalSales  decimal.Decimal              `json:"total_sales"`
}

// ParseFilter validates the raw status filter. Empty means all statuses.
func ParseFilter(status, search string) (repo.OrderFilter, error) {
	f := repo.OrderFilter{Search: search}
	if status == "" || status == "todos" {
		return f, nil
	}
	st, err := orderstatus.Parse(status)
	if err != nil {
		return f, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	f.Status = st
	return f, nil
}

func (s *OrderAdmin) List(ctx context.Context, f repo.OrderFilter, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, f, offset, limit)
}

func (s *OrderAdmin) Export(ctx context.Context, f repo.OrderFilter) ([]models.Order, error) {
	return s.Repo.ExportOrders(ctx, f)
}

func (s *OrderAdmin) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return o, nil
}

// ChangeStatus sets any known status other than the current one.
func (s *OrderAdmin) ChangeStatus(ctx context.Context, id uuid.UUID, raw string) (*models.Order, error) {
	to, err := orderstatus.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.Status.CheckChange(to); err != nil {
		if errors.Is(err, orderstatus.ErrSameStatus) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.apply(ctx, o, to)
}

// Advance moves the order one step along pending, processing, completed.
func (s *OrderAdmin) Advance(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	to, err := o.Status.Advance()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return s.apply(ctx, o, to)
}

func (s *OrderAdmin) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		return notFound(err, "order")
	}
	s.publish(ctx, events.OrderDeleted, id, map[string]any{"id": id})
	return nil
}

func (s *OrderAdmin) Stats(ctx context.Context) (*DashboardStats, error) {
	rows, err := s.Repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	st := &DashboardStats{ByStatus: map[orderstatus.Status]int64{}, TotalSales: decimal.Zero}
	for _, v := range orderstatus.All() {
		st.ByStatus[v] = 0
	}
	for _, row := range rows {
		status := row.Status
		if parsed, err := orderstatus.Parse(string(row.Status)); err == nil {
			status = parsed
		}
		st.TotalOrders += row.Count
		st.ByStatus[status] += row.Count
		if status.Countable() {
			st.TotalSales = st.TotalSales.Add(row.Total)
		}
	}
	st.TotalSales = st.TotalSales.Round(2)
	return st, nil
}

func (s *OrderAdmin) apply(ctx context.Context, o *models.Order, to orderstatus.Status) (*models.Order, error) {
	from := o.Status

	var delivered *time.Time
	if to == orderstatus.Completed {
		now := s.now()
		delivered = &now
	}

	if err := s.Repo.UpdateStatus(ctx, o.ID, from, to, delivered); err != nil {
		if errors.Is(err, repo.ErrStatusChanged) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	updated, err := s.Get(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order_status_changed", "order_id", o.ID, "from", from, "to", to)
	s.publish(ctx, events.OrderStatusChanged, o.ID, map[string]any{
		"order_number": updated.OrderNumber,
		"from":         from,
		"to":           to,
		"label":        to.Label(),
	})
	return updated, nil
}

func (s *OrderAdmin) publish(ctx context.Context, typ string, id uuid.UUID, data any) {
	if s.Publisher == nil {
		return
	}
	short := strings.TrimPrefix(typ, "order_")
	ev, err := events.NewEvent(typ, id.String(), data)
	if err == nil {
		err = s.Publisher.PublishEvent(ctx, events.TopicOrders, "order-"+short+"-"+id.String(), ev)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", typ, "order_id", id, "error", err)
	}
}

func (s *OrderAdmin) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
