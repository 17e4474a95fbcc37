package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/digitalloot/storefront/pkg/events"
	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/pkg/orderstatus"
	"github.com/digitalloot/storefront/services/order/internal/idempotency"
	"github.com/digitalloot/storefront/services/order/internal/models"
	"github.com/digitalloot/storefront/services/order/internal/repo"
)

const (
	DefaultCountry       = "Perú"
	DefaultPaymentMethod = "card"
)

type Store interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	AddItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status orderstatus.Status, offset, limit int) (int64, []models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to orderstatus.Status) error
	StatsByUser(ctx context.Context, userID uuid.UUID) ([]models.StatusCount, error)
}

type OrderService struct {
	Repo        Store
	Publisher   events.Publisher
	Idempotency idempotency.Store
	Now         func() time.Time
}

type Line struct {
	ProductID uint
	Name      string
	Price     decimal.Decimal
	Image     string
	Category  string
	Quantity  int
}

type Customer struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	City       string
	Country    string
	PostalCode string
}

type PlaceInput struct {
	UserID         uuid.UUID
	Lines          []Line
	Customer       Customer
	PaymentMethod  string
	Notes          string
	IdempotencyKey string
}

type Stats struct {
	Orders     int64                        `json:"orders"`
	TotalSpent decimal.Decimal              `json:"total_spent"`
	ByStatus   map[orderstatus.Status]int64 `json:"by_status"`
}

// PlaceOrder stores the order row and then its items. If the items cannot be
// stored the order row is deleted again; a failed delete is only logged.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceInput) (*models.Order, error) {
	l := logging.FromContext(ctx)

	if err := validatePlace(in); err != nil {
		return nil, err
	}

	idemKey := ""
	if in.IdempotencyKey != "" && s.Idempotency != nil {
		idemKey = in.UserID.String() + ":" + in.IdempotencyKey
		if prev, err := s.Idempotency.Lookup(ctx, idemKey); err != nil {
			l.Warn("idempotency_lookup_failed", "error", err)
		} else if prev != "" {
			if id, err := uuid.Parse(prev); err == nil {
				if o, err := s.Repo.GetOrder(ctx, id); err == nil {
					l.Info("order_replayed", "order_id", o.ID)
					return o, nil
				}
			}
		}
	}

	now := s.now()
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(in.Lines))
	for _, line := range in.Lines {
		lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: strings.TrimSpace(line.Name),
			Category:    line.Category,
			ImageURL:    line.Image,
			Quantity:    line.Quantity,
			UnitPrice:   line.Price.Round(2),
			Subtotal:    lineTotal,
		})
	}
	totals := ComputeTotals(subtotal)
	eta := now.Add(DeliveryWindow)

	order := &models.Order{
		ID:                 uuid.New(),
		OrderNumber:        OrderNumber(now),
		UserID:             in.UserID,
		CustomerName:       strings.TrimSpace(in.Customer.Name),
		CustomerEmail:      strings.ToLower(strings.TrimSpace(in.Customer.Email)),
		CustomerPhone:      strings.TrimSpace(in.Customer.Phone),
		ShippingAddress:    strings.TrimSpace(in.Customer.Address),
		ShippingCity:       strings.TrimSpace(in.Customer.City),
		ShippingCountry:    orDefault(in.Customer.Country, DefaultCountry),
		ShippingPostalCode: strings.TrimSpace(in.Customer.PostalCode),
		PaymentMethod:      orDefault(in.PaymentMethod, DefaultPaymentMethod),
		Notes:              strings.TrimSpace(in.Notes),
		Subtotal:           totals.Subtotal,
		Discount:           totals.Discount,
		Tax:                totals.Tax,
		Shipping:           totals.Shipping,
		Total:              totals.Total,
		Status:             orderstatus.Pending,
		EstimatedDelivery:  &eta,
	}

	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := s.Repo.AddItems(ctx, items); err != nil {
		if delErr := s.Repo.DeleteOrder(ctx, order.ID); delErr != nil {
			l.Error("order_compensation_failed", "order_id", order.ID, "error", delErr)
		} else {
			l.Warn("order_compensated", "order_id", order.ID, "error", err)
		}
		return nil, fmt.Errorf("add order items: %w", err)
	}
	order.Items = items

	if idemKey != "" {
		if err := s.Idempotency.Remember(ctx, idemKey, order.ID.String()); err != nil {
			l.Warn("idempotency_remember_failed", "order_id", order.ID, "error", err)
		}
	}

	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

func (s *OrderService) MyOrders(ctx context.Context, userID uuid.UUID, status string, offset, limit int) (int64, []models.Order, error) {
	var st orderstatus.Status
	if status != "" {
		parsed, err := orderstatus.Parse(status)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		st = parsed
	}
	return s.Repo.ListByUser(ctx, userID, st, offset, limit)
}

// GetOrder returns the order if the caller owns it or is an admin.
func (s *OrderService) GetOrder(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if o.UserID != callerID && !isAdmin {
		return nil, fmt.Errorf("%w: not your order", ErrForbidden)
	}
	return o, nil
}

// Cancel moves a pending order to cancelled.
func (s *OrderService) Cancel(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) (*models.Order, error) {
	o, err := s.GetOrder(ctx, id, callerID, isAdmin)
	if err != nil {
		return nil, err
	}
	if o.Status != orderstatus.Pending {
		return nil, fmt.Errorf("%w: only pending orders can be cancelled, order is %s", ErrConflict, o.Status)
	}

	if err := s.Repo.UpdateStatus(ctx, o.ID, orderstatus.Pending, orderstatus.Cancelled); err != nil {
		if errors.Is(err, repo.ErrStatusChanged) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}
	o.Status = orderstatus.Cancelled

	s.publish(ctx, events.OrderCancelled, o)
	return o, nil
}

func (s *OrderService) MyStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	rows, err := s.Repo.StatsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := &Stats{TotalSpent: decimal.Zero, ByStatus: map[orderstatus.Status]int64{}}
	for _, v := range orderstatus.All() {
		st.ByStatus[v] = 0
	}
	for _, row := range rows {
		status, err := orderstatus.Parse(string(row.Status))
		if err != nil {
			status = row.Status
		}
		st.Orders += row.Count
		st.ByStatus[status] += row.Count
		if status.Countable() {
			st.TotalSpent = st.TotalSpent.Add(row.Total)
		}
	}
	st.TotalSpent = st.TotalSpent.Round(2)
	return st, nil
}

func (s *OrderService) publish(ctx context.Context, typ string, o *models.Order) {
	if s.Publisher == nil {
		return
	}
	short := strings.TrimPrefix(typ, "order_")
	ev, err := events.NewEvent(typ, o.ID.String(), map[string]any{
		"order_number": o.OrderNumber,
		"user_id":      o.UserID,
		"status":       o.Status,
		"total":        o.Total,
	})
	if err == nil {
		err = s.Publisher.PublishEvent(ctx, events.TopicOrders, "order-"+short+"-"+o.ID.String(), ev)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", typ, "order_id", o.ID, "error", err)
	}
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func validatePlace(in PlaceInput) error {
	if in.UserID == uuid.Nil {
		return fmt.Errorf("%w: user required", ErrValidation)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	for i, line := range in.Lines {
		if strings.TrimSpace(line.Name) == "" {
			return fmt.Errorf("%w: item %d: name required", ErrValidation, i)
		}
		if line.Quantity < 1 {
			return fmt.Errorf("%w: item %d: quantity must be at least 1", ErrValidation, i)
		}
		if line.Price.IsNegative() {
			return fmt.Errorf("%w: item %d: price cannot be negative", ErrValidation, i)
		}
	}
	if strings.TrimSpace(in.Customer.Name) == "" {
		return fmt.Errorf("%w: customer name required", ErrValidation)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Customer.Email)); err != nil {
		return fmt.Errorf("%w: customer email invalid", ErrValidation)
	}
	return nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: order", ErrNotFound)
	}
	return err
}
