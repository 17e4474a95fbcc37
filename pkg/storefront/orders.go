package storefront

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/digitalloot/storefront/pkg/cart"
	"github.com/digitalloot/storefront/pkg/pagination"
)

var ErrEmptyCart = errors.New("cart is empty")

type CheckoutInput struct {
	Customer      Customer
	PaymentMethod string
	Notes         string
}

type orderLine struct {
	ProductID uint64 `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Image     string `json:"image,omitempty"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Checkout places an order for the cart contents and clears the cart once
// the order is accepted. Retries of the same call are deduplicated by the
// server through the idempotency key.
func (c *Client) Checkout(ctx context.Context, ct *cart.Cart, in CheckoutInput) (*Order, error) {
	if !c.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	items := ct.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]orderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, orderLine{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price.StringFixed(2),
			Image:     it.Image,
			Category:  it.Category,
			Quantity:  it.Quantity,
		})
	}
	body := map[string]any{
		"items":          lines,
		"customer":       in.Customer,
		"payment_method": in.PaymentMethod,
		"notes":          in.Notes,
	}

	var out Order
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/orders",
		body:    body,
		headers: map[string]string{"Idempotency-Key": uuid.NewString()},
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := ct.Clear(); err != nil {
		return &out, err
	}
	return &out, nil
}

func (c *Client) MyOrders(ctx context.Context, status string, page, size int) (*pagination.Page[Order], error) {
	v := url.Values{}
	if status != "" {
		v.Set("status", status)
	}
	pageParams(v, page, size)

	var out pagination.Page[Order]
	err := c.do(ctx, request{method: http.MethodGet, path: "/orders", query: v}, &out)
	return &out, err
}

func (c *Client) Order(ctx context.Context, id string) (*Order, error) {
	var out Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/" + url.PathEscape(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	if err := c.do(ctx, request{method: http.MethodPost, path: "/orders/" + url.PathEscape(id) + "/cancel"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyStats(ctx context.Context) (*OrderStats, error) {
	var out OrderStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/stats"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
