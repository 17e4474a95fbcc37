package storefront

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/digitalloot/storefront/pkg/pagination"
)

type OrderQuery struct {
	Status string
	Search string
	Page   int
	Size   int
}

func (q OrderQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	pageParams(v, q.Page, q.Size)
	return v
}

type ContactMessage struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactInput struct {
	Name    string `json:"nombre"`
	Email   string `json:"email"`
	Phone   string `json:"telefono,omitempty"`
	Subject string `json:"asunto,omitempty"`
	Message string `json:"mensaje"`
}

func (c *Client) AdminOrders(ctx context.Context, q OrderQuery) (*pagination.Page[Order], error) {
	var out pagination.Page[Order]
	err := c.do(ctx, request{method: http.MethodGet, path: "/admin/orders", query: q.values()}, &out)
	return &out, err
}

func (c *Client) AdminOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	if err := c.do(ctx, request{method: http.MethodGet, path: adminOrderPath(id, "")}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OrderDashboard(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/orders/stats"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminStats(ctx context.Context) (*GlobalStats, error) {
	var out GlobalStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/stats"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetOrderStatus(ctx context.Context, id, status string) (*Order, error) {
	var out Order
	body := map[string]string{"status": status}
	if err := c.do(ctx, request{method: http.MethodPut, path: adminOrderPath(id, "/status"), body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdvanceOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	if err := c.do(ctx, request{method: http.MethodPost, path: adminOrderPath(id, "/next")}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: adminOrderPath(id, "")}, nil)
}

// ExportOrders downloads the orders as csv or xlsx and returns the file
// contents with the name suggested by the server.
func (c *Client) ExportOrders(ctx context.Context, format string, q OrderQuery) ([]byte, string, error) {
	format = strings.ToLower(format)
	if format != "csv" && format != "xlsx" {
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
	q.Page, q.Size = 0, 0

	body, header, err := c.raw(ctx, request{method: http.MethodGet, path: "/admin/orders/export." + format, query: q.values()})
	if err != nil {
		return nil, "", err
	}
	name := "pedidos." + format
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return body, name, nil
}

func (c *Client) Users(ctx context.Context, search string, adminsOnly bool, page, size int) (*pagination.Page[User], error) {
	path := "/admin/users"
	if adminsOnly {
		path += "/admins"
	}
	v := url.Values{}
	if search != "" {
		v.Set("q", search)
	}
	pageParams(v, page, size)

	var out pagination.Page[User]
	err := c.do(ctx, request{method: http.MethodGet, path: path, query: v}, &out)
	return &out, err
}

// Promote grants the admin role. ref is a user id or an email.
func (c *Client) Promote(ctx context.Context, ref string) (*User, error) {
	return c.setRole(ctx, "/admin/users/promote", ref)
}

func (c *Client) Demote(ctx context.Context, ref string) (*User, error) {
	return c.setRole(ctx, "/admin/users/demote", ref)
}

func (c *Client) setRole(ctx context.Context, path, ref string) (*User, error) {
	body := map[string]string{"id": ref}
	if strings.Contains(ref, "@") {
		body = map[string]string{"email": ref}
	}
	var out User
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ContactMessages(ctx context.Context, page, size int) (*pagination.Page[ContactMessage], error) {
	v := url.Values{}
	pageParams(v, page, size)

	var out pagination.Page[ContactMessage]
	err := c.do(ctx, request{method: http.MethodGet, path: "/admin/contact", query: v}, &out)
	return &out, err
}

func (c *Client) SendContact(ctx context.Context, in ContactInput) (*ContactMessage, error) {
	var out ContactMessage
	if err := c.do(ctx, request{method: http.MethodPost, path: "/contact", body: in, public: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func adminOrderPath(id, suffix string) string {
	return "/admin/orders/" + url.PathEscape(id) + suffix
}
