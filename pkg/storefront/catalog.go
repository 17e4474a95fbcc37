package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/digitalloot/storefront/pkg/pagination"
)

type ProductQuery struct {
	Platform     string
	Category     string
	FeaturedOnly bool
	Search       string
	Sort         string
	Page         int
	Size         int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("plataforma", q.Platform)
	set("category", q.Category)
	set("q", q.Search)
	set("sort", q.Sort)
	if q.FeaturedOnly {
		v.Set("featured", "true")
	}
	pageParams(v, q.Page, q.Size)
	return v
}

func pageParams(v url.Values, page, size int) {
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}
}

func (c *Client) Products(ctx context.Context, q ProductQuery) (*pagination.Page[Product], error) {
	var out pagination.Page[Product]
	err := c.do(ctx, request{method: http.MethodGet, path: "/catalog/products", query: q.values(), public: true}, &out)
	return &out, err
}

func (c *Client) Featured(ctx context.Context) ([]Product, error) {
	var out []Product
	err := c.do(ctx, request{method: http.MethodGet, path: "/catalog/products/featured", public: true}, &out)
	return out, err
}

func (c *Client) Platforms(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, request{method: http.MethodGet, path: "/catalog/platforms", public: true}, &out)
	return out, err
}

func (c *Client) Product(ctx context.Context, id uint) (*Product, error) {
	var out Product
	err := c.do(ctx, request{method: http.MethodGet, path: "/catalog/products/" + strconv.FormatUint(uint64(id), 10), public: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Search(ctx context.Context, term string, page, size int) (*pagination.Page[Product], error) {
	v := url.Values{"q": {term}}
	pageParams(v, page, size)

	var out pagination.Page[Product]
	err := c.do(ctx, request{method: http.MethodGet, path: "/catalog/products/search", query: v, public: true}, &out)
	return &out, err
}
