package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/digitalloot/storefront/pkg/events"
	"github.com/digitalloot/storefront/pkg/logging"
	"github.com/digitalloot/storefront/services/catalog/internal/models"
	"github.com/digitalloot/storefront/services/catalog/internal/repo"
)

const DefaultFeaturedLimit = 8

// Searcher is the full text index. CatalogService works without one.
type Searcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
	Put(ctx context.Context, p *models.Product) error
	Remove(ctx context.Context, id uint) error
}

type CatalogService struct {
	Repo          *repo.GormRepo
	Search        Searcher
	Publisher     events.Publisher
	StorageBase   string
	FeaturedLimit int
}

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Platform    string
	Category    string
	ImageURL    string
	Active      *bool
	Featured    bool
}

type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Platform    *string
	Category    *string
	ImageURL    *string
	Active      *bool
	Featured    *bool
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.Filter) (int64, []models.Product, error) {
	if f.Sort != "" && !validSort(f.Sort) {
		return 0, nil, fmt.Errorf("%w: unknown sort %q", ErrValidation, f.Sort)
	}
	total, items, err := s.Repo.ListProducts(ctx, f)
	if err != nil {
		return 0, nil, err
	}
	return total, s.resolve(items), nil
}

func (s *CatalogService) Featured(ctx context.Context) ([]models.Product, error) {
	limit := s.FeaturedLimit
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	items, err := s.Repo.Featured(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.resolve(items), nil
}

func (s *CatalogService) Platforms(ctx context.Context) ([]string, error) {
	return s.Repo.Platforms(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	p.Image = ResolveImage(s.StorageBase, p.ImageURL)
	return p, nil
}

// SearchProducts queries the search index and falls back to a name match in
// the database when the index is missing or failing.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, []models.Product{}, nil
	}

	if s.Search != nil {
		total, items, err := s.Search.Search(ctx, query, offset, limit)
		if err == nil {
			return total, s.resolve(items), nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "error", err)
	}

	total, items, err := s.Repo.SearchByName(ctx, query, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	return total, s.resolve(items), nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	p := &models.Product{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		Platform:    strings.TrimSpace(in.Platform),
		Category:    strings.TrimSpace(in.Category),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Active:      active,
		Featured:    in.Featured,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	p.Image = ResolveImage(s.StorageBase, p.ImageURL)
	s.changed(ctx, events.ProductCreated, p)
	return p, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, in ProductPatch) (*models.Product, error) {
	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		updates["name"] = name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
		}
		updates["price"] = in.Price.Round(2)
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Platform != nil {
		updates["platform"] = strings.TrimSpace(*in.Platform)
	}
	if in.Category != nil {
		updates["category"] = strings.TrimSpace(*in.Category)
	}
	if in.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*in.ImageURL)
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if in.Featured != nil {
		updates["featured"] = *in.Featured
	}

	p, err := s.Repo.UpdateProduct(ctx, id, updates)
	if err != nil {
		return nil, notFound(err)
	}

	p.Image = ResolveImage(s.StorageBase, p.ImageURL)
	s.changed(ctx, events.ProductUpdated, p)
	return p, nil
}

func (s *CatalogService) ToggleActive(ctx context.Context, id uint) (*models.Product, error) {
	return s.toggle(ctx, id, func(p *models.Product) ProductPatch {
		v := !p.Active
		return ProductPatch{Active: &v}
	})
}

func (s *CatalogService) ToggleFeatured(ctx context.Context, id uint) (*models.Product, error) {
	return s.toggle(ctx, id, func(p *models.Product) ProductPatch {
		v := !p.Featured
		return ProductPatch{Featured: &v}
	})
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err)
	}

	if s.Search != nil {
		if err := s.Search.Remove(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_remove_failed", "product_id", id, "error", err)
		}
	}
	s.publish(ctx, events.ProductDeleted, id, map[string]any{"id": id})
	return nil
}

func (s *CatalogService) toggle(ctx context.Context, id uint, flip func(*models.Product) ProductPatch) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return s.PatchProduct(ctx, id, flip(p))
}

// changed keeps the search index and event stream in step with a stored
// product. Both are best effort.
func (s *CatalogService) changed(ctx context.Context, typ string, p *models.Product) {
	if s.Search != nil {
		if err := s.Search.Put(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
		}
	}
	s.publish(ctx, typ, p.ID, p)
}

func (s *CatalogService) publish(ctx context.Context, typ string, id uint, data any) {
	if s.Publisher == nil {
		return
	}
	key := "product-" + strconv.FormatUint(uint64(id), 10)
	ev, err := events.NewEvent(typ, strconv.FormatUint(uint64(id), 10), data)
	if err == nil {
		err = s.Publisher.PublishEvent(ctx, events.TopicProducts, key, ev)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", typ, "error", err)
	}
}

func (s *CatalogService) resolve(items []models.Product) []models.Product {
	for i := range items {
		items[i].Image = ResolveImage(s.StorageBase, items[i].ImageURL)
	}
	return items
}

func validSort(sort string) bool {
	switch sort {
	case repo.SortPriceAsc, repo.SortPriceDesc, repo.SortNameAsc, repo.SortNameDesc:
		return true
	}
	return false
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product", ErrNotFound)
	}
	return err
}
