package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nakamoto-negai/oshare-style-linkers/domain"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/gateway"
)

// Catalog covers the read-only product surface: items, brands, categories,
// and the curated styles.
type Catalog struct {
	gw *gateway.Client
}

func NewCatalog(gw *gateway.Client) *Catalog {
	return &Catalog{gw: gw}
}

// Items lists available products. params maps onto the endpoint's filters
// (brand, category, condition, size, is_featured, search, ordering).
func (s *Catalog) Items(ctx context.Context, params url.Values) ([]domain.ItemSummary, error) {
	path := "/items/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var items []domain.ItemSummary
	if err := s.gw.GetJSON(ctx, "ListItems", path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Item fetches one product with its full detail and extra photos.
func (s *Catalog) Item(ctx context.Context, id int) (*domain.Item, error) {
	var item domain.Item
	if err := s.gw.GetJSON(ctx, "GetItem", fmt.Sprintf("/items/%d/", id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Featured lists the promoted products.
func (s *Catalog) Featured(ctx context.Context) ([]domain.ItemSummary, error) {
	var items []domain.ItemSummary
	if err := s.gw.GetJSON(ctx, "FeaturedItems", "/items/featured/", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Brands lists all brands.
func (s *Catalog) Brands(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand
	if err := s.gw.GetJSON(ctx, "ListBrands", "/brands/", &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

// Categories lists all categories.
func (s *Catalog) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := s.gw.GetJSON(ctx, "ListCategories", "/categories/", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

type stylesEnvelope struct {
	Styles []domain.Style `json:"styles"`
}

// Styles lists the curated style entries.
func (s *Catalog) Styles(ctx context.Context) ([]domain.Style, error) {
	var payload stylesEnvelope
	if err := s.gw.GetJSON(ctx, "ListStyles", "/styles/", &payload); err != nil {
		return nil, err
	}
	return payload.Styles, nil
}
