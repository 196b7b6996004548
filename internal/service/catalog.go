package service

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/storekit/storefront/internal/events"
	"github.com/storekit/storefront/internal/logging"
	"github.com/storekit/storefront/internal/models"
	"github.com/storekit/storefront/internal/repo"
	"github.com/storekit/storefront/internal/search"
	"github.com/storekit/storefront/internal/transport"
	"github.com/storekit/storefront/internal/util"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	ES       *elasticsearch.Client
	Producer *events.Producer
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) List(ctx context.Context, q transport.ListProductsQuery) ([]models.Product, transport.PageMeta, error) {
	offset, limit := util.Calculate(q.Page, q.Limit)
	page := offset/limit + 1

	total, items, err := s.Repo.ListProducts(ctx, q, offset, limit)
	if err != nil {
		return nil, transport.PageMeta{}, err
	}

	meta := transport.PageMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: util.TotalPages(total, limit),
	}
	return items, meta, nil
}

// Create requires name and price; uploadedPath wins over any image URL in
// the body.
func (s *CatalogService) Create(ctx context.Context, in transport.ProductInput, uploadedPath string) (*models.Product, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Price == nil {
		return nil, fmt.Errorf("%w: price is required", ErrValidation)
	}
	if err := validatePriceStock(in.Price, in.Stock); err != nil {
		return nil, err
	}

	prod := models.Product{
		Name:  *in.Name,
		Price: *in.Price,
	}
	if in.Description != nil {
		prod.Description = *in.Description
	}
	if in.Category != nil {
		prod.Category = *in.Category
	}
	if in.Stock != nil {
		prod.Stock = *in.Stock
	}
	switch {
	case uploadedPath != "":
		prod.Image = uploadedPath
	case in.Image != nil:
		prod.Image = *in.Image
	}

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		logging.FromContext(ctx).Error("create_product_error", "error", err)
		return nil, err
	}

	s.index(ctx, &prod)
	s.publish(ctx, prod.ID, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return &prod, nil
}

// Update applies only the supplied fields. An explicit empty image clears
// the stored reference; omitting it leaves the image untouched.
func (s *CatalogService) Update(ctx context.Context, id uint, in transport.ProductInput, uploadedPath string) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validatePriceStock(in.Price, in.Stock); err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		prod.Name = *in.Name
	}
	if in.Description != nil {
		prod.Description = *in.Description
	}
	if in.Price != nil {
		prod.Price = *in.Price
	}
	if in.Category != nil {
		prod.Category = *in.Category
	}
	if in.Stock != nil {
		prod.Stock = *in.Stock
	}
	switch {
	case uploadedPath != "":
		prod.Image = uploadedPath
	case in.Image != nil:
		prod.Image = *in.Image
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Error("update_product_error", "error", err)
		return nil, err
	}

	s.index(ctx, prod)
	s.publish(ctx, prod.ID, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return prod, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if s.ES != nil {
		if err := search.DeleteProduct(ctx, s.ES, search.ProductIndex, id); err != nil {
			logging.FromContext(ctx).Error("es_delete_error", "productID", id, "error", err)
		}
	}
	s.publish(ctx, id, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

// SearchText runs the Elasticsearch query. Fails when no ES client was
// configured.
func (s *CatalogService) SearchText(ctx context.Context, q string, page, limit int) ([]models.Product, transport.PageMeta, error) {
	if s.ES == nil {
		return nil, transport.PageMeta{}, ErrSearchUnavailable
	}

	offset, limit := util.Calculate(page, limit)
	total, items, err := search.Search(ctx, s.ES, search.ProductIndex, q, offset, limit)
	if err != nil {
		return nil, transport.PageMeta{}, err
	}

	meta := transport.PageMeta{
		Page:       offset/limit + 1,
		Limit:      limit,
		Total:      total,
		TotalPages: util.TotalPages(total, limit),
	}
	return items, meta, nil
}

func validatePriceStock(price *float64, stock *int) error {
	if price != nil && *price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if stock != nil && *stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	return nil
}

func (s *CatalogService) index(ctx context.Context, prod *models.Product) {
	if s.ES == nil {
		return
	}
	if err := search.IndexProduct(ctx, s.ES, search.ProductIndex, prod); err != nil {
		logging.FromContext(ctx).Error("es_index_error", "productID", prod.ID, "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, key uint, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicProductEvents, fmt.Sprint(key), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", events.TopicProductEvents, "error", err)
	}
}
