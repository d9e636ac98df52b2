package services

import (
	"context"
	"log"

	"shopsite/internal/models"
	"shopsite/internal/repositories"
)

// ProductService handles business logic related to products, fronted by a
// response cache for reads.
type ProductService struct {
	repo  repositories.ProductRepository
	cache Cache
}

// NewProductService creates a new ProductService. The cache may be nil, in
// which case every read goes to the repository.
func NewProductService(repo repositories.ProductRepository, cache Cache) *ProductService {
	return &ProductService{
		repo:  repo,
		cache: cache,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product, serving from cache when warm.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProduct(ctx, id)
		if err != nil {
			log.Printf("Product cache read failed for %s: %v", id, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			log.Printf("Product cache write failed for %s: %v", id, err)
		}
	}
	return product, nil
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product and drops its cached detail.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.invalidate(ctx, product.ID)
	return nil
}

// DeleteProduct deletes a product by its ID and drops its cached detail.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// RestockProduct adds inventory to a product and drops its cached detail,
// so the new stock level is visible immediately.
func (s *ProductService) RestockProduct(ctx context.Context, id string, quantity int) error {
	if err := s.repo.AddStock(id, quantity); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		log.Printf("Product cache invalidation failed for %s: %v", id, err)
	}
}
