package service

import (
	"context"
	"errors"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
)

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput) error
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	productRepo repository.ProductRepository
	now         func() time.Time
}

// ProductServiceOption configures a ProductService
type ProductServiceOption func(*productService)

// WithClock overrides the time source used for created_at/updated_at.
func WithClock(now func() time.Time) ProductServiceOption {
	return func(s *productService) {
		s.now = now
	}
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, opts ...ProductServiceOption) ProductService {
	s := &productService{
		productRepo: productRepo,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp is the current time at the precision every supported column keeps.
func (s *productService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create stores a new product with created_at and updated_at set to the same instant
func (s *productService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	now := s.timestamp()

	product := &domain.Product{
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(product)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, wrap(err)
	}

	return product, nil
}

// List returns every product
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, wrap(err)
	}
	return products, nil
}

// Get retrieves a product by ID
func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, wrap(err)
	}
	return product, nil
}

// Update replaces every mutable field of a product and refreshes updated_at
func (s *productService) Update(ctx context.Context, id int64, in domain.ProductInput) error {
	product := &domain.Product{
		ID:        id,
		UpdatedAt: s.timestamp(),
	}
	in.Apply(product)

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		return wrap(err)
	}
	return nil
}

// Delete removes a product
func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		return wrap(err)
	}
	return nil
}
