package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdemart/verdemart-backend/pkg/db/models"
	"github.com/verdemart/verdemart-backend/pkg/enums"
	pkgerrors "github.com/verdemart/verdemart-backend/pkg/errors"
)

// Service exposes catalog read and write operations.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, req UpdateProductRequest) (*ProductResponse, error)
}

type service struct {
	repo Repository
}

// NewService constructs a catalog service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// ListProducts returns every catalog entry in insertion order. Read failures
// surface as typed errors rather than an empty list so callers can distinguish
// an empty catalog from a broken one.
func (s *service) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return ToProductResponses(products), nil
}

// GetProduct loads a single catalog entry by id.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}
	return product, nil
}

// CreateProduct inserts a new catalog entry.
func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := req.toModel()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid expiration_date")
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	resp := ToProductResponse(created)
	return &resp, nil
}

// UpdateProduct replaces an existing catalog entry in full.
func (s *service) UpdateProduct(ctx context.Context, req UpdateProductRequest) (*ProductResponse, error) {
	existing, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}

	next, err := req.toModel()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid expiration_date")
	}
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	if next.Currency == "" {
		next.Currency = enums.CurrencyMXN
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	resp := ToProductResponse(updated)
	return &resp, nil
}
