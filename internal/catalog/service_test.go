package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdemart/verdemart-backend/pkg/db/models"
	"github.com/verdemart/verdemart-backend/pkg/enums"
	pkgerrors "github.com/verdemart/verdemart-backend/pkg/errors"
)

type stubRepo struct {
	products  map[uuid.UUID]*models.Product
	listErr   error
	createErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{products: map[uuid.UUID]*models.Product{}}
}

func (s *stubRepo) ListAll(ctx context.Context) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *stubRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func TestCreateProductDefaultsCurrency(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	created, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:       "Tortillas de maiz",
		Category:   "abarrotes",
		ImageSrc:   "https://cdn.example.com/tortillas.jpg",
		ImageAlt:   "Tortillas",
		PriceCents: 2800,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.Currency != string(enums.CurrencyMXN) {
		t.Fatalf("expected MXN default, got %s", created.Currency)
	}
	if created.PriceDisplay != "$28.00 MXN" {
		t.Fatalf("expected display $28.00 MXN, got %s", created.PriceDisplay)
	}
}

func TestCreateProductRecurring(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(repo)

	created, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:              "Canasta semanal",
		Category:          "suscripciones",
		ImageSrc:          "https://cdn.example.com/canasta.jpg",
		ImageAlt:          "Canasta",
		PriceCents:        35000,
		RecurringInterval: "week",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	stored := repo.products[created.ID]
	if !stored.IsRecurring() {
		t.Fatal("expected stored product to be recurring")
	}
	if created.RecurringInterval != "week" {
		t.Fatalf("expected interval week, got %s", created.RecurringInterval)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	svc, _ := NewService(newStubRepo())

	_, err := svc.UpdateProduct(context.Background(), UpdateProductRequest{
		ID: uuid.New(),
		CreateProductRequest: CreateProductRequest{
			Name:       "Fantasma",
			Category:   "abarrotes",
			PriceCents: 100,
		},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(repo)

	created, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:       "Frijol negro",
		Category:   "abarrotes",
		ImageSrc:   "https://cdn.example.com/frijol.jpg",
		ImageAlt:   "Frijol",
		PriceCents: 3200,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	updated, err := svc.UpdateProduct(context.Background(), UpdateProductRequest{
		ID: created.ID,
		CreateProductRequest: CreateProductRequest{
			Name:       "Frijol negro premium",
			Category:   "abarrotes",
			ImageSrc:   "https://cdn.example.com/frijol.jpg",
			ImageAlt:   "Frijol",
			PriceCents: 3900,
		},
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected id %s preserved, got %s", created.ID, updated.ID)
	}
	if updated.Name != "Frijol negro premium" {
		t.Fatalf("expected updated name, got %s", updated.Name)
	}
	if updated.PriceCents != 3900 {
		t.Fatalf("expected price 3900, got %d", updated.PriceCents)
	}
}

func TestGetProductDependencyError(t *testing.T) {
	repo := newStubRepo()
	repo.listErr = context.DeadlineExceeded
	svc, _ := NewService(repo)

	_, err := svc.ListProducts(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}
