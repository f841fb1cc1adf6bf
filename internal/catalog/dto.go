package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdemart/verdemart-backend/pkg/db/models"
	"github.com/verdemart/verdemart-backend/pkg/enums"
	"github.com/verdemart/verdemart-backend/pkg/money"
)

// CreateProductRequest is the payload for adding a catalog entry.
type CreateProductRequest struct {
	Name              string   `json:"name" validate:"required,min=1,max=200"`
	Description       string   `json:"description" validate:"max=2000"`
	Category          string   `json:"category" validate:"required,min=1,max=100"`
	Tags              []string `json:"tags" validate:"dive,min=1,max=50"`
	ImageSrc          string   `json:"image_src" validate:"omitempty,url"`
	ImageAlt          string   `json:"image_alt" validate:"max=200"`
	PriceCents        int      `json:"price_cents" validate:"required,gt=0"`
	Currency          string   `json:"currency" validate:"omitempty,oneof=MXN USD"`
	RecurringInterval string   `json:"recurring_interval" validate:"omitempty,oneof=day week month year"`
	ExpirationDate    *string  `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateProductRequest carries a full replacement for an existing entry.
type UpdateProductRequest struct {
	ID uuid.UUID `json:"id" validate:"required"`
	CreateProductRequest
}

// ProductResponse is the public shape of a catalog entry.
type ProductResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Category          string    `json:"category"`
	Tags              []string  `json:"tags"`
	ImageSrc          string    `json:"image_src,omitempty"`
	ImageAlt          string    `json:"image_alt,omitempty"`
	PriceCents        int       `json:"price_cents"`
	PriceDisplay      string    `json:"price_display"`
	Currency          string    `json:"currency"`
	RecurringInterval string    `json:"recurring_interval,omitempty"`
	ExpirationDate    *string   `json:"expiration_date,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToProductResponse maps a stored product to its public shape.
func ToProductResponse(p *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Tags:         p.Tags,
		ImageSrc:     p.ImageSrc,
		ImageAlt:     p.ImageAlt,
		PriceCents:   p.PriceCents,
		PriceDisplay: money.Display(int64(p.PriceCents), p.Currency),
		Currency:     string(p.Currency),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Description != nil {
		resp.Description = *p.Description
	}
	if p.RecurringInterval != nil {
		resp.RecurringInterval = string(*p.RecurringInterval)
	}
	if p.ExpirationDate != nil {
		d := p.ExpirationDate.Format("2006-01-02")
		resp.ExpirationDate = &d
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}

// ToProductResponses maps a product slice to its public shapes.
func ToProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}

func (req *CreateProductRequest) toModel() (*models.Product, error) {
	product := &models.Product{
		Name:       req.Name,
		Category:   req.Category,
		Tags:       req.Tags,
		ImageSrc:   req.ImageSrc,
		ImageAlt:   req.ImageAlt,
		PriceCents: req.PriceCents,
		Currency:   enums.CurrencyMXN,
	}
	if req.Description != "" {
		product.Description = &req.Description
	}
	if req.Currency != "" {
		product.Currency = enums.Currency(req.Currency)
	}
	if req.RecurringInterval != "" {
		interval := enums.RecurringInterval(req.RecurringInterval)
		product.RecurringInterval = &interval
	}
	if req.ExpirationDate != nil {
		t, err := time.Parse("2006-01-02", *req.ExpirationDate)
		if err != nil {
			return nil, err
		}
		product.ExpirationDate = &t
	}
	return product, nil
}
