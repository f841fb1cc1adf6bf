package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/verdemart/verdemart-backend/internal/cart"
	"github.com/verdemart/verdemart-backend/pkg/config"
	"github.com/verdemart/verdemart-backend/pkg/db/models"
	"github.com/verdemart/verdemart-backend/pkg/enums"
	pkgerrors "github.com/verdemart/verdemart-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service turns a cart into a hosted Stripe Checkout session.
type Service interface {
	CreateSession(ctx context.Context, lines []cart.Line) (*SessionResponse, error)
}

// SessionResponse is what the storefront needs to hand the shopper to Stripe.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type service struct {
	products productLoader
	stripe   StripeSessionClient
	cfg      config.CheckoutConfig
}

// NewService builds the checkout service.
func NewService(products productLoader, stripeClient StripeSessionClient, cfg config.CheckoutConfig) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if stripeClient == nil {
		return nil, fmt.Errorf("stripe session client required")
	}
	return &service{
		products: products,
		stripe:   stripeClient,
		cfg:      cfg,
	}, nil
}

// CreateSession validates every cart line against the current catalog, prices
// the session from the stored products, and opens a hosted Stripe session.
// Client-supplied prices never reach Stripe.
func (s *service) CreateSession(ctx context.Context, lines []cart.Line) (*SessionResponse, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, line := range lines {
		if line.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantities must be positive").
				WithDetails(map[string]any{"product_id": line.ProductID.String()})
		}
	}

	products, invalid, err := s.resolveProducts(ctx, lines)
	if err != nil {
		return nil, err
	}
	if len(invalid) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidItem, "cart contains items no longer in the catalog").
			WithDetails(map[string]any{"product_ids": invalid})
	}

	mode := enums.PaymentModeOneTime
	for _, product := range products {
		if product.IsRecurring() {
			mode = enums.PaymentModeSubscription
			break
		}
	}

	params := s.sessionParams(lines, products, mode)
	created, err := s.stripe.CreateSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, processorMessage(err))
	}

	return &SessionResponse{SessionID: created.ID, URL: created.URL}, nil
}

// resolveProducts re-reads every referenced product so the session always
// carries catalog prices. Unknown ids are collected rather than failing fast
// so the whole problem set reaches the caller at once.
func (s *service) resolveProducts(ctx context.Context, lines []cart.Line) (map[uuid.UUID]*models.Product, []string, error) {
	products := make(map[uuid.UUID]*models.Product, len(lines))
	var invalid []string

	for _, line := range lines {
		if _, seen := products[line.ProductID]; seen {
			continue
		}
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				invalid = append(invalid, line.ProductID.String())
				continue
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart products")
		}
		products[line.ProductID] = product
	}
	return products, invalid, nil
}

func (s *service) sessionParams(lines []cart.Line, products map[uuid.UUID]*models.Product, mode enums.PaymentMode) *stripe.CheckoutSessionParams {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, line := range lines {
		product := products[line.ProductID]

		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(strings.ToLower(string(product.Currency))),
			UnitAmount: stripe.Int64(int64(product.PriceCents)),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(product.Name),
			},
		}
		if product.ImageSrc != "" {
			priceData.ProductData.Images = stripe.StringSlice([]string{product.ImageSrc})
		}
		if product.IsRecurring() {
			priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
				Interval: stripe.String(product.RecurringInterval.String()),
			}
		}

		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: priceData,
			Quantity:  stripe.Int64(int64(line.Qty)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(mode)),
		LineItems:          items,
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Locale:             stripe.String(s.cfg.Locale),
		SuccessURL:         stripe.String(s.cfg.SuccessURL()),
		CancelURL:          stripe.String(s.cfg.CancelURL()),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{s.cfg.ShippingRegion}),
		},
	}
	// Stripe rejects submit_type outside one-time payment mode.
	if mode == enums.PaymentModeOneTime {
		params.SubmitType = stripe.String("pay")
	}
	return params
}

// processorMessage prefers Stripe's own wording so the storefront can show
// what the processor rejected.
func processorMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return "stripe: create checkout session"
}
