package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/verdemart/verdemart-backend/pkg/db/models"
	"github.com/verdemart/verdemart-backend/pkg/enums"
	pkgerrors "github.com/verdemart/verdemart-backend/pkg/errors"
	"github.com/verdemart/verdemart-backend/pkg/logger"
	"github.com/verdemart/verdemart-backend/pkg/types"
)

const idempotencyScope = "checkout"

type idempotencyGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service records and serves orders.
type Service interface {
	RecordFromSession(ctx context.Context, sessionID string) (*OrderResponse, error)
	Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error)
}

type service struct {
	repo     Repository
	stripe   StripeSessionReader
	guard    idempotencyGuard
	users    userFinder
	guardTTL time.Duration
	logg     *logger.Logger
}

// ServiceParams collects the order service dependencies. Users is optional;
// without it orders simply carry no internal customer link.
type ServiceParams struct {
	Repo     Repository
	Stripe   StripeSessionReader
	Guard    idempotencyGuard
	Users    userFinder
	GuardTTL time.Duration
	Logger   *logger.Logger
}

// NewService builds the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Stripe == nil {
		return nil, fmt.Errorf("stripe session reader required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("idempotency guard required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	ttl := params.GuardTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &service{
		repo:     params.Repo,
		stripe:   params.Stripe,
		guard:    params.Guard,
		users:    params.Users,
		guardTTL: ttl,
		logg:     params.Logger,
	}, nil
}

// RecordFromSession turns a completed Stripe session into a stored order.
// Repeated delivery of the same session returns the already-recorded order.
func (s *service) RecordFromSession(ctx context.Context, sessionID string) (*OrderResponse, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session_id is required")
	}
	ctx = s.logg.WithSessionID(ctx, sessionID)

	if existing, err := s.findRecorded(ctx, sessionID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	guardKey := s.guard.IdempotencyKey(idempotencyScope, sessionID)
	acquired, err := s.guard.SetNX(ctx, guardKey, "recording", s.guardTTL)
	if err != nil {
		// The unique session column is the authoritative duplicate check;
		// a broken guard only loses the concurrent short-circuit.
		s.logg.Warn(ctx, "orders: idempotency guard unavailable")
	} else if !acquired {
		if existing, err := s.findRecorded(ctx, sessionID); err != nil {
			return nil, err
		} else if existing != nil {
			return existing, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order recording already in progress")
	}

	sess, err := s.stripe.GetSession(ctx, sessionID)
	if err != nil {
		s.releaseGuard(ctx, guardKey)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, sessionReadMessage(err))
	}

	order := s.orderFromSession(ctx, sess)
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		// A concurrent recorder may have won the unique index race.
		if existing, findErr := s.findRecorded(ctx, sessionID); findErr == nil && existing != nil {
			return existing, nil
		}
		s.releaseGuard(ctx, guardKey)
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderCreation, err, "db: insert order")
	}

	s.logg.Info(s.logg.WithOrderID(ctx, created.ID.String()), "order recorded")
	resp := ToOrderResponse(created)
	return &resp, nil
}

// Create records an order from an explicit payload instead of a Stripe read.
func (s *service) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	currency := enums.CurrencyMXN
	if req.Currency != "" {
		currency = enums.Currency(req.Currency)
	}

	items := make([]models.OrderLineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderLineItem{
			Description:    item.Description,
			UnitPriceCents: item.UnitPriceCents,
			Qty:            item.Qty,
			TotalCents:     item.TotalCents,
			Currency:       currency,
		})
	}

	order := &models.Order{
		StripeSessionID: req.StripeSessionID,
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		Status:          enums.OrderStatusPending,
		TotalCents:      req.TotalCents,
		Currency:        currency,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
	}
	s.linkInternalCustomer(ctx, order)

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if existing, findErr := s.findRecorded(ctx, req.StripeSessionID); findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderCreation, err, "db: insert order")
	}
	resp := ToOrderResponse(created)
	return &resp, nil
}

// GetOrder loads one recorded order with its line items.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find order")
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *service) findRecorded(ctx context.Context, sessionID string) (*OrderResponse, error) {
	order, err := s.repo.FindByStripeSessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find order by session")
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *service) releaseGuard(ctx context.Context, key string) {
	if err := s.guard.Del(ctx, key); err != nil {
		s.logg.Warn(ctx, "orders: release idempotency guard")
	}
}

// orderFromSession trusts only the processor's amounts and identity fields.
func (s *service) orderFromSession(ctx context.Context, sess *stripe.CheckoutSession) *models.Order {
	order := &models.Order{
		StripeSessionID: sess.ID,
		Status:          enums.OrderStatusPending,
		TotalCents:      sess.AmountTotal,
		Currency:        enums.CurrencyMXN,
	}
	if sess.Currency != "" {
		order.Currency = enums.Currency(strings.ToUpper(string(sess.Currency)))
	}
	if sess.Customer != nil {
		order.CustomerID = sess.Customer.ID
	}
	if details := sess.CustomerDetails; details != nil {
		order.CustomerName = details.Name
		order.CustomerEmail = details.Email
	}
	if order.CustomerName == "" && sess.Customer != nil {
		order.CustomerName = sess.Customer.Name
	}
	if order.CustomerEmail == "" && sess.Customer != nil {
		order.CustomerEmail = sess.Customer.Email
	}

	if ci := sess.CollectedInformation; ci != nil && ci.ShippingDetails != nil && ci.ShippingDetails.Address != nil {
		order.ShippingAddress = addressFromStripe(ci.ShippingDetails.Address)
	} else if details := sess.CustomerDetails; details != nil && details.Address != nil {
		order.ShippingAddress = addressFromStripe(details.Address)
	}

	if sess.LineItems != nil {
		order.Items = make([]models.OrderLineItem, 0, len(sess.LineItems.Data))
		for _, li := range sess.LineItems.Data {
			item := models.OrderLineItem{
				Description: li.Description,
				Qty:         li.Quantity,
				TotalCents:  li.AmountTotal,
				Currency:    order.Currency,
			}
			if li.Price != nil {
				item.UnitPriceCents = li.Price.UnitAmount
			}
			if li.Currency != "" {
				item.Currency = enums.Currency(strings.ToUpper(string(li.Currency)))
			}
			order.Items = append(order.Items, item)
		}
	}

	s.linkInternalCustomer(ctx, order)
	return order
}

// linkInternalCustomer ties the order to a registered account when the
// processor email matches one. Lookup failures leave the order unlinked.
func (s *service) linkInternalCustomer(ctx context.Context, order *models.Order) {
	if s.users == nil || order.CustomerEmail == "" {
		return
	}
	user, err := s.users.FindByEmail(ctx, order.CustomerEmail)
	if err != nil || user == nil {
		return
	}
	order.InternalCustomerID = &user.ID
}

func addressFromStripe(addr *stripe.Address) *types.Address {
	out := &types.Address{
		Line1:      addr.Line1,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}
	if addr.Line2 != "" {
		line2 := addr.Line2
		out.Line2 = &line2
	}
	if out.IsZero() {
		return nil
	}
	return out
}

func sessionReadMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return "stripe: retrieve checkout session"
}
