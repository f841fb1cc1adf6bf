package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdemart/verdemart-backend/pkg/db/models"
	"github.com/verdemart/verdemart-backend/pkg/money"
	"github.com/verdemart/verdemart-backend/pkg/types"
)

// CreateOrderRequest is the direct order-recording payload. Amounts arrive in
// minor currency units.
type CreateOrderRequest struct {
	StripeSessionID string                   `json:"stripe_session_id" validate:"required"`
	CustomerID      string                   `json:"customer_id" validate:"required"`
	CustomerName    string                   `json:"customer_name" validate:"required"`
	CustomerEmail   string                   `json:"customer_email" validate:"required,email"`
	TotalCents      int64                    `json:"total_cents" validate:"required,gt=0"`
	Currency        string                   `json:"currency" validate:"omitempty,oneof=MXN USD"`
	ShippingAddress *types.Address           `json:"shipping_address"`
	Items           []CreateOrderItemRequest `json:"order_details" validate:"required,min=1,dive"`
}

// CreateOrderItemRequest is one purchased line in a direct order payload.
type CreateOrderItemRequest struct {
	Description    string `json:"description" validate:"required"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"required,gt=0"`
	Qty            int64  `json:"qty" validate:"required,gt=0"`
	TotalCents     int64  `json:"total_cents" validate:"required,gt=0"`
}

// OrderResponse is the public shape of a recorded order.
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	StripeSessionID string              `json:"stripe_session_id"`
	CustomerID      string              `json:"customer_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	Status          string              `json:"status"`
	TotalCents      int64               `json:"total_cents"`
	TotalDisplay    string              `json:"total_display"`
	Currency        string              `json:"currency"`
	ShippingAddress *types.Address      `json:"shipping_address,omitempty"`
	Items           []OrderItemResponse `json:"order_details"`
	Progress        Progress            `json:"progress"`
	CreatedAt       time.Time           `json:"created_at"`
}

// OrderItemResponse is one purchased line in the public order shape.
type OrderItemResponse struct {
	Description    string `json:"description"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Qty            int64  `json:"qty"`
	TotalCents     int64  `json:"total_cents"`
	TotalDisplay   string `json:"total_display"`
}

// ToOrderResponse maps a stored order to its public shape.
func ToOrderResponse(order *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			Description:    item.Description,
			UnitPriceCents: item.UnitPriceCents,
			Qty:            item.Qty,
			TotalCents:     item.TotalCents,
			TotalDisplay:   money.Display(item.TotalCents, item.Currency),
		})
	}
	return OrderResponse{
		ID:              order.ID,
		StripeSessionID: order.StripeSessionID,
		CustomerID:      order.CustomerID,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		Status:          string(order.Status),
		TotalCents:      order.TotalCents,
		TotalDisplay:    money.Display(order.TotalCents, order.Currency),
		Currency:        string(order.Currency),
		ShippingAddress: order.ShippingAddress,
		Items:           items,
		Progress:        ProjectProgress(order.Status),
		CreatedAt:       order.CreatedAt,
	}
}
