package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdemart/verdemart-backend/pkg/enums"
	"github.com/verdemart/verdemart-backend/pkg/types"
)

// Order is recorded exactly once per successful payment callback. Content is
// frozen at recording time; only Status changes afterwards, driven by an
// external fulfillment process.
type Order struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	StripeSessionID    string            `gorm:"column:stripe_session_id;not null;uniqueIndex"`
	CustomerID         string            `gorm:"column:customer_id;not null"`
	CustomerName       string            `gorm:"column:customer_name;not null"`
	CustomerEmail      string            `gorm:"column:customer_email;not null"`
	InternalCustomerID *uuid.UUID        `gorm:"column:internal_customer_id;type:uuid"`
	Status             enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalCents         int64             `gorm:"column:total_cents;not null"`
	Currency           enums.Currency    `gorm:"column:currency;type:text;not null;default:'MXN'"`
	ShippingAddress    *types.Address    `gorm:"column:shipping_address;type:text;serializer:json"`
	Items              []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
