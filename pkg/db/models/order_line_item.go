package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdemart/verdemart-backend/pkg/enums"
)

// OrderLineItem is the immutable snapshot of one purchased line. It carries the
// processor-reported amounts, never a recomputed one.
type OrderLineItem struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID      `gorm:"column:order_id;type:uuid;not null;index"`
	Description    string         `gorm:"column:description;not null"`
	UnitPriceCents int64          `gorm:"column:unit_price_cents;not null"`
	Qty            int64          `gorm:"column:qty;not null"`
	TotalCents     int64          `gorm:"column:total_cents;not null"`
	Currency       enums.Currency `gorm:"column:currency;type:text;not null;default:'MXN'"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
}
