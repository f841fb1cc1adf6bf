package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/verdemart/verdemart-backend/pkg/enums"
)

// Product represents one purchasable catalog item. The storefront treats
// products as immutable; only the catalog write endpoints mutate them.
type Product struct {
	ID                uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	Name              string                   `gorm:"column:name;not null"`
	Description       *string                  `gorm:"column:description"`
	Category          string                   `gorm:"column:category;not null;index"`
	Tags              pq.StringArray           `gorm:"column:tags;type:text"`
	ImageSrc          string                   `gorm:"column:image_src;not null"`
	ImageAlt          string                   `gorm:"column:image_alt;not null"`
	PriceCents        int                      `gorm:"column:price_cents;not null"`
	Currency          enums.Currency           `gorm:"column:currency;type:text;not null;default:'MXN'"`
	RecurringInterval *enums.RecurringInterval `gorm:"column:recurring_interval;type:text"`
	ExpirationDate    *time.Time               `gorm:"column:expiration_date"`
	CreatedAt         time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// IsRecurring reports whether the product carries subscription pricing.
func (p Product) IsRecurring() bool {
	return p.RecurringInterval != nil && p.RecurringInterval.IsValid()
}
