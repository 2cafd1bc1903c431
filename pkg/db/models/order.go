package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oakmont/storefront/pkg/enums"
)

// Order is the immutable record produced by a successful commit. Customer
// name and email are stored normalized (trimmed, email lowercased); the total
// is always the server-recomputed one. Orders are never deleted; status
// transitions happen through the admin workflow.
type Order struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName  string               `gorm:"column:customer_name;not null"`
	CustomerEmail string               `gorm:"column:customer_email;not null"`
	Phone         *string              `gorm:"column:phone"`
	Address       *string              `gorm:"column:address"`
	City          *string              `gorm:"column:city"`
	PostalCode    *string              `gorm:"column:postal_code"`
	Country       *string              `gorm:"column:country"`
	PaymentMethod *enums.PaymentMethod `gorm:"column:payment_method"`
	Status        enums.OrderStatus    `gorm:"column:status;not null;default:'pending'"`
	Total         decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null"`
	Items         []OrderLineItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
