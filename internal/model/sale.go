package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is an immutable ledger entry. TotalAmount is frozen at creation and is
// never recomputed from later product prices.
type Sale struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	QuantitySold int             `gorm:"not null;check:quantity_sold > 0" json:"quantity_sold"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_unit"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	EmployeeID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee     *User           `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;index" json:"timestamp"`
}

// NewSale prices a sale at the product's current selling price.
func NewSale(product *Product, quantity int, employeeID uuid.UUID) *Sale {
	return &Sale{
		ProductID:    product.ID,
		QuantitySold: quantity,
		PricePerUnit: product.SellingPrice,
		TotalAmount:  product.SellingPrice.Mul(decimal.NewFromInt(int64(quantity))),
		EmployeeID:   employeeID,
	}
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
