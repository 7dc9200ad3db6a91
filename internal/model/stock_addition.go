package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockAddition is an immutable ledger entry that raised a product's stock.
// Old prices are the product's prices before the addition; new prices are set
// only when the admin supplied them.
type StockAddition struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	QuantityAdded int       `gorm:"not null;check:quantity_added > 0" json:"quantity_added"`
	AddedByID     uuid.UUID `gorm:"type:uuid;not null;index" json:"added_by_id"`
	AddedBy       *User     `gorm:"foreignKey:AddedByID" json:"added_by,omitempty"`

	OldCostPrice      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"old_cost_price"`
	OldSellingPrice   decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"old_selling_price"`
	NewCostPrice      decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"new_cost_price"`
	NewSellingPrice   decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"new_selling_price"`
	PriceChangeReason *string             `gorm:"type:varchar(200)" json:"price_change_reason,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"date_added"`
}

func (s *StockAddition) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *StockAddition) CostPriceChanged() bool {
	return s.NewCostPrice.Valid && !s.NewCostPrice.Decimal.Equal(s.OldCostPrice)
}

func (s *StockAddition) SellingPriceChanged() bool {
	return s.NewSellingPrice.Valid && !s.NewSellingPrice.Decimal.Equal(s.OldSellingPrice)
}

func (s *StockAddition) AnyPriceChanged() bool {
	return s.CostPriceChanged() || s.SellingPriceChanged()
}

// UnitCost is the cost price the added units were bought at.
func (s *StockAddition) UnitCost() decimal.Decimal {
	if s.NewCostPrice.Valid {
		return s.NewCostPrice.Decimal
	}
	return s.OldCostPrice
}
