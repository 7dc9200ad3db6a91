package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultLowStockThreshold = 10
	DefaultCategory          = "General"
)

// Categories offered by the catalog forms. Category stays free text in storage.
var Categories = []string{"Electronics", "Clothing", "Food", "Office Supplies", DefaultCategory}

// Product is the aggregate root. QuantityInStock is a denormalized counter kept
// equal to the sum of stock additions minus the sum of sales.
type Product struct {
	BaseModel
	Name              string          `gorm:"type:varchar(100);not null" json:"name"`
	SKU               string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost_price"`
	SellingPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"selling_price"`
	QuantityInStock   int             `gorm:"not null;default:0;check:quantity_in_stock >= 0" json:"quantity_in_stock"`
	LowStockThreshold int             `gorm:"not null;default:10" json:"low_stock_threshold"`
	Category          string          `gorm:"type:varchar(50);not null;default:'General'" json:"category"`
	Description       string          `gorm:"type:text" json:"description"`

	CreatedByUserID *uuid.UUID `gorm:"type:uuid" json:"created_by_user_id,omitempty"`
}

// TotalValue is quantity on hand × cost price.
func (p *Product) TotalValue() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(int64(p.QuantityInStock)))
}

// PotentialRevenue is quantity on hand × selling price.
func (p *Product) PotentialRevenue() decimal.Decimal {
	return p.SellingPrice.Mul(decimal.NewFromInt(int64(p.QuantityInStock)))
}

func (p *Product) IsLowStock() bool {
	return p.QuantityInStock <= p.LowStockThreshold
}

type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	QuantityInStock   int             `json:"quantity_in_stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	TotalValue        decimal.Decimal `json:"total_value"`
	PotentialRevenue  decimal.Decimal `json:"potential_revenue"`
	IsLowStock        bool            `json:"is_low_stock"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		SKU:               p.SKU,
		CostPrice:         p.CostPrice,
		SellingPrice:      p.SellingPrice,
		QuantityInStock:   p.QuantityInStock,
		LowStockThreshold: p.LowStockThreshold,
		Category:          p.Category,
		Description:       p.Description,
		TotalValue:        p.TotalValue(),
		PotentialRevenue:  p.PotentialRevenue(),
		IsLowStock:        p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
	}
}

func ProductResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = products[i].ToResponse()
	}
	return out
}
