package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryStockAddition EntryKind = "STOCK_ADDITION"
	EntrySale          EntryKind = "SALE"
)

// LedgerEntry is one flat row of the combined ledger, joined with product and
// actor identity. For stock additions UnitPrice is the unit cost.
type LedgerEntry struct {
	ID            uuid.UUID       `json:"id"`
	Kind          EntryKind       `json:"kind"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
	Timestamp     time.Time       `json:"timestamp"`
	ActorUsername string          `json:"actor_username"`

	// Stock additions only.
	OldCostPrice      *decimal.Decimal `json:"old_cost_price,omitempty"`
	NewCostPrice      *decimal.Decimal `json:"new_cost_price,omitempty"`
	OldSellingPrice   *decimal.Decimal `json:"old_selling_price,omitempty"`
	NewSellingPrice   *decimal.Decimal `json:"new_selling_price,omitempty"`
	PriceChangeReason string           `json:"price_change_reason,omitempty"`
}

// SalesSummary aggregates the sale rows of a range.
type SalesSummary struct {
	TotalAmount             decimal.Decimal `json:"total_amount"`
	TotalQuantity           int             `json:"total_quantity"`
	TransactionCount        int             `json:"transaction_count"`
	AverageTransactionValue decimal.Decimal `json:"average_transaction_value"`
}

// AdditionsSummary aggregates the stock-addition rows of a range.
type AdditionsSummary struct {
	TotalQuantity int             `json:"total_quantity"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	EntryCount    int             `json:"entry_count"`
	PriceChanges  int             `json:"price_changes"`
}

// LedgerRange is the result of a ledger query over [Start, End].
type LedgerRange struct {
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
	Entries   []LedgerEntry    `json:"entries"` // ordered by timestamp
	Sales     SalesSummary     `json:"sales"`
	Additions AdditionsSummary `json:"additions"`
}

// SaleEntries returns the sale rows in timestamp order.
func (r *LedgerRange) SaleEntries() []LedgerEntry {
	return r.entriesOf(EntrySale)
}

// AdditionEntries returns the stock-addition rows in timestamp order.
func (r *LedgerRange) AdditionEntries() []LedgerEntry {
	return r.entriesOf(EntryStockAddition)
}

func (r *LedgerRange) entriesOf(kind EntryKind) []LedgerEntry {
	out := make([]LedgerEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// StockPosition reconciles a product's on-hand counter against its ledger.
type StockPosition struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	SKU            string    `json:"sku"`
	OpeningStock   int       `json:"opening_stock"` // always 0: no opening-balance concept
	TotalAdded     int       `json:"total_added"`
	TotalSold      int       `json:"total_sold"`
	CurrentBalance int       `json:"current_balance"`
	OnHand         int       `json:"on_hand"`
}

// Reconciled reports whether the ledger balance matches the on-hand counter.
func (p StockPosition) Reconciled() bool {
	return p.CurrentBalance == p.OnHand
}
