package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	ProductCreated EventType = "product_created"
	StockAdded     EventType = "stock_added"
	SaleRecorded   EventType = "sale_recorded"
)

// LedgerEvent announces a committed ledger change. Consumers get a self-contained
// snapshot and never need to read the database back.
type LedgerEvent struct {
	EventID   string    `json:"event_id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	EntryID     uuid.UUID       `json:"entry_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	NewStock    int             `json:"new_stock"`
	Amount      decimal.Decimal `json:"amount"`
	LowStock    bool            `json:"low_stock"`

	ActorID       uuid.UUID `json:"actor_id"`
	ActorUsername string    `json:"actor_username"`
	Message       string    `json:"message"`
}

// New stamps an event id and time on a ledger event.
func New(eventType EventType) LedgerEvent {
	return LedgerEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}
