package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go-retail-pos/internal/events"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LedgerService interface {
	RecordStockAddition(actor model.Identity, req *StockAdditionRequest) (*StockAdditionResult, error)
	RecordSale(actor model.Identity, req *SaleRequest) (*SaleResult, error)
	ComputeStockPosition(productID uuid.UUID) (*model.StockPosition, error)
	ReconcileAll() ([]model.StockPosition, error)
	QueryLedgerRange(start, end time.Time) (*model.LedgerRange, error)
	ListSales(actor model.Identity) ([]model.Sale, error)
	ListOwnSales(actor model.Identity) ([]model.Sale, error)
}

type StockAdditionRequest struct {
	ProductID       uuid.UUID        `json:"product_id" validate:"uuid_required"`
	Quantity        int              `json:"quantity" validate:"gt=0"`
	NewCostPrice    *decimal.Decimal `json:"new_cost_price,omitempty"`
	NewSellingPrice *decimal.Decimal `json:"new_selling_price,omitempty"`
	Reason          string           `json:"reason" validate:"max=200"`
}

type StockAdditionResult struct {
	Product  *model.Product       `json:"product"`
	Addition *model.StockAddition `json:"addition"`
}

type SaleRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

type SaleResult struct {
	Product *model.Product `json:"product"`
	Sale    *model.Sale    `json:"sale"`
}

type ledgerService struct {
	productRepo  repository.ProductRepository
	additionRepo repository.StockAdditionRepository
	saleRepo     repository.SaleRepository
	userRepo     repository.UserRepository
	db           *gorm.DB
	publisher    events.Publisher
	logger       *zap.Logger
	now          func() time.Time
}

func NewLedgerService(
	pRepo repository.ProductRepository,
	aRepo repository.StockAdditionRepository,
	sRepo repository.SaleRepository,
	uRepo repository.UserRepository,
	db *gorm.DB,
	publisher events.Publisher,
	logger *zap.Logger,
) LedgerService {
	return &ledgerService{
		productRepo:  pRepo,
		additionRepo: aRepo,
		saleRepo:     sRepo,
		userRepo:     uRepo,
		db:           db,
		publisher:    publisher,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *ledgerService) RecordStockAddition(actor model.Identity, req *StockAdditionRequest) (*StockAdditionResult, error) {
	if !actor.Can(model.PrivStockAdd) {
		return nil, forbidden("record stock addition")
	}
	if msg := validator.Summary(req); msg != "" {
		return nil, invalid("%s", msg)
	}
	if req.NewCostPrice != nil && req.NewCostPrice.IsNegative() {
		return nil, invalid("new cost price must not be negative")
	}
	if req.NewSellingPrice != nil && req.NewSellingPrice.IsNegative() {
		return nil, invalid("new selling price must not be negative")
	}
	if err := s.requireUser(actor.UserID); err != nil {
		return nil, err
	}

	var result StockAdditionResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.LockByID(tx, req.ProductID)
		if err != nil {
			return lookupErr(err, "product %s", req.ProductID)
		}

		addition := &model.StockAddition{
			ProductID:       product.ID,
			QuantityAdded:   req.Quantity,
			AddedByID:       actor.UserID,
			OldCostPrice:    product.CostPrice,
			OldSellingPrice: product.SellingPrice,
			CreatedAt:       s.now(),
		}
		if req.NewCostPrice != nil {
			addition.NewCostPrice = decimal.NewNullDecimal(*req.NewCostPrice)
		}
		if req.NewSellingPrice != nil {
			addition.NewSellingPrice = decimal.NewNullDecimal(*req.NewSellingPrice)
		}

		if addition.AnyPriceChanged() {
			reason := strings.TrimSpace(req.Reason)
			addition.PriceChangeReason = &reason
			if addition.CostPriceChanged() {
				product.CostPrice = addition.NewCostPrice.Decimal
			}
			if addition.SellingPriceChanged() {
				product.SellingPrice = addition.NewSellingPrice.Decimal
			}
			if err := s.productRepo.UpdatePrices(tx, product.ID, product.CostPrice, product.SellingPrice); err != nil {
				return err
			}
		}

		if err := s.additionRepo.Create(tx, addition); err != nil {
			return err
		}
		if err := s.productRepo.IncrementStock(tx, product.ID, req.Quantity); err != nil {
			return err
		}
		product.QuantityInStock += req.Quantity

		result = StockAdditionResult{Product: product, Addition: addition}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock added",
		zap.String("product_id", result.Product.ID.String()),
		zap.Int("quantity", req.Quantity),
		zap.Int("new_stock", result.Product.QuantityInStock),
		zap.Bool("price_changed", result.Addition.AnyPriceChanged()),
		zap.String("actor", actor.Username))

	evt := events.New(events.StockAdded)
	evt.EntryID = result.Addition.ID
	evt.Amount = result.Addition.UnitCost().Mul(decimal.NewFromInt(int64(req.Quantity)))
	evt.Message = fmt.Sprintf("%s added %d units of '%s'", actor.Username, req.Quantity, result.Product.Name)
	s.publish(evt, result.Product, req.Quantity, actor)

	return &result, nil
}

func (s *ledgerService) RecordSale(actor model.Identity, req *SaleRequest) (*SaleResult, error) {
	if !actor.Can(model.PrivSaleCreate) {
		return nil, forbidden("record sale")
	}
	if msg := validator.Summary(req); msg != "" {
		return nil, invalid("%s", msg)
	}
	if err := s.requireUser(actor.UserID); err != nil {
		return nil, err
	}

	var result SaleResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.LockByID(tx, req.ProductID)
		if err != nil {
			return lookupErr(err, "product %s", req.ProductID)
		}
		if product.QuantityInStock < req.Quantity {
			return errors.Wrapf(ErrInsufficientStock, "requested %d of '%s', %d on hand",
				req.Quantity, product.SKU, product.QuantityInStock)
		}

		// The guarded decrement holds even where the row lock is a no-op.
		ok, err := s.productRepo.DecrementStock(tx, product.ID, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(ErrInsufficientStock, "requested %d of '%s'", req.Quantity, product.SKU)
		}

		sale := model.NewSale(product, req.Quantity, actor.UserID)
		sale.CreatedAt = s.now()
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}
		product.QuantityInStock -= req.Quantity

		result = SaleResult{Product: product, Sale: sale}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sale recorded",
		zap.String("sale_id", result.Sale.ID.String()),
		zap.String("product_id", result.Product.ID.String()),
		zap.Int("quantity", req.Quantity),
		zap.String("total", result.Sale.TotalAmount.StringFixed(2)),
		zap.String("actor", actor.Username))

	evt := events.New(events.SaleRecorded)
	evt.EntryID = result.Sale.ID
	evt.Amount = result.Sale.TotalAmount
	evt.Message = fmt.Sprintf("%s sold %d units of '%s'", actor.Username, req.Quantity, result.Product.Name)
	s.publish(evt, result.Product, req.Quantity, actor)

	return &result, nil
}

func (s *ledgerService) ComputeStockPosition(productID uuid.UUID) (*model.StockPosition, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, lookupErr(err, "product %s", productID)
	}
	added, err := s.additionRepo.SumQuantity(productID)
	if err != nil {
		return nil, err
	}
	sold, err := s.saleRepo.SumQuantity(productID)
	if err != nil {
		return nil, err
	}
	pos := position(product, added, sold)
	return &pos, nil
}

func (s *ledgerService) ReconcileAll() ([]model.StockPosition, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	added, err := s.additionRepo.QuantityTotalsByProduct()
	if err != nil {
		return nil, err
	}
	sold, err := s.saleRepo.QuantityTotalsByProduct()
	if err != nil {
		return nil, err
	}

	positions := make([]model.StockPosition, 0, len(products))
	for i := range products {
		p := &products[i]
		pos := position(p, added[p.ID], sold[p.ID])
		if !pos.Reconciled() {
			s.logger.Warn("Stock position out of balance",
				zap.String("sku", p.SKU),
				zap.Int("ledger_balance", pos.CurrentBalance),
				zap.Int("on_hand", pos.OnHand))
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

func position(p *model.Product, added, sold int) model.StockPosition {
	const opening = 0
	return model.StockPosition{
		ProductID:      p.ID,
		ProductName:    p.Name,
		SKU:            p.SKU,
		OpeningStock:   opening,
		TotalAdded:     added,
		TotalSold:      sold,
		CurrentBalance: opening + added - sold,
		OnHand:         p.QuantityInStock,
	}
}

// QueryLedgerRange returns every stock addition and sale stamped in [start, end].
func (s *ledgerService) QueryLedgerRange(start, end time.Time) (*model.LedgerRange, error) {
	start, end = start.UTC(), end.UTC()
	if end.Before(start) {
		return nil, invalid("end date %s is before start date %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	additions, err := s.additionRepo.FindInRange(start, end)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindInRange(start, end)
	if err != nil {
		return nil, err
	}

	out := &model.LedgerRange{
		Start:   start,
		End:     end,
		Entries: make([]model.LedgerEntry, 0, len(additions)+len(sales)),
	}
	out.Sales.TotalAmount = decimal.Zero
	out.Sales.AverageTransactionValue = decimal.Zero
	out.Additions.TotalCost = decimal.Zero

	for i := range additions {
		entry := additionEntry(&additions[i])
		out.Entries = append(out.Entries, entry)
		out.Additions.TotalQuantity += entry.Quantity
		out.Additions.TotalCost = out.Additions.TotalCost.Add(entry.Total)
		out.Additions.EntryCount++
		if additions[i].AnyPriceChanged() {
			out.Additions.PriceChanges++
		}
	}
	for i := range sales {
		entry := saleEntry(&sales[i])
		out.Entries = append(out.Entries, entry)
		out.Sales.TotalAmount = out.Sales.TotalAmount.Add(entry.Total)
		out.Sales.TotalQuantity += entry.Quantity
		out.Sales.TransactionCount++
	}
	if out.Sales.TransactionCount > 0 {
		out.Sales.AverageTransactionValue = out.Sales.TotalAmount.
			Div(decimal.NewFromInt(int64(out.Sales.TransactionCount))).
			Round(2)
	}

	sort.SliceStable(out.Entries, func(i, j int) bool {
		return out.Entries[i].Timestamp.Before(out.Entries[j].Timestamp)
	})
	return out, nil
}

func additionEntry(a *model.StockAddition) model.LedgerEntry {
	unit := a.UnitCost()
	entry := model.LedgerEntry{
		ID:              a.ID,
		Kind:            model.EntryStockAddition,
		ProductID:       a.ProductID,
		Quantity:        a.QuantityAdded,
		UnitPrice:       unit,
		Total:           unit.Mul(decimal.NewFromInt(int64(a.QuantityAdded))),
		Timestamp:       a.CreatedAt,
		OldCostPrice:    &a.OldCostPrice,
		OldSellingPrice: &a.OldSellingPrice,
	}
	if a.Product != nil {
		entry.ProductName, entry.SKU, entry.Category = a.Product.Name, a.Product.SKU, a.Product.Category
	}
	if a.AddedBy != nil {
		entry.ActorUsername = a.AddedBy.Username
	}
	if a.NewCostPrice.Valid {
		entry.NewCostPrice = &a.NewCostPrice.Decimal
	}
	if a.NewSellingPrice.Valid {
		entry.NewSellingPrice = &a.NewSellingPrice.Decimal
	}
	if a.PriceChangeReason != nil {
		entry.PriceChangeReason = *a.PriceChangeReason
	}
	return entry
}

func saleEntry(sale *model.Sale) model.LedgerEntry {
	entry := model.LedgerEntry{
		ID:        sale.ID,
		Kind:      model.EntrySale,
		ProductID: sale.ProductID,
		Quantity:  sale.QuantitySold,
		UnitPrice: sale.PricePerUnit,
		Total:     sale.TotalAmount,
		Timestamp: sale.CreatedAt,
	}
	if sale.Product != nil {
		entry.ProductName, entry.SKU, entry.Category = sale.Product.Name, sale.Product.SKU, sale.Product.Category
	}
	if sale.Employee != nil {
		entry.ActorUsername = sale.Employee.Username
	}
	return entry
}

func (s *ledgerService) ListSales(actor model.Identity) ([]model.Sale, error) {
	if !actor.Can(model.PrivSaleViewAll) {
		return nil, forbidden("list all sales")
	}
	return s.saleRepo.FindAll()
}

func (s *ledgerService) ListOwnSales(actor model.Identity) ([]model.Sale, error) {
	if !actor.Can(model.PrivSaleViewOwn) {
		return nil, forbidden("list own sales")
	}
	return s.saleRepo.FindByEmployee(actor.UserID, 0)
}

func (s *ledgerService) requireUser(id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return lookupErr(err, "user %s", id)
	}
	return nil
}

// publish runs after commit; a failed delivery is logged and never undoes the write.
func (s *ledgerService) publish(evt events.LedgerEvent, product *model.Product, quantity int, actor model.Identity) {
	evt.ProductID = product.ID
	evt.ProductName = product.Name
	evt.SKU = product.SKU
	evt.Quantity = quantity
	evt.NewStock = product.QuantityInStock
	evt.LowStock = product.IsLowStock()
	evt.ActorID = actor.UserID
	evt.ActorUsername = actor.Username

	go func() {
		if err := s.publisher.Publish(evt); err != nil {
			s.logger.Warn("Failed to publish ledger event",
				zap.String("event_id", evt.EventID),
				zap.String("type", string(evt.Type)),
				zap.Error(err))
		}
	}()
}
