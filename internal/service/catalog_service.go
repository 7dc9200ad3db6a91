package service

import (
	"fmt"
	"strings"

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

type CatalogService interface {
	CreateProduct(actor model.Identity, req *CreateProductRequest) (*model.Product, error)
	ListProducts(actor model.Identity) ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	Search(actor model.Identity, query string) ([]model.Product, error)
	AdvancedSearch(actor model.Identity, filter repository.ProductFilter) ([]model.Product, error)
	StockHistory(actor model.Identity, productID uuid.UUID) ([]model.StockAddition, error)
}

type CreateProductRequest struct {
	Name              string          `json:"name" validate:"required,max=100"`
	SKU               string          `json:"sku" validate:"required,max=50"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	QuantityInStock   int             `json:"quantity_in_stock" validate:"gte=0"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"gte=0"`
	Category          string          `json:"category" validate:"max=50"`
	Description       string          `json:"description"`
}

type catalogService struct {
	productRepo  repository.ProductRepository
	additionRepo repository.StockAdditionRepository
	db           *gorm.DB
	publisher    events.Publisher
	logger       *zap.Logger
}

func NewCatalogService(
	pRepo repository.ProductRepository,
	aRepo repository.StockAdditionRepository,
	db *gorm.DB,
	publisher events.Publisher,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo:  pRepo,
		additionRepo: aRepo,
		db:           db,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateProduct adds a catalog item. Opening quantity is booked as a stock
// addition in the same transaction so the ledger covers it.
func (s *catalogService) CreateProduct(actor model.Identity, req *CreateProductRequest) (*model.Product, error) {
	if !actor.Can(model.PrivProductCreate) {
		return nil, forbidden("create product")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.SKU = strings.TrimSpace(req.SKU)
	if msg := validator.Summary(req); msg != "" {
		return nil, invalid("%s", msg)
	}
	if req.CostPrice.IsNegative() || req.SellingPrice.IsNegative() {
		return nil, invalid("prices must not be negative")
	}
	if _, err := s.productRepo.FindBySKU(req.SKU); err == nil {
		return nil, invalid("SKU %q already exists", req.SKU)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "check SKU")
	}

	product := &model.Product{
		Name:              req.Name,
		SKU:               req.SKU,
		CostPrice:         req.CostPrice,
		SellingPrice:      req.SellingPrice,
		QuantityInStock:   req.QuantityInStock,
		LowStockThreshold: req.LowStockThreshold,
		Category:          strings.TrimSpace(req.Category),
		Description:       req.Description,
		CreatedByUserID:   &actor.UserID,
	}
	if product.LowStockThreshold == 0 {
		product.LowStockThreshold = model.DefaultLowStockThreshold
	}
	if product.Category == "" {
		product.Category = model.DefaultCategory
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return invalid("SKU %q already exists", req.SKU)
			}
			return err
		}
		if product.QuantityInStock == 0 {
			return nil
		}
		return s.additionRepo.Create(tx, &model.StockAddition{
			ProductID:       product.ID,
			QuantityAdded:   product.QuantityInStock,
			AddedByID:       actor.UserID,
			OldCostPrice:    product.CostPrice,
			OldSellingPrice: product.SellingPrice,
			CreatedAt:       product.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
		zap.Int("initial_stock", product.QuantityInStock),
		zap.String("actor", actor.Username))

	evt := events.New(events.ProductCreated)
	evt.EntryID = product.ID
	evt.ProductID = product.ID
	evt.ProductName = product.Name
	evt.SKU = product.SKU
	evt.Quantity = product.QuantityInStock
	evt.NewStock = product.QuantityInStock
	evt.LowStock = product.IsLowStock()
	evt.ActorID = actor.UserID
	evt.ActorUsername = actor.Username
	evt.Message = fmt.Sprintf("%s added product '%s'", actor.Username, product.Name)
	go func() {
		if err := s.publisher.Publish(evt); err != nil {
			s.logger.Warn("Failed to publish catalog event", zap.String("event_id", evt.EventID), zap.Error(err))
		}
	}()

	return product, nil
}

// ListProducts shows employees only what they can sell.
func (s *catalogService) ListProducts(actor model.Identity) ([]model.Product, error) {
	if !actor.Can(model.PrivProductView) {
		return nil, forbidden("list products")
	}
	if actor.Can(model.PrivProductManage) {
		return s.productRepo.FindAll()
	}
	return s.productRepo.Search(repository.ProductFilter{InStockOnly: true})
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "product %s", id)
	}
	return product, nil
}

func (s *catalogService) Search(actor model.Identity, query string) ([]model.Product, error) {
	if !actor.Can(model.PrivProductView) {
		return nil, forbidden("search products")
	}
	return s.productRepo.Search(repository.ProductFilter{
		Query:       query,
		InStockOnly: !actor.Can(model.PrivProductManage),
	})
}

func (s *catalogService) AdvancedSearch(actor model.Identity, filter repository.ProductFilter) ([]model.Product, error) {
	if !actor.Can(model.PrivProductManage) {
		return nil, forbidden("advanced product search")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, invalid("min price %s exceeds max price %s", filter.MinPrice, filter.MaxPrice)
	}
	return s.productRepo.Search(filter)
}

func (s *catalogService) StockHistory(actor model.Identity, productID uuid.UUID) ([]model.StockAddition, error) {
	if !actor.Can(model.PrivProductManage) {
		return nil, forbidden("view stock history")
	}
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, lookupErr(err, "product %s", productID)
	}
	return s.additionRepo.FindByProduct(productID)
}
