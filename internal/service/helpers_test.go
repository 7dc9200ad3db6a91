package service

import (
	"sync"
	"testing"
	"time"

	"go-retail-pos/internal/events"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []events.LedgerEvent
}

func (r *recorder) Publish(e events.LedgerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) Types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	products  repository.ProductRepository
	additions repository.StockAdditionRepository
	sales     repository.SaleRepository
	users     repository.UserRepository
	events    *recorder

	ledger  *ledgerService
	catalog CatalogService

	admin    model.Identity
	employee model.Identity
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	env := &testEnv{
		db:        db,
		products:  repository.NewProductRepo(db),
		additions: repository.NewStockAdditionRepo(db),
		sales:     repository.NewSaleRepo(db),
		users:     repository.NewUserRepo(db),
		events:    &recorder{},
	}
	env.ledger = NewLedgerService(env.products, env.additions, env.sales, env.users, db, env.events, zap.NewNop()).(*ledgerService)
	env.catalog = NewCatalogService(env.products, env.additions, db, env.events, zap.NewNop())
	env.admin = env.createUser(t, "admin", model.RoleAdmin)
	env.employee = env.createUser(t, "emp", model.RoleEmployee)
	return env
}

func (e *testEnv) createUser(t *testing.T, username string, role model.Role) model.Identity {
	t.Helper()
	u, err := createUser(e.users, username, username+"@shop.test", "secret123", role)
	require.NoError(t, err)
	return u.Identity()
}

// newProduct inserts a product directly with no ledger history.
func (e *testEnv) newProduct(t *testing.T, sku, cost, sell string) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:              "Product " + sku,
		SKU:               sku,
		CostPrice:         decimal.RequireFromString(cost),
		SellingPrice:      decimal.RequireFromString(sell),
		LowStockThreshold: model.DefaultLowStockThreshold,
		Category:          model.DefaultCategory,
	}
	require.NoError(t, e.products.Create(nil, p))
	return p
}

func (e *testEnv) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := e.products.FindByID(id)
	require.NoError(t, err)
	return p.QuantityInStock
}

func (e *testEnv) add(t *testing.T, id uuid.UUID, qty int) *StockAdditionResult {
	t.Helper()
	res, err := e.ledger.RecordStockAddition(e.admin, &StockAdditionRequest{ProductID: id, Quantity: qty})
	require.NoError(t, err)
	return res
}

// clock returns a fake now that advances a minute per call.
func clock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := t
		t = t.Add(time.Minute)
		return now
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
