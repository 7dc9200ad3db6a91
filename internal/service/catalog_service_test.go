package service

import (
	"testing"
	"time"

	"go-retail-pos/internal/events"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productReq(sku string, qty int) *CreateProductRequest {
	return &CreateProductRequest{
		Name:            "Item " + sku,
		SKU:             sku,
		CostPrice:       dec("3.00"),
		SellingPrice:    dec("5.00"),
		QuantityInStock: qty,
	}
}

func TestCreateProduct(t *testing.T) {
	t.Run("books initial stock in the ledger", func(t *testing.T) {
		env := newTestEnv(t)
		p, err := env.catalog.CreateProduct(env.admin, productReq("NEW-1", 12))
		require.NoError(t, err)

		assert.Equal(t, 12, p.QuantityInStock)
		assert.Equal(t, model.DefaultLowStockThreshold, p.LowStockThreshold)
		assert.Equal(t, model.DefaultCategory, p.Category)
		require.NotNil(t, p.CreatedByUserID)
		assert.Equal(t, env.admin.UserID, *p.CreatedByUserID)

		history, err := env.catalog.StockHistory(env.admin, p.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, 12, history[0].QuantityAdded)
		assert.False(t, history[0].AnyPriceChanged())
		assert.Nil(t, history[0].PriceChangeReason)

		pos, err := env.ledger.ComputeStockPosition(p.ID)
		require.NoError(t, err)
		assert.True(t, pos.Reconciled())

		assert.Eventually(t, func() bool { return env.events.Len() == 1 }, time.Second, 10*time.Millisecond)
		assert.Equal(t, []events.EventType{events.ProductCreated}, env.events.Types())
	})

	t.Run("zero stock has no history", func(t *testing.T) {
		env := newTestEnv(t)
		p, err := env.catalog.CreateProduct(env.admin, productReq("NEW-2", 0))
		require.NoError(t, err)

		history, err := env.catalog.StockHistory(env.admin, p.ID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("rejections", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.catalog.CreateProduct(env.admin, productReq("DUP", 1))
		require.NoError(t, err)

		negative := productReq("NEG", 0)
		negative.CostPrice = dec("-1")

		missing := productReq("", 0)

		_, err = env.catalog.CreateProduct(env.admin, productReq("DUP", 1))
		assert.ErrorIs(t, err, ErrValidation)
		_, err = env.catalog.CreateProduct(env.admin, negative)
		assert.ErrorIs(t, err, ErrValidation)
		_, err = env.catalog.CreateProduct(env.admin, missing)
		assert.ErrorIs(t, err, ErrValidation)
		_, err = env.catalog.CreateProduct(env.admin, productReq("NEG-QTY", -1))
		assert.ErrorIs(t, err, ErrValidation)
		_, err = env.catalog.CreateProduct(env.employee, productReq("EMP", 1))
		assert.ErrorIs(t, err, ErrUnauthorized)

		n, err := env.products.CountAll()
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("SKU lookup failure is not a duplicate", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.db.Migrator().DropTable(&model.StockAddition{}, &model.Sale{}, &model.Product{}))

		_, err := env.catalog.CreateProduct(env.admin, productReq("LOST", 1))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrValidation)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestListAndSearchProducts(t *testing.T) {
	env := newTestEnv(t)
	for _, r := range []*CreateProductRequest{
		{Name: "Blue Pen", SKU: "PEN-B", CostPrice: dec("0.50"), SellingPrice: dec("1.00"), QuantityInStock: 30, Category: "Office Supplies"},
		{Name: "Red Pen", SKU: "PEN-R", CostPrice: dec("0.50"), SellingPrice: dec("1.20"), Category: "Office Supplies"},
		{Name: "Laptop", SKU: "LAP-1", CostPrice: dec("500"), SellingPrice: dec("650"), QuantityInStock: 2, Category: "Electronics"},
	} {
		_, err := env.catalog.CreateProduct(env.admin, r)
		require.NoError(t, err)
	}

	t.Run("admin sees everything", func(t *testing.T) {
		all, err := env.catalog.ListProducts(env.admin)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("employee sees in-stock only", func(t *testing.T) {
		list, err := env.catalog.ListProducts(env.employee)
		require.NoError(t, err)
		assert.Len(t, list, 2)

		found, err := env.catalog.Search(env.employee, "pen")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "PEN-B", found[0].SKU)
	})

	t.Run("search matches sku case-insensitively", func(t *testing.T) {
		found, err := env.catalog.Search(env.admin, "pen-")
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("advanced search ands filters", func(t *testing.T) {
		minStock := 1
		found, err := env.catalog.AdvancedSearch(env.admin, repository.ProductFilter{
			Category: "Office Supplies",
			MinStock: &minStock,
			MaxPrice: decPtr("1.10"),
		})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "PEN-B", found[0].SKU)

		found, err = env.catalog.AdvancedSearch(env.admin, repository.ProductFilter{MinPrice: decPtr("100")})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "LAP-1", found[0].SKU)

		lo, hi := decimal.NewFromInt(10), decimal.NewFromInt(1)
		_, err = env.catalog.AdvancedSearch(env.admin, repository.ProductFilter{MinPrice: &lo, MaxPrice: &hi})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = env.catalog.AdvancedSearch(env.employee, repository.ProductFilter{})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestGetProductAndHistory(t *testing.T) {
	env := newTestEnv(t)
	p, err := env.catalog.CreateProduct(env.admin, productReq("G-1", 2))
	require.NoError(t, err)
	env.add(t, p.ID, 3)

	got, err := env.catalog.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.QuantityInStock)

	_, err = env.catalog.GetProduct(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := env.catalog.StockHistory(env.admin, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].QuantityAdded, "newest first")
	require.NotNil(t, history[0].AddedBy)
	assert.Equal(t, "admin", history[0].AddedBy.Username)

	_, err = env.catalog.StockHistory(env.admin, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.catalog.StockHistory(env.employee, p.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
