package service

import (
	"sync"
	"testing"
	"time"

	"go-retail-pos/internal/events"
	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStockAddition(t *testing.T) {
	t.Run("increments stock and appends one entry", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.newProduct(t, "A1", "2.00", "3.00")
		env.add(t, p.ID, 10)

		res, err := env.ledger.RecordStockAddition(env.admin, &StockAdditionRequest{ProductID: p.ID, Quantity: 5})
		require.NoError(t, err)

		assert.Equal(t, 15, res.Product.QuantityInStock)
		assert.Equal(t, 15, env.stock(t, p.ID))
		assert.Equal(t, 5, res.Addition.QuantityAdded)
		assert.Equal(t, env.admin.UserID, res.Addition.AddedByID)

		history, err := env.additions.FindByProduct(p.ID)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("price change updates product and stamps reason", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.newProduct(t, "A2", "2.00", "3.00")

		res, err := env.ledger.RecordStockAddition(env.admin, &StockAdditionRequest{
			ProductID:       p.ID,
			Quantity:        4,
			NewCostPrice:    decPtr("2.50"),
			NewSellingPrice: decPtr("3.75"),
			Reason:          "  supplier increase ",
		})
		require.NoError(t, err)

		a := res.Addition
		assert.True(t, dec("2.00").Equal(a.OldCostPrice))
		assert.True(t, dec("3.00").Equal(a.OldSellingPrice))
		assert.True(t, dec("2.50").Equal(a.NewCostPrice.Decimal))
		assert.True(t, dec("3.75").Equal(a.NewSellingPrice.Decimal))
		require.NotNil(t, a.PriceChangeReason)
		assert.Equal(t, "supplier increase", *a.PriceChangeReason)

		stored, err := env.products.FindByID(p.ID)
		require.NoError(t, err)
		assert.True(t, dec("2.50").Equal(stored.CostPrice))
		assert.True(t, dec("3.75").Equal(stored.SellingPrice))
	})

	t.Run("unchanged price keeps product and drops reason", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.newProduct(t, "A3", "2.00", "3.00")

		res, err := env.ledger.RecordStockAddition(env.admin, &StockAdditionRequest{
			ProductID:    p.ID,
			Quantity:     1,
			NewCostPrice: decPtr("2.00"),
			Reason:       "no change really",
		})
		require.NoError(t, err)

		assert.True(t, res.Addition.NewCostPrice.Valid)
		assert.False(t, res.Addition.AnyPriceChanged())
		assert.Nil(t, res.Addition.PriceChangeReason)

		stored, err := env.products.FindByID(p.ID)
		require.NoError(t, err)
		assert.True(t, dec("2.00").Equal(stored.CostPrice))
	})

	t.Run("failures", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.newProduct(t, "A4", "1.00", "2.00")

		cases := []struct {
			name  string
			actor model.Identity
			req   *StockAdditionRequest
			want  error
		}{
			{"zero quantity", env.admin, &StockAdditionRequest{ProductID: p.ID, Quantity: 0}, ErrValidation},
			{"negative quantity", env.admin, &StockAdditionRequest{ProductID: p.ID, Quantity: -3}, ErrValidation},
			{"negative price", env.admin, &StockAdditionRequest{ProductID: p.ID, Quantity: 1, NewSellingPrice: decPtr("-1")}, ErrValidation},
			{"unknown product", env.admin, &StockAdditionRequest{ProductID: uuid.New(), Quantity: 1}, ErrNotFound},
			{"employee", env.employee, &StockAdditionRequest{ProductID: p.ID, Quantity: 1}, ErrUnauthorized},
			{"anonymous", model.Identity{Role: model.RoleAdmin}, &StockAdditionRequest{ProductID: p.ID, Quantity: 1}, ErrUnauthorized},
			{"unknown admin", model.Identity{UserID: uuid.New(), Role: model.RoleAdmin}, &StockAdditionRequest{ProductID: p.ID, Quantity: 1}, ErrNotFound},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := env.ledger.RecordStockAddition(tc.actor, tc.req)
				assert.ErrorIs(t, err, tc.want)
			})
		}

		assert.Equal(t, 0, env.stock(t, p.ID))
		history, err := env.additions.FindByProduct(p.ID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestRecordSale(t *testing.T) {
	t.Run("prices at current selling price", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.newProduct(t, "S1", "1.00", "2.50")
		env.add(t, p.ID, 10)

		res, err := env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: p.ID, Quantity: 4})
		require.NoError(t, err)

		assert.Equal(t, 6, res.Product.QuantityInStock)
		assert.Equal(t, 6, env.stock(t, p.ID))
		assert.True(t, dec("2.50").Equal(res.Sale.PricePerUnit))
		assert.True(t, dec("10.00").Equal(res.Sale.TotalAmount))
		assert.Equal(t, env.employee.UserID, res.Sale.EmployeeID)
	})

	t.Run("insufficient stock leaves no trace", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.newProduct(t, "S2", "1.00", "2.00")
		env.add(t, p.ID, 3)

		_, err := env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: p.ID, Quantity: 4})
		assert.ErrorIs(t, err, ErrInsufficientStock)

		assert.Equal(t, 3, env.stock(t, p.ID))
		sold, err := env.sales.SumQuantity(p.ID)
		require.NoError(t, err)
		assert.Zero(t, sold)
	})

	t.Run("failures", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.newProduct(t, "S3", "1.00", "2.00")
		env.add(t, p.ID, 3)

		_, err := env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: p.ID, Quantity: 0})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: uuid.New(), Quantity: 1})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = env.ledger.RecordSale(model.Identity{UserID: uuid.New(), Role: model.RoleEmployee}, &SaleRequest{ProductID: p.ID, Quantity: 1})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = env.ledger.RecordSale(model.Identity{}, &SaleRequest{ProductID: p.ID, Quantity: 1})
		assert.ErrorIs(t, err, ErrUnauthorized)

		assert.Equal(t, 3, env.stock(t, p.ID))
	})

	t.Run("admin may sell", func(t *testing.T) {
		env := newTestEnv(t)
		p := env.newProduct(t, "S4", "1.00", "2.00")
		env.add(t, p.ID, 1)

		_, err := env.ledger.RecordSale(env.admin, &SaleRequest{ProductID: p.ID, Quantity: 1})
		assert.NoError(t, err)
	})
}

func TestSaleTotalIsFrozen(t *testing.T) {
	env := newTestEnv(t)
	p := env.newProduct(t, "F1", "1.00", "2.00")
	env.add(t, p.ID, 10)

	res, err := env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = env.ledger.RecordStockAddition(env.admin, &StockAdditionRequest{
		ProductID: p.ID, Quantity: 1, NewSellingPrice: decPtr("9.99"), Reason: "repricing",
	})
	require.NoError(t, err)

	sales, err := env.sales.FindAll()
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, res.Sale.ID, sales[0].ID)
	assert.True(t, dec("2.00").Equal(sales[0].PricePerUnit))
	assert.True(t, dec("6.00").Equal(sales[0].TotalAmount))
}

// SQLite runs on one connection, so the sale tests below serialize whole
// transactions and never reach the row lock. The FOR UPDATE path only runs
// on postgres. TestDecrementStockStaleRead covers the guard on its own.
func TestConcurrentSalesNeverOversell(t *testing.T) {
	env := newTestEnv(t)
	p := env.newProduct(t, "C1", "1.00", "2.00")
	env.add(t, p.ID, 10)

	const workers = 20
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, shortage int
		other        []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: p.ID, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrInsufficientStock):
				shortage++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, shortage)
	assert.Equal(t, 0, env.stock(t, p.ID))

	pos, err := env.ledger.ComputeStockPosition(p.ID)
	require.NoError(t, err)
	assert.True(t, pos.Reconciled())
}

func TestConcurrentSalesExceedingStock(t *testing.T) {
	env := newTestEnv(t)
	p := env.newProduct(t, "C2", "1.00", "2.00")
	env.add(t, p.ID, 5)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: p.ID, Quantity: 3})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, failed int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, env.stock(t, p.ID))
}

func TestExampleScenario(t *testing.T) {
	env := newTestEnv(t)
	p := env.newProduct(t, "SKU1", "4.00", "7.50")

	res, err := env.ledger.RecordStockAddition(env.admin, &StockAdditionRequest{
		ProductID: p.ID, Quantity: 20, NewCostPrice: decPtr("5.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 20, env.stock(t, p.ID))
	assert.True(t, dec("4.00").Equal(res.Addition.OldCostPrice))
	assert.True(t, dec("5.00").Equal(res.Addition.NewCostPrice.Decimal))

	sale, err := env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: p.ID, Quantity: 20})
	require.NoError(t, err)
	assert.Equal(t, 0, env.stock(t, p.ID))
	assert.True(t, dec("150.00").Equal(sale.Sale.TotalAmount))

	_, err = env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestStockInvariantAcrossHistory(t *testing.T) {
	env := newTestEnv(t)
	a := env.newProduct(t, "I1", "1.00", "2.00")
	b := env.newProduct(t, "I2", "1.00", "2.00")

	env.add(t, a.ID, 8)
	env.add(t, b.ID, 3)
	for _, q := range []int{2, 1, 5} {
		_, err := env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: a.ID, Quantity: q})
		require.NoError(t, err)
	}
	env.add(t, a.ID, 4)
	_, err := env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: a.ID, Quantity: 100})
	require.ErrorIs(t, err, ErrInsufficientStock)

	pos, err := env.ledger.ComputeStockPosition(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, pos.OpeningStock)
	assert.Equal(t, 12, pos.TotalAdded)
	assert.Equal(t, 8, pos.TotalSold)
	assert.Equal(t, 4, pos.CurrentBalance)
	assert.Equal(t, 4, pos.OnHand)

	all, err := env.ledger.ReconcileAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, p := range all {
		assert.True(t, p.Reconciled(), "%s out of balance", p.SKU)
	}

	_, err = env.ledger.ComputeStockPosition(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReconcileAllFlagsDrift(t *testing.T) {
	env := newTestEnv(t)
	p := env.newProduct(t, "D1", "1.00", "2.00")
	env.add(t, p.ID, 5)

	// Out-of-band write that bypasses the ledger.
	require.NoError(t, env.products.IncrementStock(nil, p.ID, 2))

	all, err := env.ledger.ReconcileAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Reconciled())
	assert.Equal(t, 5, all[0].CurrentBalance)
	assert.Equal(t, 7, all[0].OnHand)
}

func TestQueryLedgerRange(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	env.ledger.now = clock(base) // each entry one minute after the previous

	p := env.newProduct(t, "R1", "1.00", "2.00")
	env.add(t, p.ID, 10) // 09:00
	for _, q := range []int{1, 2, 3} { // 09:01, 09:02, 09:03
		_, err := env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: p.ID, Quantity: q})
		require.NoError(t, err)
	}
	env.add(t, p.ID, 5) // 09:04

	t.Run("inclusive bounds and order", func(t *testing.T) {
		rng, err := env.ledger.QueryLedgerRange(base.Add(time.Minute), base.Add(3*time.Minute))
		require.NoError(t, err)

		require.Len(t, rng.Entries, 3)
		for i, e := range rng.Entries {
			assert.Equal(t, model.EntrySale, e.Kind)
			assert.Equal(t, i+1, e.Quantity)
			assert.Equal(t, "emp", e.ActorUsername)
			assert.Equal(t, "R1", e.SKU)
		}
		assert.Equal(t, 6, rng.Sales.TotalQuantity)
		assert.Equal(t, 3, rng.Sales.TransactionCount)
		assert.True(t, dec("12.00").Equal(rng.Sales.TotalAmount))
		assert.True(t, dec("4.00").Equal(rng.Sales.AverageTransactionValue))
		assert.Zero(t, rng.Additions.EntryCount)
	})

	t.Run("total matches independent sum", func(t *testing.T) {
		rng, err := env.ledger.QueryLedgerRange(base, base.Add(time.Hour))
		require.NoError(t, err)

		require.Len(t, rng.Entries, 5)
		assert.Equal(t, model.EntryStockAddition, rng.Entries[0].Kind)
		assert.Equal(t, model.EntryStockAddition, rng.Entries[4].Kind)
		for i := 1; i < len(rng.Entries); i++ {
			assert.False(t, rng.Entries[i].Timestamp.Before(rng.Entries[i-1].Timestamp))
		}

		sales, err := env.sales.FindAll()
		require.NoError(t, err)
		sum := dec("0")
		for _, s := range sales {
			sum = sum.Add(s.TotalAmount)
		}
		assert.True(t, sum.Equal(rng.Sales.TotalAmount), "want %s got %s", sum, rng.Sales.TotalAmount)
		assert.Equal(t, 15, rng.Additions.TotalQuantity)
		assert.Equal(t, 2, rng.Additions.EntryCount)
		assert.Len(t, rng.SaleEntries(), 3)
		assert.Len(t, rng.AdditionEntries(), 2)
	})

	t.Run("empty range", func(t *testing.T) {
		rng, err := env.ledger.QueryLedgerRange(base.Add(-time.Hour), base.Add(-time.Minute))
		require.NoError(t, err)
		assert.Empty(t, rng.Entries)
		assert.True(t, rng.Sales.TotalAmount.IsZero())
		assert.True(t, rng.Sales.AverageTransactionValue.IsZero())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := env.ledger.QueryLedgerRange(base, base.Add(-time.Second))
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestListSales(t *testing.T) {
	env := newTestEnv(t)
	other := env.createUser(t, "emp2", model.RoleEmployee)
	p := env.newProduct(t, "L1", "1.00", "2.00")
	env.add(t, p.ID, 10)

	for _, actor := range []model.Identity{env.employee, env.employee, other} {
		_, err := env.ledger.RecordSale(actor, &SaleRequest{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)
	}

	all, err := env.ledger.ListSales(env.admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = env.ledger.ListSales(env.employee)
	assert.ErrorIs(t, err, ErrUnauthorized)

	mine, err := env.ledger.ListOwnSales(env.employee)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, s := range mine {
		assert.Equal(t, env.employee.UserID, s.EmployeeID)
	}
}

func TestLedgerPublishesAfterCommit(t *testing.T) {
	env := newTestEnv(t)
	p := env.newProduct(t, "E1", "1.00", "2.00")
	env.add(t, p.ID, 1)

	_, err := env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = env.ledger.RecordSale(env.employee, &SaleRequest{ProductID: p.ID, Quantity: 1})
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Eventually(t, func() bool { return env.events.Len() == 2 }, time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.ElementsMatch(t, []events.EventType{events.StockAdded, events.SaleRecorded}, env.events.Types())
}

func TestDecrementStockStaleRead(t *testing.T) {
	env := newTestEnv(t)
	p := env.newProduct(t, "C3", "1.00", "2.00")
	env.add(t, p.ID, 5)

	// Both writers see 5 on hand before either decrements.
	for i := 0; i < 2; i++ {
		seen, err := env.products.FindByID(p.ID)
		require.NoError(t, err)
		require.Equal(t, 5, seen.QuantityInStock)
	}

	start := make(chan struct{})
	results := make(chan bool, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := env.products.DecrementStock(nil, p.ID, 3)
			assert.NoError(t, err)
			results <- ok
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	var applied int
	for ok := range results {
		if ok {
			applied++
		}
	}
	assert.Equal(t, 1, applied)
	assert.Equal(t, 2, env.stock(t, p.ID))
}
