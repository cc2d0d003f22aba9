package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mustafasamisahin/brokage-module/models"
	"github.com/mustafasamisahin/brokage-module/repository/memory"
)

type testEnv struct {
	orders    *OrderService
	assets    *memory.AssetStore
	customers *memory.CustomerStore
	store     *memory.OrderStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	assets := memory.NewAssetStore()
	customers := memory.NewCustomerStore()
	orderStore := memory.NewOrderStore()
	engine := NewReservationEngine(assets, logger)
	return &testEnv{
		orders:    NewOrderService(orderStore, customers, assets, engine, logger),
		assets:    assets,
		customers: customers,
		store:     orderStore,
	}
}

func (e *testEnv) seedCustomer(t *testing.T, id int64) {
	t.Helper()
	require.NoError(t, e.customers.Create(context.Background(), &models.Customer{
		CustomerID:             id,
		Name:                   "Test",
		Surname:                "Customer",
		NationalIdentityNumber: fmt.Sprintf("nid-%d", id),
	}))
}

func (e *testEnv) seedBalance(t *testing.T, customerID int64, assetName, size, usable string) {
	t.Helper()
	_, err := e.assets.CreateIfAbsent(context.Background(), customerID, assetName, dec(size), dec(usable))
	require.NoError(t, err)
}

func (e *testEnv) requireBalance(t *testing.T, customerID int64, assetName, size, usable string) {
	t.Helper()
	a, err := e.assets.Get(context.Background(), customerID, assetName)
	require.NoError(t, err)
	assert.True(t, a.Size.Equal(dec(size)), "%s size = %s, want %s", assetName, a.Size, size)
	assert.True(t, a.UsableSize.Equal(dec(usable)), "%s usable = %s, want %s", assetName, a.UsableSize, usable)
}

func orderReq(customerID int64, assetName string, side models.OrderSide, size, price string) *models.CreateOrderRequest {
	s, p := dec(size), dec(price)
	return &models.CreateOrderRequest{
		CustomerID: customerID,
		AssetName:  assetName,
		Side:       side,
		Size:       &s,
		Price:      &p,
	}
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(t *testing.T, e *testEnv)
		req     *models.CreateOrderRequest
		wantErr error
	}{
		{
			name:    "customer missing",
			seed:    func(t *testing.T, e *testEnv) {},
			req:     orderReq(1, "AAPL", models.SideBuy, "10", "50"),
			wantErr: models.ErrCustomerNotFound,
		},
		{
			name: "selling cash is invalid",
			seed: func(t *testing.T, e *testEnv) {
				e.seedCustomer(t, 1)
				e.seedBalance(t, 1, "TRY", "1000", "1000")
			},
			req:     orderReq(1, "TRY", models.SideSell, "10", "1"),
			wantErr: models.ErrInvalidOrder,
		},
		{
			name: "nonpositive size is invalid",
			seed: func(t *testing.T, e *testEnv) {
				e.seedCustomer(t, 1)
			},
			req:     orderReq(1, "AAPL", models.SideBuy, "0", "50"),
			wantErr: models.ErrInvalidOrder,
		},
		{
			name: "buy without cash balance",
			seed: func(t *testing.T, e *testEnv) {
				e.seedCustomer(t, 1)
			},
			req:     orderReq(1, "AAPL", models.SideBuy, "10", "50"),
			wantErr: models.ErrInsufficientFunds,
		},
		{
			name: "buy beyond usable cash",
			seed: func(t *testing.T, e *testEnv) {
				e.seedCustomer(t, 1)
				e.seedBalance(t, 1, "TRY", "1000", "400")
			},
			req:     orderReq(1, "AAPL", models.SideBuy, "10", "50"),
			wantErr: models.ErrInsufficientFunds,
		},
		{
			name: "sell unowned asset",
			seed: func(t *testing.T, e *testEnv) {
				e.seedCustomer(t, 1)
			},
			req:     orderReq(1, "AAPL", models.SideSell, "10", "50"),
			wantErr: models.ErrInsufficientFunds,
		},
		{
			name: "sell beyond usable holding",
			seed: func(t *testing.T, e *testEnv) {
				e.seedCustomer(t, 1)
				e.seedBalance(t, 1, "AAPL", "10", "5")
			},
			req:     orderReq(1, "AAPL", models.SideSell, "10", "50"),
			wantErr: models.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.seed(t, env)

			_, err := env.orders.CreateOrder(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)

			// Nothing may be persisted when creation fails.
			pending, perr := env.orders.GetPendingOrders(context.Background())
			require.NoError(t, perr)
			assert.Empty(t, pending)
		})
	}
}

func TestCreateBuyOrderReservesCash(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(t, 1)
	env.seedBalance(t, 1, "TRY", "1000", "1000")

	order, err := env.orders.CreateOrder(context.Background(), orderReq(1, "AAPL", models.SideBuy, "10", "50"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.False(t, order.CreateDate.IsZero())
	env.requireBalance(t, 1, "TRY", "1000", "500")
}

func TestBuyOrderLifecycleMatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCustomer(t, 1)
	env.seedBalance(t, 1, "TRY", "1000", "1000")

	order, err := env.orders.CreateOrder(ctx, orderReq(1, "AAPL", models.SideBuy, "10", "50"))
	require.NoError(t, err)
	env.requireBalance(t, 1, "TRY", "1000", "500")

	require.NoError(t, env.orders.MatchOrder(ctx, order.ID))

	env.requireBalance(t, 1, "AAPL", "10", "10")
	env.requireBalance(t, 1, "TRY", "500", "500")

	matched, err := env.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusMatched, matched.Status)
}

func TestBuyOrderCancelRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCustomer(t, 1)
	env.seedBalance(t, 1, "TRY", "1000", "1000")

	// 10 units at price 5 reserves exactly 50 TRY.
	order, err := env.orders.CreateOrder(ctx, orderReq(1, "AAPL", models.SideBuy, "10", "5"))
	require.NoError(t, err)
	env.requireBalance(t, 1, "TRY", "1000", "950")

	require.NoError(t, env.orders.CancelOrder(ctx, order.ID))
	env.requireBalance(t, 1, "TRY", "1000", "1000")

	canceled, err := env.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, canceled.Status)
}

func TestSellOrderCancelRestoresHolding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCustomer(t, 1)
	env.seedBalance(t, 1, "AAPL", "10", "10")

	order, err := env.orders.CreateOrder(ctx, orderReq(1, "AAPL", models.SideSell, "10", "20"))
	require.NoError(t, err)
	env.requireBalance(t, 1, "AAPL", "10", "0")

	require.NoError(t, env.orders.CancelOrder(ctx, order.ID))
	env.requireBalance(t, 1, "AAPL", "10", "10")
}

func TestSellOrderMatchCreditsCash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCustomer(t, 1)
	env.seedBalance(t, 1, "AAPL", "10", "10")

	order, err := env.orders.CreateOrder(ctx, orderReq(1, "AAPL", models.SideSell, "10", "20"))
	require.NoError(t, err)

	require.NoError(t, env.orders.MatchOrder(ctx, order.ID))
	env.requireBalance(t, 1, "AAPL", "0", "0")
	env.requireBalance(t, 1, "TRY", "200", "200")
}

func TestTerminalTransitionsAreFinal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCustomer(t, 1)
	env.seedBalance(t, 1, "TRY", "1000", "1000")

	order, err := env.orders.CreateOrder(ctx, orderReq(1, "AAPL", models.SideBuy, "10", "5"))
	require.NoError(t, err)

	require.NoError(t, env.orders.CancelOrder(ctx, order.ID))

	// Second cancel loses the compare-and-set; exactly one release applied.
	err = env.orders.CancelOrder(ctx, order.ID)
	require.ErrorIs(t, err, models.ErrInvalidOrderStatus)
	env.requireBalance(t, 1, "TRY", "1000", "1000")

	// A canceled order can never be matched.
	err = env.orders.MatchOrder(ctx, order.ID)
	require.ErrorIs(t, err, models.ErrInvalidOrderStatus)
}

func TestCancelUnknownOrder(t *testing.T) {
	env := newTestEnv(t)
	err := env.orders.CancelOrder(context.Background(), 404)
	require.ErrorIs(t, err, models.ErrOrderNotFound)
	err = env.orders.MatchOrder(context.Background(), 404)
	require.ErrorIs(t, err, models.ErrOrderNotFound)
}

// Two concurrent BUY creations each needing 600 of 1000 TRY: one order is
// admitted, the other fails with InsufficientFunds even though both may
// have passed validation, and usable never goes negative.
func TestConcurrentCreateNoDoubleReserve(t *testing.T) {
	env := newTestEnv(t)
	env.seedCustomer(t, 1)
	env.seedBalance(t, 1, "TRY", "1000", "1000")

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.orders.CreateOrder(context.Background(), orderReq(1, "AAPL", models.SideBuy, "12", "50"))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, models.ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 1, winners)

	a, err := env.assets.Get(context.Background(), 1, "TRY")
	require.NoError(t, err)
	assert.True(t, a.UsableSize.Equal(dec("400")), "usable = %s", a.UsableSize)
	assert.False(t, a.UsableSize.IsNegative())

	pending, err := env.orders.GetPendingOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestGetOrdersByDateRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCustomer(t, 1)
	env.seedBalance(t, 1, "TRY", "10000", "10000")

	var ids []int64
	for i := 0; i < 3; i++ {
		order, err := env.orders.CreateOrder(ctx, orderReq(1, "AAPL", models.SideBuy, "1", "10"))
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}
	require.NoError(t, env.orders.CancelOrder(ctx, ids[1]))

	today := time.Now()
	all, err := env.orders.GetOrdersByDateRange(ctx, 1, today, today, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := env.orders.GetOrdersByDateRange(ctx, 1, today, today, models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	canceled, err := env.orders.GetOrdersByDateRange(ctx, 1, today, today, models.StatusCanceled)
	require.NoError(t, err)
	require.Len(t, canceled, 1)
	assert.Equal(t, ids[1], canceled[0].ID)

	// A window that ends yesterday excludes everything.
	yesterday := today.AddDate(0, 0, -1)
	none, err := env.orders.GetOrdersByDateRange(ctx, 1, yesterday, yesterday, "")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = env.orders.GetOrdersByDateRange(ctx, 99, today, today, "")
	require.ErrorIs(t, err, models.ErrCustomerNotFound)
}

// flakyBalanceStore fails the nth Adjust call and delegates everything
// else to the wrapped in-memory store.
type flakyBalanceStore struct {
	*memory.AssetStore
	mu       sync.Mutex
	calls    int
	failCall int
	err      error
}

func (s *flakyBalanceStore) Adjust(ctx context.Context, customerID int64, assetName string, deltaSize, deltaUsable decimal.Decimal) (*models.Asset, error) {
	s.mu.Lock()
	s.calls++
	fail := s.calls == s.failCall
	s.mu.Unlock()
	if fail {
		return nil, s.err
	}
	return s.AssetStore.Adjust(ctx, customerID, assetName, deltaSize, deltaUsable)
}

// A store fault on the settlement debit, after the credit already landed:
// MatchOrder must surface the fault and put the order back to PENDING so
// it stays visible for reconciliation.
func TestMatchOrderSettleFailureRestoresPending(t *testing.T) {
	logger := zap.NewNop()
	storeErr := errors.New("connection reset by peer")
	// Adjust call order: reserve on create, settlement credit, then the
	// settlement debit.
	assets := &flakyBalanceStore{
		AssetStore: memory.NewAssetStore(),
		failCall:   3,
		err:        storeErr,
	}
	customers := memory.NewCustomerStore()
	orderStore := memory.NewOrderStore()
	engine := NewReservationEngine(assets, logger)
	svc := NewOrderService(orderStore, customers, assets, engine, logger)
	ctx := context.Background()

	require.NoError(t, customers.Create(ctx, &models.Customer{
		CustomerID:             1,
		Name:                   "Test",
		Surname:                "Customer",
		NationalIdentityNumber: "nid-1",
	}))
	_, err := assets.CreateIfAbsent(ctx, 1, "TRY", dec("1000"), dec("1000"))
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, orderReq(1, "AAPL", models.SideBuy, "10", "50"))
	require.NoError(t, err)

	err = svc.MatchOrder(ctx, order.ID)
	require.ErrorIs(t, err, storeErr)

	got, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	// The credit stuck while the cash debit did not; the half-applied
	// books are the reconciliation case, never silently patched.
	aapl, err := assets.Get(ctx, 1, "AAPL")
	require.NoError(t, err)
	assert.True(t, aapl.Size.Equal(dec("10")))
	try, err := assets.Get(ctx, 1, "TRY")
	require.NoError(t, err)
	assert.True(t, try.Size.Equal(dec("1000")))
	assert.True(t, try.Reserved().Equal(dec("500")), "escrow = %s", try.Reserved())
}

type failingOrderStore struct {
	*memory.OrderStore
	createErr error
}

func (s *failingOrderStore) Create(_ context.Context, _ *models.Order) (int64, error) {
	return 0, s.createErr
}

// When order persistence fails after the reservation landed, the
// reservation is rolled back so no balance stays locked behind a phantom
// order.
func TestCreateOrderPersistFailureReleasesReservation(t *testing.T) {
	logger := zap.NewNop()
	storeErr := errors.New("insert failed")
	assets := memory.NewAssetStore()
	customers := memory.NewCustomerStore()
	orders := &failingOrderStore{OrderStore: memory.NewOrderStore(), createErr: storeErr}
	engine := NewReservationEngine(assets, logger)
	svc := NewOrderService(orders, customers, assets, engine, logger)
	ctx := context.Background()

	require.NoError(t, customers.Create(ctx, &models.Customer{
		CustomerID:             1,
		Name:                   "Test",
		Surname:                "Customer",
		NationalIdentityNumber: "nid-1",
	}))
	_, err := assets.CreateIfAbsent(ctx, 1, "TRY", dec("1000"), dec("1000"))
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, orderReq(1, "AAPL", models.SideBuy, "10", "50"))
	require.ErrorIs(t, err, storeErr)

	try, err := assets.Get(ctx, 1, "TRY")
	require.NoError(t, err)
	assert.True(t, try.UsableSize.Equal(dec("1000")), "usable = %s", try.UsableSize)
	assert.True(t, try.Reserved().IsZero())
}

func TestSettlementConservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCustomer(t, 1)
	env.seedBalance(t, 1, "TRY", "1000", "1000")

	// Settled BUY of size 4 at price 25: AAPL grows by 4, TRY shrinks by 100.
	order, err := env.orders.CreateOrder(ctx, orderReq(1, "AAPL", models.SideBuy, "4", "25"))
	require.NoError(t, err)
	require.NoError(t, env.orders.MatchOrder(ctx, order.ID))

	env.requireBalance(t, 1, "AAPL", "4", "4")
	env.requireBalance(t, 1, "TRY", "900", "900")

	// No escrow left behind.
	try, err := env.assets.Get(ctx, 1, "TRY")
	require.NoError(t, err)
	assert.True(t, try.Reserved().IsZero())
}
