package service

import (
	"context"
	"testing"
	"time"

	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardOverview(t *testing.T) {
	useTestRedis(t)
	env := newOrderTestEnv(t)
	ctx := context.Background()
	seedProduct(t, env.db, "dresses", "wrap-dress", 4000, true, time.Now())
	seedProduct(t, env.db, "dresses", "old-dress", 4000, false, time.Now())

	_, err := env.orders.CreateOrder(ctx, validOrderInput(orderItem(1, "Wrap Dress", 1000, 2)))
	require.NoError(t, err)
	second, err := env.orders.CreateOrder(ctx, validOrderInput(orderItem(1, "Wrap Dress", 1000, 1)))
	require.NoError(t, err)
	_, err = env.admin.UpdateStatus(UpdateOrderStatusInput{ID: second.ID, Status: constants.OrderStatusCancelled})
	require.NoError(t, err)

	svc := NewDashboardService(repository.NewDashboardRepository(env.db), "lkr")
	overview, err := svc.GetOverview(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "LKR", overview.Currency)
	assert.Equal(t, int64(2), overview.TotalProducts)
	assert.Equal(t, int64(1), overview.ActiveProducts)
	assert.Equal(t, int64(2), overview.TotalOrders)
	assert.Equal(t, int64(1), overview.ProcessingOrders)
	assert.Equal(t, "2000.00", overview.Revenue)

	_, err = env.orders.CreateOrder(ctx, validOrderInput(orderItem(1, "Wrap Dress", 1000, 1)))
	require.NoError(t, err)

	cached, err := svc.GetOverview(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cached.TotalOrders)

	refreshed, err := svc.GetOverview(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), refreshed.TotalOrders)
}
