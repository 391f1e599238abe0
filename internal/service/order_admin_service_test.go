package service

import (
	"context"
	"testing"
	"time"

	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/models"
	"github.com/indra-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrder(t *testing.T, env *orderTestEnv) *models.Order {
	t.Helper()
	order, err := env.orders.CreateOrder(context.Background(), validOrderInput(orderItem(1, "Linen Dress", 1000, 1)))
	require.NoError(t, err)
	return order
}

func TestUpdateStatusShippedAtSetOnce(t *testing.T) {
	env := newOrderTestEnv(t)
	order := createTestOrder(t, env)

	first := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	env.admin.now = func() time.Time { return first }
	tracking := "LK123456"
	updated, err := env.admin.UpdateStatus(UpdateOrderStatusInput{
		ID:             order.ID,
		Status:         "shipped",
		TrackingNumber: &tracking,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusShipped, updated.Status)
	require.NotNil(t, updated.ShippedAt)
	assert.True(t, first.Equal(*updated.ShippedAt))
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "LK123456", *updated.TrackingNumber)
	assert.Nil(t, updated.DeliveredAt)

	env.admin.now = func() time.Time { return first.Add(48 * time.Hour) }
	again, err := env.admin.UpdateStatus(UpdateOrderStatusInput{ID: order.ID, Status: constants.OrderStatusShipped})
	require.NoError(t, err)
	require.NotNil(t, again.ShippedAt)
	assert.True(t, first.Equal(*again.ShippedAt))
	require.NotNil(t, again.TrackingNumber, "nil tracking input keeps the stored value")
	assert.Equal(t, "LK123456", *again.TrackingNumber)
}

func TestUpdateStatusDeliveredBackfillsShippedAt(t *testing.T) {
	env := newOrderTestEnv(t)
	order := createTestOrder(t, env)

	_, err := env.admin.UpdateStatus(UpdateOrderStatusInput{ID: order.ID, Status: constants.OrderStatusShipped})
	require.NoError(t, err)

	// 直接清空 shipped_at 模拟历史数据
	require.NoError(t, env.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("shipped_at", nil).Error)

	delivered, err := env.admin.UpdateStatus(UpdateOrderStatusInput{ID: order.ID, Status: constants.OrderStatusDelivered})
	require.NoError(t, err)
	assert.NotNil(t, delivered.DeliveredAt)
	assert.NotNil(t, delivered.ShippedAt)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	env := newOrderTestEnv(t)
	order := createTestOrder(t, env)

	_, err := env.admin.UpdateStatus(UpdateOrderStatusInput{ID: order.ID, Status: constants.OrderStatusCancelled})
	require.NoError(t, err)

	_, err = env.admin.UpdateStatus(UpdateOrderStatusInput{ID: order.ID, Status: constants.OrderStatusShipped})
	assert.ErrorIs(t, err, ErrOrderTransitionInvalid)

	stored, err := env.orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusCancelled, stored.Status)
	assert.Nil(t, stored.ShippedAt)
}

func TestUpdateStatusClearsTracking(t *testing.T) {
	env := newOrderTestEnv(t)
	order := createTestOrder(t, env)

	number := "LK999"
	url := "https://track.example.com/LK999"
	_, err := env.admin.UpdateStatus(UpdateOrderStatusInput{
		ID:             order.ID,
		Status:         constants.OrderStatusShipped,
		TrackingNumber: &number,
		TrackingURL:    &url,
	})
	require.NoError(t, err)

	empty := "  "
	updated, err := env.admin.UpdateStatus(UpdateOrderStatusInput{
		ID:             order.ID,
		Status:         constants.OrderStatusShipped,
		TrackingNumber: &empty,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.TrackingNumber)
	require.NotNil(t, updated.TrackingURL)
	assert.Equal(t, url, *updated.TrackingURL)
}

func TestUpdateStatusValidation(t *testing.T) {
	env := newOrderTestEnv(t)
	order := createTestOrder(t, env)

	_, err := env.admin.UpdateStatus(UpdateOrderStatusInput{Status: constants.OrderStatusShipped})
	assert.ErrorIs(t, err, ErrOrderIDRequired)

	_, err = env.admin.UpdateStatus(UpdateOrderStatusInput{ID: order.ID, Status: "LOST"})
	assert.ErrorIs(t, err, ErrOrderStatusInvalid)

	_, err = env.admin.UpdateStatus(UpdateOrderStatusInput{ID: order.ID + 100, Status: constants.OrderStatusShipped})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderAdminListAndGet(t *testing.T) {
	env := newOrderTestEnv(t)
	first := createTestOrder(t, env)
	second := createTestOrder(t, env)
	_, err := env.admin.UpdateStatus(UpdateOrderStatusInput{ID: second.ID, Status: constants.OrderStatusShipped})
	require.NoError(t, err)

	orders, total, err := env.admin.List(repository.OrderListFilter{Status: "processing", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)

	_, _, err = env.admin.List(repository.OrderListFilter{Status: "unknown"})
	assert.ErrorIs(t, err, ErrOrderStatusInvalid)

	found, err := env.admin.Get(first.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 1)

	_, err = env.admin.Get(0)
	assert.ErrorIs(t, err, ErrOrderIDRequired)
	_, err = env.admin.Get(first.ID + 100)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
