package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(id uint, price int64) Item {
	return Item{ProductID: id, Name: "Linen Dress", Price: decimal.NewFromInt(price), Image: "/uploads/products/a.jpg"}
}

func TestStoreAddMergesSameProduct(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage())
	token := NewToken()

	_, err := store.Add(ctx, token, testItem(1, 4500))
	require.NoError(t, err)
	item := testItem(1, 4500)
	item.Qty = 2
	summary, err := store.Add(ctx, token, item)
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Qty)
	assert.Equal(t, 3, summary.Count)
	assert.True(t, summary.Subtotal.Equal(decimal.NewFromInt(13500)))
}

func TestStoreDecrementFloorsAtOne(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage())
	token := NewToken()

	_, err := store.Add(ctx, token, testItem(7, 1000))
	require.NoError(t, err)
	summary, err := store.Decrement(ctx, token, 7)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 1, summary.Items[0].Qty)

	_, err = store.Decrement(ctx, token, 99)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestStoreIncrementRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), WithMaxQty(2))
	token := NewToken()

	_, err := store.Add(ctx, token, testItem(1, 100))
	require.NoError(t, err)
	_, err = store.Add(ctx, token, testItem(2, 250))
	require.NoError(t, err)

	summary, err := store.Increment(ctx, token, 1)
	require.NoError(t, err)
	summary, err = store.Increment(ctx, token, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Items[0].Qty, "quantity should be capped")

	summary, err = store.Remove(ctx, token, 1)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, uint(2), summary.Items[0].ProductID)

	require.NoError(t, store.Clear(ctx, token))
	items, err := store.Items(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStoreRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	_, err := store.Add(ctx, "not-a-token", testItem(1, 100))
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = store.Add(ctx, NewToken(), Item{Name: "x", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrItemInvalid)
}

func TestStoreMalformedPayloadIsEmptyCart(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	token := NewToken()
	require.NoError(t, storage.Save(ctx, token, []byte("{broken")))

	store := NewStore(storage)
	items, err := store.Items(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, items)

	summary, err := store.Add(ctx, token, testItem(3, 500))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
}

func TestStoreSubscribeReceivesEvents(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage())
	token := NewToken()
	events, cancel := store.Subscribe(4)
	defer cancel()

	_, err := store.Add(ctx, token, testItem(1, 100))
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, token))

	select {
	case event := <-events:
		assert.Equal(t, "cart:updated", event.Type)
		assert.Equal(t, token, event.Token)
		assert.Len(t, event.Items, 1)
	case <-time.After(time.Second):
		t.Fatal("expected cart:updated event")
	}
	select {
	case event := <-events:
		assert.Equal(t, "cart:cleared", event.Type)
	case <-time.After(time.Second):
		t.Fatal("expected cart:cleared event")
	}
}

func TestStoreConcurrentMutationsPublishInCommitOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage())
	token := NewToken()
	_, err := store.Add(ctx, token, testItem(1, 100))
	require.NoError(t, err)

	const workers = 40
	events, cancel := store.Subscribe(workers)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Increment(ctx, token, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for want := 2; want <= workers+1; want++ {
		select {
		case event := <-events:
			require.Len(t, event.Items, 1)
			require.Equal(t, want, event.Items[0].Qty)
		case <-time.After(time.Second):
			t.Fatalf("missing event for qty %d", want)
		}
	}
	items, err := store.Items(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, workers+1, items[0].Qty)
}

func TestRedisStorageRoundTripAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	storage := NewRedisStorage(client, "test", time.Hour)
	store := NewStore(storage)
	ctx := context.Background()
	token := NewToken()

	_, err := store.Add(ctx, token, testItem(5, 1200))
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:cart:"+token))
	assert.Equal(t, time.Hour, mr.TTL("test:cart:"+token))

	items, err := store.Items(ctx, token)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(1200)))

	mr.FastForward(2 * time.Hour)
	items, err = store.Items(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, items)
}
