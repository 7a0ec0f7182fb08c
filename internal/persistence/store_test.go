package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sherwood-core/engine/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPersistInsertsFill(t *testing.T) {
	store := openTestStore(t)
	fill := models.Fill{
		OrderID:   "order-1",
		Pair:      "BTCUSDT",
		Side:      models.OrderSideBuy,
		Price:     100.5,
		Quantity:  2,
		Timestamp: time.Now().UTC(),
	}

	require.NoError(t, store.Persist(context.Background(), fill, models.PositionModePaper))

	var count int
	require.NoError(t, store.db.Get(&count, "SELECT COUNT(*) FROM fills WHERE order_id = ?", "order-1"))
	assert.Equal(t, 1, count)
}

func TestPersistIsIdempotentOnOrderID(t *testing.T) {
	store := openTestStore(t)
	fill := models.Fill{
		OrderID:   "order-1",
		Pair:      "BTCUSDT",
		Side:      models.OrderSideBuy,
		Price:     100,
		Quantity:  1,
		Timestamp: time.Now().UTC(),
	}

	require.NoError(t, store.Persist(context.Background(), fill, models.PositionModePaper))

	duplicate := fill
	duplicate.Price = 999
	duplicate.Quantity = 999
	require.NoError(t, store.Persist(context.Background(), duplicate, models.PositionModePaper))

	var count int
	require.NoError(t, store.db.Get(&count, "SELECT COUNT(*) FROM fills WHERE order_id = ?", "order-1"))
	assert.Equal(t, 1, count)

	var price float64
	require.NoError(t, store.db.Get(&price, "SELECT price FROM fills WHERE order_id = ?", "order-1"))
	assert.Equal(t, 100.0, price, "first write wins, duplicate insert is a no-op")
}

func TestPersistRecordsTradingMode(t *testing.T) {
	store := openTestStore(t)
	fill := models.Fill{OrderID: "order-2", Pair: "ETHUSDT", Side: models.OrderSideSell, Price: 50, Quantity: 3, Timestamp: time.Now().UTC()}

	require.NoError(t, store.Persist(context.Background(), fill, models.PositionModeLive))

	var mode string
	require.NoError(t, store.db.Get(&mode, "SELECT mode FROM fills WHERE order_id = ?", "order-2"))
	assert.Equal(t, string(models.PositionModeLive), mode)
}

func TestOpenCreatesNestedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "engine.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	var result int
	require.NoError(t, store.db.Get(&result, "SELECT 1"))
	assert.Equal(t, 1, result)
}
