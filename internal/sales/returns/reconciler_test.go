package returns

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCounterStore tracks counters in memory with the same contract as the
// SQL implementation: adjustments against unknown rows fail with ErrNotFound.
type memCounterStore struct {
	stock map[int64]int
	due   map[int64]float64
}

func newMemCounterStore() *memCounterStore {
	return &memCounterStore{stock: make(map[int64]int), due: make(map[int64]float64)}
}

func (m *memCounterStore) AdjustStock(_ context.Context, productID int64, delta int) error {
	if _, ok := m.stock[productID]; !ok {
		return ErrNotFound
	}
	m.stock[productID] += delta
	return nil
}

func (m *memCounterStore) AdjustDue(_ context.Context, customerID int64, delta float64) error {
	if _, ok := m.due[customerID]; !ok {
		return ErrNotFound
	}
	m.due[customerID] += delta
	return nil
}

func (m *memCounterStore) clone() *memCounterStore {
	c := newMemCounterStore()
	for k, v := range m.stock {
		c.stock[k] = v
	}
	for k, v := range m.due {
		c.due[k] = v
	}
	return c
}

func ptrInt64(v int64) *int64 { return &v }
func ptrStr(v string) *string { return &v }

func productItem(productID int64, pieces int) ItemEffect {
	return ItemEffect{ProductID: ptrInt64(productID), TotalPieces: pieces}
}

func TestApplyThenReverseRestoresState(t *testing.T) {
	store := newMemCounterStore()
	store.due[1] = 8200
	store.stock[10] = 40
	store.stock[11] = 75

	effect := Effect{
		CustomerID: 1,
		Items:      []ItemEffect{productItem(10, 12), productItem(11, 7)},
		GrandTotal: 1350,
	}

	rec := NewReconciler(store)
	require.NoError(t, rec.Apply(context.Background(), effect))
	require.NoError(t, rec.Reverse(context.Background(), effect))

	assert.Equal(t, 8200.0, store.due[1])
	assert.Equal(t, 40, store.stock[10])
	assert.Equal(t, 75, store.stock[11])
}

func TestReplaceEqualsReverseThenApply(t *testing.T) {
	base := newMemCounterStore()
	base.due[1] = 5000
	base.stock[10] = 100
	base.stock[11] = 60

	oldEffect := Effect{CustomerID: 1, Items: []ItemEffect{productItem(10, 20)}, GrandTotal: 900}
	newEffect := Effect{CustomerID: 1, Items: []ItemEffect{productItem(11, 5)}, GrandTotal: 400}

	viaReplace := base.clone()
	require.NoError(t, NewReconciler(viaReplace).Apply(context.Background(), oldEffect))
	require.NoError(t, NewReconciler(viaReplace).Replace(context.Background(), oldEffect, newEffect))

	viaPair := base.clone()
	rec := NewReconciler(viaPair)
	require.NoError(t, rec.Apply(context.Background(), oldEffect))
	require.NoError(t, rec.Reverse(context.Background(), oldEffect))
	require.NoError(t, rec.Apply(context.Background(), newEffect))

	assert.Equal(t, viaPair.due, viaReplace.due)
	assert.Equal(t, viaPair.stock, viaReplace.stock)
}

func TestApplyAdjustsOnlyReferencedProduct(t *testing.T) {
	store := newMemCounterStore()
	store.due[1] = 1000
	store.stock[10] = 30
	store.stock[11] = 30
	store.stock[12] = 30

	effect := Effect{CustomerID: 1, Items: []ItemEffect{productItem(11, 9)}, GrandTotal: 100}
	require.NoError(t, NewReconciler(store).Apply(context.Background(), effect))

	assert.Equal(t, 30, store.stock[10])
	assert.Equal(t, 39, store.stock[11])
	assert.Equal(t, 30, store.stock[12])
}

func TestScrapItemsNeverTouchStock(t *testing.T) {
	store := newMemCounterStore()
	store.due[1] = 2000
	store.stock[10] = 50

	effect := Effect{
		CustomerID: 1,
		Items: []ItemEffect{
			{Description: ptrStr("mixed metal scrap"), TotalPieces: 0},
			{Description: ptrStr("torn sacks"), TotalPieces: 0},
		},
		GrandTotal: 750,
	}

	rec := NewReconciler(store)
	require.NoError(t, rec.Apply(context.Background(), effect))
	assert.Equal(t, 50, store.stock[10])
	assert.Equal(t, 1250.0, store.due[1])

	require.NoError(t, rec.Reverse(context.Background(), effect))
	assert.Equal(t, 50, store.stock[10])
	assert.Equal(t, 2000.0, store.due[1])
}

func TestDueDeltaEqualsGrandTotal(t *testing.T) {
	store := newMemCounterStore()
	store.due[1] = 600
	store.stock[10] = 10
	store.stock[11] = 10

	effect := Effect{
		CustomerID: 1,
		Items:      []ItemEffect{productItem(10, 3), productItem(11, 4), {Description: ptrStr("scrap"), TotalPieces: 0}},
		GrandTotal: 275,
	}

	rec := NewReconciler(store)
	require.NoError(t, rec.Apply(context.Background(), effect))
	assert.Equal(t, 325.0, store.due[1])

	require.NoError(t, rec.Reverse(context.Background(), effect))
	assert.Equal(t, 600.0, store.due[1])
}

func TestEmptyItemsRejected(t *testing.T) {
	store := newMemCounterStore()
	store.due[1] = 999
	rec := NewReconciler(store)

	err := rec.Apply(context.Background(), Effect{CustomerID: 1, Items: []ItemEffect{}, GrandTotal: 10})
	require.ErrorIs(t, err, ErrNoItems)

	err = rec.Apply(context.Background(), Effect{CustomerID: 1, Items: nil, GrandTotal: 10})
	require.ErrorIs(t, err, ErrNoItems)

	assert.Equal(t, 999.0, store.due[1])
}

func TestItemWithoutProductOrDescriptionRejected(t *testing.T) {
	store := newMemCounterStore()
	store.due[1] = 100
	err := NewReconciler(store).Apply(context.Background(), Effect{
		CustomerID: 1,
		Items:      []ItemEffect{{TotalPieces: 5}},
		GrandTotal: 50,
	})
	require.ErrorIs(t, err, ErrItemUnidentified)
	assert.Equal(t, 100.0, store.due[1])
}

func TestNegativeGrandTotalRejected(t *testing.T) {
	store := newMemCounterStore()
	store.due[1] = 100
	store.stock[10] = 5
	err := NewReconciler(store).Apply(context.Background(), Effect{
		CustomerID: 1,
		Items:      []ItemEffect{productItem(10, 1)},
		GrandTotal: -1,
	})
	require.ErrorIs(t, err, ErrNegativeTotal)
	assert.Equal(t, 5, store.stock[10])
}

func TestMissingProductFailsNotFound(t *testing.T) {
	store := newMemCounterStore()
	store.due[1] = 100
	err := NewReconciler(store).Apply(context.Background(), Effect{
		CustomerID: 1,
		Items:      []ItemEffect{productItem(404, 5)},
		GrandTotal: 50,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMissingCustomerFailsNotFound(t *testing.T) {
	store := newMemCounterStore()
	store.stock[10] = 5
	err := NewReconciler(store).Apply(context.Background(), Effect{
		CustomerID: 7,
		Items:      []ItemEffect{productItem(10, 1)},
		GrandTotal: 50,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConcreteApplyScenario(t *testing.T) {
	store := newMemCounterStore()
	store.due[1] = 10000
	store.stock[100] = 100 // product A

	err := NewReconciler(store).Apply(context.Background(), Effect{
		CustomerID: 1,
		Items:      []ItemEffect{productItem(100, 25)},
		GrandTotal: 4900,
	})
	require.NoError(t, err)

	assert.Equal(t, 5100.0, store.due[1])
	assert.Equal(t, 125, store.stock[100])
}

func TestConcreteReplaceScenario(t *testing.T) {
	store := newMemCounterStore()
	store.due[1] = 10000
	store.stock[100] = 100 // product A
	store.stock[200] = 200 // product B

	rec := NewReconciler(store)
	oldEffect := Effect{CustomerID: 1, Items: []ItemEffect{productItem(100, 25)}, GrandTotal: 4900}
	require.NoError(t, rec.Apply(context.Background(), oldEffect))

	newEffect := Effect{CustomerID: 1, Items: []ItemEffect{productItem(200, 30)}, GrandTotal: 3000}
	require.NoError(t, rec.Replace(context.Background(), oldEffect, newEffect))

	assert.Equal(t, 100, store.stock[100])
	assert.Equal(t, 230, store.stock[200])
	assert.Equal(t, 7000.0, store.due[1])
}
