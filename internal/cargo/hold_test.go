package cargo

import (
	"testing"

	"StarMiner/internal/catalog"
	"StarMiner/internal/economy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHold(max float64) *Hold {
	return New(max, economy.New(25, 0.20, 15))
}

func TestInsert_Overflow(t *testing.T) {
	h := newHold(25)
	require.Zero(t, h.Insert(catalog.Stone, 20))

	overflow := h.Insert(catalog.Iron, 10)
	assert.Equal(t, 5.0, overflow)
	assert.Equal(t, 25.0, h.CurWeight)
	assert.Equal(t, 5.0, h.Quantity(catalog.Iron))
	assert.True(t, h.IsFull())
}

func TestInsert_NeverExceedsMax(t *testing.T) {
	amounts := []float64{0.3, 7, 12.5, 40, 0.0001, 3}
	h := newHold(30)
	for _, a := range amounts {
		overflow := h.Insert(catalog.Water, a)
		assert.GreaterOrEqual(t, overflow, 0.0)
		assert.LessOrEqual(t, h.CurWeight, h.MaxWeight)
	}
	assert.InDelta(t, h.CurWeight, h.Quantity(catalog.Water), 1e-9)
}

func TestInsert_StoredPlusOverflowEqualsAmount(t *testing.T) {
	h := newHold(10)
	h.Insert(catalog.Sand, 8)
	before := h.Quantity(catalog.Copper)
	overflow := h.Insert(catalog.Copper, 6)
	stored := h.Quantity(catalog.Copper) - before
	assert.InDelta(t, 6.0, stored+overflow, 1e-12)
}

func TestInsertThenRemove_RestoresWeight(t *testing.T) {
	h := newHold(100)
	h.Insert(catalog.Oil, 12.75)
	prev := h.CurWeight

	require.Zero(t, h.Insert(catalog.Iron, 33.25))
	require.True(t, h.Remove(catalog.Iron, 33.25))
	assert.Equal(t, prev, h.CurWeight)
	assert.Zero(t, h.Quantity(catalog.Iron))
}

func TestRemove_InsufficientNoMutation(t *testing.T) {
	h := newHold(50)
	h.Insert(catalog.Peat, 4)

	ok := h.Remove(catalog.Peat, 5)
	assert.False(t, ok)
	assert.Equal(t, 4.0, h.CurWeight)
	assert.Equal(t, 4.0, h.Quantity(catalog.Peat))

	assert.False(t, h.Remove(catalog.Uranium, 1))
}

func TestRemove_ClampsDrift(t *testing.T) {
	h := newHold(50)
	h.Insert(catalog.Iron, 1)
	h.CurWeight = 0.5 // simulated float drift
	require.True(t, h.Remove(catalog.Iron, 1))
	assert.Zero(t, h.CurWeight)
	assert.True(t, h.IsEmpty())
}

func TestUpgrade_GrowsCapacityAndCost(t *testing.T) {
	h := newHold(25)
	h.Upgrade()
	assert.Equal(t, 50.0, h.MaxWeight)
	assert.Equal(t, 2, h.Level)
	assert.InDelta(t, 18.0, h.UpgradeCost(), 1e-12)
}

func TestEmptyAndFree(t *testing.T) {
	h := newHold(25)
	assert.True(t, h.IsEmpty())
	assert.False(t, h.IsFull())
	assert.Equal(t, 25.0, h.Free())
	h.Insert(catalog.Stone, 30)
	assert.Zero(t, h.Free())
}
