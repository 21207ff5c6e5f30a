package deposit

import (
	"math/rand/v2"
	"testing"

	"StarMiner/internal/catalog"
	"StarMiner/internal/economy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveElapsed_ResetsBaseline(t *testing.T) {
	d := New("AB-1234", catalog.Iron, 100, 1000)
	assert.Equal(t, int64(600), d.ObserveElapsed(1600))
	assert.Equal(t, int64(0), d.ObserveElapsed(1600))
	assert.Equal(t, int64(1600), d.LastCheck)
}

func TestObserveElapsed_ClockBackwards(t *testing.T) {
	d := New("AB-1234", catalog.Iron, 100, 1000)
	assert.Equal(t, int64(0), d.ObserveElapsed(900))
	assert.Equal(t, int64(100), d.ObserveElapsed(1000))
}

func TestRandomName(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	name := RandomName(rng)
	require.Len(t, name, 7)
	assert.Equal(t, byte('-'), name[2])
}

func newRegistry(capacity int) *Registry {
	return NewRegistry(capacity, economy.New(1, 0.5, 50))
}

func TestRegistry_AddRejectsWhenFull(t *testing.T) {
	r := newRegistry(2)
	require.True(t, r.Add(New("a", catalog.Iron, 10, 0)))
	require.True(t, r.Add(New("b", catalog.Iron, 10, 0)))
	assert.True(t, r.IsFull())

	assert.False(t, r.Add(New("c", catalog.Oil, 10, 0)))
	assert.Equal(t, 2, r.Len())
	assert.Zero(t, r.Free())
}

func TestRegistry_Remove(t *testing.T) {
	r := newRegistry(3)
	a := New("a", catalog.Iron, 10, 0)
	b := New("b", catalog.Water, 10, 0)
	r.Add(a)
	r.Add(b)

	assert.True(t, r.Remove(a))
	assert.False(t, r.Remove(a))
	require.Len(t, r.Deposits, 1)
	assert.Same(t, b, r.Deposits[0])
}

func TestRegistry_ReservesAndRate(t *testing.T) {
	r := newRegistry(5)
	r.Add(New("a", catalog.Iron, 10, 0))
	r.Add(New("b", catalog.Iron, 2.5, 0))
	r.Add(New("c", catalog.Oil, 7, 0))

	res := r.ResourceReserves()
	assert.Equal(t, 12.5, res[catalog.Iron])
	assert.Equal(t, 7.0, res[catalog.Oil])
	assert.Equal(t, 2, r.ExtractionRate(catalog.Iron))
	assert.Equal(t, 0, r.ExtractionRate(catalog.Uranium))
}

func TestRegistry_Upgrade(t *testing.T) {
	r := newRegistry(3)
	r.Upgrade()
	assert.Equal(t, 4, r.Capacity)
	assert.Equal(t, 75.0, r.UpgradeCost())
}
