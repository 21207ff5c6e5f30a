package player

import (
	"testing"

	"StarMiner/internal/catalog"
	"StarMiner/internal/deposit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerWithRate(t *testing.T, rate, cargoMax float64) *Player {
	t.Helper()
	rules := DefaultRules()
	rules.ExtractionRate = rate
	rules.CargoMaxWeight = cargoMax
	rules.DatabaseCapacity = 10
	return New(7, "miner", t0, rules)
}

func TestAdvance_PartialExtraction(t *testing.T) {
	p := playerWithRate(t, 7.5, 1000)
	d := deposit.New("AB-CDEF", catalog.Iron, 100, t0)
	require.True(t, p.Database.Add(d))

	rep := p.Advance(t0 + 600)
	assert.Equal(t, int64(600), rep.Elapsed)
	assert.InDelta(t, 75.0, rep.Extracted[catalog.Iron], 1e-9)
	assert.InDelta(t, 25.0, rep.Remaining[catalog.Iron], 1e-9)
	assert.Empty(t, rep.Depleted)
	assert.Equal(t, 1, p.Database.Len())
	assert.InDelta(t, 75.0, p.Cargo.Quantity(catalog.Iron), 1e-9)
}

func TestAdvance_DefaultRate(t *testing.T) {
	p := newPlayer(t)
	p.Database.Add(deposit.New("AB-CDEF", catalog.Iron, 100, t0))

	rep := p.Advance(t0 + 600)
	assert.InDelta(t, 0.75, rep.Extracted[catalog.Iron], 1e-12)
	assert.InDelta(t, 99.25, rep.Remaining[catalog.Iron], 1e-12)
}

func TestAdvance_Idempotent(t *testing.T) {
	p := playerWithRate(t, 1, 1000)
	p.Database.Add(deposit.New("a", catalog.Water, 50, t0))

	first := p.Advance(t0 + 300)
	weight := p.Cargo.CurWeight
	second := p.Advance(t0 + 300)

	assert.InDelta(t, 5.0, first.Extracted[catalog.Water], 1e-9)
	assert.Zero(t, second.Extracted[catalog.Water])
	assert.Zero(t, second.Elapsed)
	assert.Equal(t, weight, p.Cargo.CurWeight)
}

func TestAdvance_DepletionRemovesDeposit(t *testing.T) {
	p := playerWithRate(t, 1, 1000)
	d := deposit.New("GONE-01", catalog.Uranium, 3, t0)
	keep := deposit.New("KEEP-01", catalog.Iron, 1000, t0)
	p.Database.Add(d)
	p.Database.Add(keep)

	// A multi-day gap must clamp to what the deposit holds.
	rep := p.Advance(t0 + 3*24*3600)
	assert.Equal(t, 3.0, rep.Extracted[catalog.Uranium])
	assert.Zero(t, rep.Remaining[catalog.Uranium])
	require.Len(t, rep.Depleted, 1)
	assert.Equal(t, "GONE-01", rep.Depleted[0].Name)
	assert.Equal(t, catalog.Uranium, rep.Depleted[0].Resource)
	assert.Equal(t, 1, p.Database.Len())
	assert.Same(t, keep, p.Database.Deposits[0])
}

func TestAdvance_OverflowReturnsToDeposit(t *testing.T) {
	p := playerWithRate(t, 1, 25)
	p.Cargo.Insert(catalog.Stone, 20)
	d := deposit.New("a", catalog.Iron, 8, t0)
	p.Database.Add(d)

	// 10 minutes would extract 10 kg, the deposit only has 8 and the bay 5.
	rep := p.Advance(t0 + 600)
	assert.InDelta(t, 5.0, rep.Extracted[catalog.Iron], 1e-9)
	assert.InDelta(t, 3.0, d.Remaining, 1e-9)
	assert.InDelta(t, 3.0, rep.Remaining[catalog.Iron], 1e-9)
	assert.Empty(t, rep.Depleted)
	assert.Equal(t, 1, p.Database.Len())
	assert.True(t, rep.CargoFull)
	assert.Equal(t, 25.0, p.Cargo.CurWeight)
}

func TestAdvance_NeverExtractsMoreThanRemaining(t *testing.T) {
	p := playerWithRate(t, 50, 1e9)
	amounts := []float64{0.5, 12, 333, 4.25}
	for i, a := range amounts {
		p.Database.Add(deposit.New(string(rune('a'+i)), catalog.Resource(i), a, t0))
	}
	rep := p.Advance(t0 + 3600)
	for i, a := range amounts {
		assert.LessOrEqual(t, rep.Extracted[catalog.Resource(i)], a)
	}
	assert.Len(t, rep.Depleted, len(amounts))
	assert.Zero(t, p.Database.Len())
	assert.InDelta(t, 349.75, p.Cargo.CurWeight, 1e-9)
}

func TestAdvance_StopsWhenCargoFull(t *testing.T) {
	p := playerWithRate(t, 1, 10)
	first := deposit.New("a", catalog.Iron, 100, t0)
	second := deposit.New("b", catalog.Oil, 100, t0)
	p.Database.Add(first)
	p.Database.Add(second)

	rep := p.Advance(t0 + 3600)
	assert.True(t, rep.CargoFull)
	assert.InDelta(t, 10.0, rep.Extracted[catalog.Iron], 1e-9)
	_, visited := rep.Extracted[catalog.Oil]
	assert.False(t, visited)
	assert.Equal(t, t0, second.LastCheck)
}

func TestAdvance_NoDeposits(t *testing.T) {
	p := newPlayer(t)
	rep := p.Advance(t0 + 10)
	assert.Empty(t, rep.Extracted)
	assert.Zero(t, rep.Deposits)
	assert.Equal(t, t0+10, p.LastCheck)
}

func TestYieldPerMinute(t *testing.T) {
	p := playerWithRate(t, 0.075, 100)
	p.Database.Add(deposit.New("a", catalog.Iron, 10, t0))
	p.Database.Add(deposit.New("b", catalog.Iron, 10, t0))
	p.Database.Add(deposit.New("c", catalog.Sand, 10, t0))

	y := p.YieldPerMinute()
	assert.InDelta(t, 0.15, y[catalog.Iron], 1e-12)
	assert.InDelta(t, 0.075, y[catalog.Sand], 1e-12)
}
