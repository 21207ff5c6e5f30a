package notifier

import (
	"errors"
	"fmt"
	"testing"

	"StarMiner/internal/catalog"
	"StarMiner/internal/deposit"
	"StarMiner/internal/player"

	"github.com/stretchr/testify/assert"
)

const t0 int64 = 1_700_000_000

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		sec  int64
		want string
	}{
		{0, "0:00:00"},
		{59, "0:00:59"},
		{60, "0:01:00"},
		{3725, "1:02:05"},
		{-4, "0:00:00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.sec))
	}
}

func TestFormatProfile(t *testing.T) {
	p := player.New(7, "<vega>", t0, nil)
	_, err := p.StartTimedAction(player.ActionPlanetSearch, t0)
	assert.NoError(t, err)

	out := FormatProfile(p, t0+15)
	assert.Contains(t, out, "Captain &lt;vega&gt;")
	assert.Contains(t, out, "Credits: 1000.00")
	assert.Contains(t, out, "Shuttles: 0 idle / 1 away")
	assert.Contains(t, out, "next back in 0:00:45")
}

func TestFormatProgress(t *testing.T) {
	p := player.New(7, "vega", t0, nil)
	out := FormatProgress(player.ProgressReport{}, p)
	assert.Contains(t, out, "/find_planet")

	p.Database.Add(deposit.New("AB-CDEF", catalog.Iron, 5, t0))
	p.Database.Add(deposit.New("XY-ZZZZ", catalog.Oil, 1, t0))
	rep := p.Advance(t0 + 600)
	out = FormatProgress(rep, p)
	assert.Contains(t, out, "Iron: +0.75 kg (4.25 kg left)")
	assert.Contains(t, out, "Oil: +0.75 kg")
	assert.Contains(t, out, "Total: 1.50 kg")
	assert.NotContains(t, out, "exhausted")
}

func TestFormatCargo(t *testing.T) {
	p := player.New(7, "vega", t0, nil)
	assert.Contains(t, FormatCargo(p), "Empty.")

	p.Cargo.Insert(catalog.Uranium, 10)
	out := FormatCargo(p)
	assert.Contains(t, out, "Uranium (Fuel): 10.00 kg ≈ 8.50 cr  /sell_Uranium_all")
	assert.Contains(t, out, "Estimated value: 8.50 cr")
}

func TestFormatShop(t *testing.T) {
	p := player.New(7, "vega", t0, nil)
	out := FormatShop(p)
	assert.Contains(t, out, "Cargo bay lvl 1 → 2 (+25 kg): 15.00 cr")
	assert.Contains(t, out, "Celestial database lvl 1 → 2 (+1 slot): 50.00 cr")
	assert.Contains(t, out, "Shuttle #2: 250.00 cr")
}

func TestFormatResolution(t *testing.T) {
	res := player.Resolution{
		Deposit: deposit.New("QT-ABCD", catalog.Water, 12.5, t0),
		Stored:  false,
		LevelUp: player.LevelUp{Gained: 2, Level: 1},
	}
	out := FormatResolution(res)
	assert.Contains(t, out, "QT-ABCD with 12.50 kg of Water")
	assert.Contains(t, out, "no room")
	assert.Contains(t, out, "+2 exp")

	assert.Empty(t, FormatResolution(player.Resolution{}))
}

func TestFormatRejection(t *testing.T) {
	wrapped := fmt.Errorf("upgrade: %w", player.ErrInsufficientFunds)
	assert.Equal(t, "❌ Not enough credits.", FormatRejection(wrapped))
	assert.Contains(t, FormatRejection(player.ErrDatabaseFull), "Upgrade it")
	assert.Contains(t, FormatRejection(errors.New("disk on fire")), "Something went wrong")
}

func TestFormatStarted(t *testing.T) {
	assert.Equal(t, "🟢 <b>StarMiner started</b>\nPlayers: 12 | expeditions in flight: 3", FormatStarted(12, 3))
}
