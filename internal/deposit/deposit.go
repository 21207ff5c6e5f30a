package deposit

import (
	"strings"

	"StarMiner/internal/catalog"
)

// Deposit is a depletable resource source owned by a player.
type Deposit struct {
	Name      string           `json:"name"`
	Resource  catalog.Resource `json:"resource"`
	Remaining float64          `json:"remaining"`
	LastCheck int64            `json:"last_check"`
}

// New returns a deposit whose extraction clock starts at now.
func New(name string, r catalog.Resource, amount float64, now int64) *Deposit {
	return &Deposit{Name: name, Resource: r, Remaining: amount, LastCheck: now}
}

// ObserveElapsed returns the seconds since the last observation and moves the
// baseline to now. A clock that went backwards yields zero.
func (d *Deposit) ObserveElapsed(now int64) int64 {
	elapsed := now - d.LastCheck
	d.LastCheck = now
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Depleted reports whether nothing is left to extract.
func (d *Deposit) Depleted() bool { return d.Remaining <= 0 }

const nameAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ0123456789"

// RandomName returns a catalog designation like "KX-4R7Q".
func RandomName(rng catalog.Rand) string {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		if i == 2 {
			b.WriteByte('-')
			continue
		}
		b.WriteByte(nameAlphabet[int(rng.Float64()*float64(len(nameAlphabet)))%len(nameAlphabet)])
	}
	return b.String()
}
