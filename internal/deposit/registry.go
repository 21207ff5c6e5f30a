package deposit

import (
	"StarMiner/internal/catalog"
	"StarMiner/internal/economy"
)

// Registry is the bounded collection of deposits a player owns.
// Len never exceeds Capacity.
type Registry struct {
	economy.Upgradeable
	Deposits []*Deposit `json:"deposits"`
	Capacity int        `json:"capacity"`
}

func NewRegistry(capacity int, upgrade economy.Upgradeable) *Registry {
	return &Registry{Upgradeable: upgrade, Capacity: capacity}
}

func (r *Registry) Len() int     { return len(r.Deposits) }
func (r *Registry) IsFull() bool { return len(r.Deposits) >= r.Capacity }

// Free returns the number of unused slots.
func (r *Registry) Free() int {
	if r.IsFull() {
		return 0
	}
	return r.Capacity - len(r.Deposits)
}

// Add stores d. It is a no-op returning false when the registry is full.
func (r *Registry) Add(d *Deposit) bool {
	if d == nil || r.IsFull() {
		return false
	}
	r.Deposits = append(r.Deposits, d)
	return true
}

// Remove drops d from the registry.
func (r *Registry) Remove(d *Deposit) bool {
	for i, cur := range r.Deposits {
		if cur == d {
			r.Deposits = append(r.Deposits[:i], r.Deposits[i+1:]...)
			return true
		}
	}
	return false
}

// ResourceReserves sums the remaining quantity per resource kind.
func (r *Registry) ResourceReserves() map[catalog.Resource]float64 {
	out := make(map[catalog.Resource]float64)
	for _, d := range r.Deposits {
		out[d.Resource] += d.Remaining
	}
	return out
}

// ExtractionRate returns how many deposits yield kind. Multiply by the
// per-deposit rate for the steady-state yield per minute.
func (r *Registry) ExtractionRate(kind catalog.Resource) int {
	n := 0
	for _, d := range r.Deposits {
		if d.Resource == kind {
			n++
		}
	}
	return n
}

// Upgrade adds the upgrade increment to Capacity.
func (r *Registry) Upgrade() {
	r.Upgradeable.Upgrade()
	r.Capacity += int(r.Increment)
}
