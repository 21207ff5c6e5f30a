package cargo

import (
	"StarMiner/internal/catalog"
	"StarMiner/internal/economy"
)

// Hold is a weight-capped inventory of resources.
//
// CurWeight tracks the sum of Contents and never exceeds MaxWeight.
type Hold struct {
	economy.Upgradeable
	Contents  map[catalog.Resource]float64 `json:"contents"`
	CurWeight float64                      `json:"cur_weight"`
	MaxWeight float64                      `json:"max_weight"`
}

// New returns an empty hold.
func New(maxWeight float64, upgrade economy.Upgradeable) *Hold {
	return &Hold{
		Upgradeable: upgrade,
		Contents:    make(map[catalog.Resource]float64),
		MaxWeight:   maxWeight,
	}
}

// Quantity returns the amount of r held, zero if absent.
func (h *Hold) Quantity(r catalog.Resource) float64 {
	return h.Contents[r]
}

// Contains reports whether at least amount of r is held.
func (h *Hold) Contains(r catalog.Resource, amount float64) bool {
	return h.Quantity(r) >= amount
}

// Insert stores amount of r and returns the part that did not fit.
// The caller owns the overflow.
func (h *Hold) Insert(r catalog.Resource, amount float64) (overflow float64) {
	if amount <= 0 {
		return 0
	}
	if h.Contents == nil {
		h.Contents = make(map[catalog.Resource]float64)
	}
	h.CurWeight += amount
	if h.CurWeight > h.MaxWeight {
		overflow = h.CurWeight - h.MaxWeight
		h.CurWeight = h.MaxWeight
	}
	if stored := amount - overflow; stored > 0 {
		h.Contents[r] += stored
	}
	return overflow
}

// Remove takes amount of r out of the hold. It fails without mutating
// anything if less than amount is held.
func (h *Hold) Remove(r catalog.Resource, amount float64) bool {
	if amount < 0 || !h.Contains(r, amount) {
		return false
	}
	h.CurWeight -= amount
	if h.CurWeight < 0 {
		h.CurWeight = 0
	}
	left := h.Contents[r] - amount
	if left <= 0 {
		delete(h.Contents, r)
	} else {
		h.Contents[r] = left
	}
	return true
}

func (h *Hold) IsFull() bool  { return h.CurWeight >= h.MaxWeight }
func (h *Hold) IsEmpty() bool { return len(h.Contents) == 0 }

// Free returns the remaining capacity in kg.
func (h *Hold) Free() float64 {
	if h.CurWeight >= h.MaxWeight {
		return 0
	}
	return h.MaxWeight - h.CurWeight
}

// Upgrade raises MaxWeight by the upgrade increment.
func (h *Hold) Upgrade() {
	h.Upgradeable.Upgrade()
	h.MaxWeight += h.Increment
}
