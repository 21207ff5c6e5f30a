package economy

// Upgradeable is the shared cost-growth model for capacity upgrades.
//
// Each upgrade compounds the cost by Multiplier; neither level nor cost is
// capped. Types embedding it apply Increment to their own capacity.
type Upgradeable struct {
	Level      int     `json:"upgrade_level"`
	Increment  float64 `json:"upgrade_increment"`
	Multiplier float64 `json:"upgrade_multiplier"`
	Cost       float64 `json:"upgrade_cost"`
}

// New returns an Upgradeable at level 1.
func New(increment, multiplier, initialCost float64) Upgradeable {
	return Upgradeable{
		Level:      1,
		Increment:  increment,
		Multiplier: multiplier,
		Cost:       initialCost,
	}
}

// Upgrade advances the level and grows the cost.
func (u *Upgradeable) Upgrade() {
	u.Level++
	u.Cost += u.Cost * u.Multiplier
}

// UpgradeCost returns the price of the next upgrade.
func (u *Upgradeable) UpgradeCost() float64 { return u.Cost }

// Target is anything a player can pay to upgrade.
type Target interface {
	UpgradeCost() float64
	Upgrade()
}
