package player

import "StarMiner/internal/economy"

// Rules holds the game balance shared by all players.
type Rules struct {
	StartMoney       float64
	StartRequiredExp int
	ExpMultiplier    float64 // growth of the next level requirement
	StartShuttles    int
	ShuttlePrice     float64

	ExtractionRate     float64 // kg per minute per deposit
	ResourcesPerLevel  float64 // deposit size ceiling per player level
	MinYieldFraction   float64 // deposit size floor as a fraction of the ceiling
	DiscoveryExpFactor float64 // experience per kg of a discovered deposit

	CargoMaxWeight float64
	CargoUpgrade   economy.Upgradeable

	DatabaseCapacity int
	DatabaseUpgrade  economy.Upgradeable
}

// DefaultRules returns the stock balance.
func DefaultRules() *Rules {
	return &Rules{
		StartMoney:       1000,
		StartRequiredExp: 50,
		ExpMultiplier:    1.195,
		StartShuttles:    1,
		ShuttlePrice:     250,

		ExtractionRate:     0.075,
		ResourcesPerLevel:  25,
		MinYieldFraction:   0.15,
		DiscoveryExpFactor: 0.2,

		CargoMaxWeight: 25,
		CargoUpgrade:   economy.New(25, 0.20, 15),

		DatabaseCapacity: 3,
		DatabaseUpgrade:  economy.New(1, 0.5, 50),
	}
}
