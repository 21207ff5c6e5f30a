package player

import (
	"fmt"
	"math"

	"StarMiner/internal/cargo"
	"StarMiner/internal/catalog"
	"StarMiner/internal/deposit"
	"StarMiner/internal/economy"
	"StarMiner/internal/fleet"
)

// Player is the root aggregate of one captain's progression state.
type Player struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Money       float64 `json:"money"`
	Level       int     `json:"level"`
	Exp         int     `json:"exp"`
	RequiredExp int     `json:"required_exp"`

	Cargo    *cargo.Hold       `json:"cargo"`
	Database *deposit.Registry `json:"database"`
	Fleet    *fleet.Fleet      `json:"fleet"`
	Pending  []*PendingAction  `json:"pending"`

	LastCheck int64 `json:"last_check"`
	CreatedAt int64 `json:"created_at"`

	rules *Rules
}

// New creates a player with starting balances.
func New(id int64, name string, now int64, rules *Rules) *Player {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Player{
		ID:          id,
		Name:        name,
		Money:       rules.StartMoney,
		Level:       1,
		RequiredExp: rules.StartRequiredExp,
		Cargo:       cargo.New(rules.CargoMaxWeight, rules.CargoUpgrade),
		Database:    deposit.NewRegistry(rules.DatabaseCapacity, rules.DatabaseUpgrade),
		Fleet:       fleet.New(rules.StartShuttles),
		LastCheck:   now,
		CreatedAt:   now,
		rules:       rules,
	}
}

// UseRules sets the balance used by p. Loaded players have none until set.
func (p *Player) UseRules(r *Rules) { p.rules = r }

// Rules returns the balance in effect for p.
func (p *Player) Rules() *Rules {
	if p.rules == nil {
		p.rules = DefaultRules()
	}
	return p.rules
}

// PayMoney deducts amount. It does nothing and returns false if the balance
// would go negative.
func (p *Player) PayMoney(amount float64) bool {
	if amount < 0 || p.Money < amount {
		return false
	}
	p.Money -= amount
	return true
}

// Sell removes quantity of r from the cargo bay and credits its value.
func (p *Player) Sell(r catalog.Resource, quantity float64) (earned float64, err error) {
	if !r.Valid() {
		return 0, ErrUnknownResource
	}
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	if !p.Cargo.Remove(r, quantity) {
		return 0, fmt.Errorf("sell %.0f kg of %s: %w", quantity, r, ErrNotEnoughCargo)
	}
	earned = quantity * r.Price()
	p.Money += earned
	return earned, nil
}

// SellAll sells every whole kilogram of r held.
func (p *Player) SellAll(r catalog.Resource) (quantity, earned float64, err error) {
	quantity = math.Floor(p.Cargo.Quantity(r))
	earned, err = p.Sell(r, quantity)
	if err != nil {
		return 0, 0, err
	}
	return quantity, earned, nil
}

// UpgradeKind names an upgradable capacity of the player.
type UpgradeKind uint8

const (
	UpgradeCargo UpgradeKind = iota
	UpgradeDatabase
)

func (k UpgradeKind) String() string {
	switch k {
	case UpgradeCargo:
		return "cargo"
	case UpgradeDatabase:
		return "celestial_database"
	default:
		return fmt.Sprintf("UpgradeKind(%d)", uint8(k))
	}
}

// Target returns the capacity governed by k.
func (p *Player) Target(k UpgradeKind) (economy.Target, bool) {
	switch k {
	case UpgradeCargo:
		return p.Cargo, true
	case UpgradeDatabase:
		return p.Database, true
	default:
		return nil, false
	}
}

// Upgrade pays for and applies one upgrade of target. It returns the price paid.
func (p *Player) Upgrade(target economy.Target) (float64, error) {
	cost := target.UpgradeCost()
	if p.Money < cost {
		return 0, fmt.Errorf("upgrade costs %.2f, have %.2f: %w", cost, p.Money, ErrInsufficientFunds)
	}
	p.PayMoney(cost)
	target.Upgrade()
	return cost, nil
}

// BuyShuttle adds a shuttle to the fleet at the configured price.
func (p *Player) BuyShuttle() (*fleet.Shuttle, error) {
	price := p.Rules().ShuttlePrice
	if !p.PayMoney(price) {
		return nil, fmt.Errorf("shuttle costs %.2f, have %.2f: %w", price, p.Money, ErrInsufficientFunds)
	}
	return p.Fleet.Add(), nil
}

// LevelUp describes the outcome of an experience award.
type LevelUp struct {
	Gained  int
	Leveled bool
	Level   int
}

// AddExperience awards amount experience. Awards below 1 are ignored.
//
// At most one level is gained per call; experience beyond the threshold is
// dropped with the reset.
func (p *Player) AddExperience(amount int) LevelUp {
	if amount < 1 {
		return LevelUp{Level: p.Level}
	}
	p.Exp += amount
	lu := LevelUp{Gained: amount, Level: p.Level}
	if p.Exp >= p.RequiredExp {
		p.levelUp()
		lu.Leveled = true
		lu.Level = p.Level
	}
	return lu
}

func (p *Player) levelUp() {
	p.Exp = 0
	p.RequiredExp += int(float64(p.RequiredExp) * p.Rules().ExpMultiplier)
	p.Level++
}

// ExpPercent returns progress toward the next level in [0,100].
func (p *Player) ExpPercent() float64 {
	if p.RequiredExp <= 0 {
		return 0
	}
	return float64(p.Exp) / float64(p.RequiredExp) * 100
}
