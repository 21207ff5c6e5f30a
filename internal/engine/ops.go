package engine

import (
	"context"
	"fmt"
	"log"

	"StarMiner/internal/catalog"
	"StarMiner/internal/player"
	"StarMiner/internal/recorder"
)

// Progress is the outcome of a check-progress command.
type Progress struct {
	Player      *player.Player
	Report      player.ProgressReport
	Resolutions []player.Resolution
	Now         int64
}

// Sale is the outcome of a sell command.
type Sale struct {
	Resource catalog.Resource
	Quantity float64
	Earned   float64
	Money    float64
}

// Purchase is the outcome of an upgrade or a shuttle purchase.
type Purchase struct {
	Item  string
	Level int
	Paid  float64
	Money float64
}

// View returns the player's current state, creating the player on first
// contact. The returned value is a private copy.
func (e *Engine) View(ctx context.Context, id int64, name string) (*player.Player, int64, error) {
	var out *player.Player
	var at int64
	err := e.withPlayer(ctx, id, name, func(p *player.Player, now int64) error {
		out, at = p, now
		return nil
	})
	return out, at, err
}

// CheckProgress resolves due expeditions and then runs the advancement pass.
func (e *Engine) CheckProgress(ctx context.Context, id int64, name string) (Progress, error) {
	var out Progress
	err := e.withPlayer(ctx, id, name, func(p *player.Player, now int64) error {
		out.Resolutions = p.CheckPendingActions(now, e.rng)
		out.Report = p.Advance(now)
		out.Player = p
		out.Now = now
		return nil
	})
	if err != nil {
		return Progress{}, err
	}
	e.recordResolutions(out.Player, out.Resolutions)
	return out, nil
}

// FindPlanet dispatches a shuttle on a planet search.
func (e *Engine) FindPlanet(ctx context.Context, id int64, name string) (*player.PendingAction, error) {
	var out *player.PendingAction
	err := e.withPlayer(ctx, id, name, func(p *player.Player, now int64) error {
		a, err := p.StartTimedAction(player.ActionPlanetSearch, now)
		if err != nil {
			return err
		}
		e.pending.Add(id)
		out = a
		return nil
	})
	return out, err
}

// Sell sells quantity kilograms of the named resource. all sells every whole
// kilogram held and ignores quantity.
func (e *Engine) Sell(ctx context.Context, id int64, name, resource string, quantity float64, all bool) (Sale, error) {
	r, err := catalog.ParseResource(resource)
	if err != nil {
		return Sale{}, fmt.Errorf("%w: %q", player.ErrUnknownResource, resource)
	}
	var out Sale
	err = e.withPlayer(ctx, id, name, func(p *player.Player, now int64) error {
		out.Resource = r
		if all {
			q, earned, err := p.SellAll(r)
			if err != nil {
				return err
			}
			out.Quantity, out.Earned = q, earned
		} else {
			earned, err := p.Sell(r, quantity)
			if err != nil {
				return err
			}
			out.Quantity, out.Earned = quantity, earned
		}
		out.Money = p.Money
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	e.record(func() error {
		return e.recorder.RecordSale(&recorder.SaleEvent{
			PlayerID: id, Resource: r.String(), Quantity: out.Quantity, Earned: out.Earned, MoneyAfter: out.Money,
		})
	})
	return out, nil
}

// Upgrade buys one level of the given capacity.
func (e *Engine) Upgrade(ctx context.Context, id int64, name string, kind player.UpgradeKind) (Purchase, error) {
	var out Purchase
	err := e.withPlayer(ctx, id, name, func(p *player.Player, now int64) error {
		target, ok := p.Target(kind)
		if !ok {
			return fmt.Errorf("upgrade %s: unknown target", kind)
		}
		paid, err := p.Upgrade(target)
		if err != nil {
			return err
		}
		out = Purchase{Item: kind.String(), Paid: paid, Money: p.Money}
		switch kind {
		case player.UpgradeCargo:
			out.Level = p.Cargo.Level
		case player.UpgradeDatabase:
			out.Level = p.Database.Level
		}
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	e.recordPurchase(id, out)
	return out, nil
}

// BuyShuttle adds a shuttle to the player's fleet.
func (e *Engine) BuyShuttle(ctx context.Context, id int64, name string) (Purchase, error) {
	var out Purchase
	err := e.withPlayer(ctx, id, name, func(p *player.Player, now int64) error {
		price := p.Rules().ShuttlePrice
		if _, err := p.BuyShuttle(); err != nil {
			return err
		}
		out = Purchase{Item: "shuttle", Level: p.Fleet.Len(), Paid: price, Money: p.Money}
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	e.recordPurchase(id, out)
	return out, nil
}

func (e *Engine) recordPurchase(id int64, pu Purchase) {
	e.record(func() error {
		return e.recorder.RecordPurchase(&recorder.PurchaseEvent{
			PlayerID: id, Item: pu.Item, Level: pu.Level, Paid: pu.Paid, MoneyAfter: pu.Money,
		})
	})
}

func (e *Engine) recordResolutions(p *player.Player, rs []player.Resolution) {
	for _, res := range rs {
		if res.Fault != nil {
			log.Printf("[ERROR] expedition fault: %v", res.Fault)
		}
		if res.Deposit != nil {
			d := res.Deposit
			e.record(func() error {
				return e.recorder.RecordDiscovery(&recorder.DiscoveryEvent{
					PlayerID: p.ID, Deposit: d.Name, Resource: d.Resource.String(), Amount: d.Remaining, Stored: res.Stored,
				})
			})
		}
		if res.LevelUp.Leveled {
			lvl := res.LevelUp.Level
			e.record(func() error {
				return e.recorder.RecordLevel(&recorder.LevelEvent{PlayerID: p.ID, Level: lvl, RequiredExp: p.RequiredExp})
			})
		}
	}
}

// record runs a history write. History is best effort; failures are logged.
func (e *Engine) record(fn func() error) {
	if err := fn(); err != nil {
		log.Printf("[WARN] record history: %v", err)
	}
}
