package notifier

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"

	"StarMiner/internal/catalog"
	"StarMiner/internal/player"
)

// FormatDuration renders seconds as H:MM:SS.
func FormatDuration(sec int64) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", sec/3600, sec%3600/60, sec%60)
}

// HelpText lists the available commands.
func HelpText() string {
	var b strings.Builder
	b.WriteString("🛰 <b>StarMiner commands</b>\n\n")
	b.WriteString("/profile - captain overview\n")
	b.WriteString("/find_planet - send a shuttle to search for a planet\n")
	b.WriteString("/check_progress - collect mined resources\n")
	b.WriteString("/show_cargo - cargo bay contents\n")
	b.WriteString("/celestial_database - known planets\n")
	b.WriteString("/shop - upgrades and shuttles\n")
	b.WriteString("/sell_&lt;Resource&gt;_&lt;amount|all&gt; - e.g. /sell_Iron_all\n")
	return b.String()
}

// FormatProfile formats the captain overview.
func FormatProfile(p *player.Player, now int64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧑‍🚀 <b>Captain %s</b>\n\n", html.EscapeString(p.Name)))
	b.WriteString(fmt.Sprintf("Level: %d (%d/%d exp, %.1f%%)\n", p.Level, p.Exp, p.RequiredExp, p.ExpPercent()))
	b.WriteString(fmt.Sprintf("Credits: %.2f\n", p.Money))
	idle, busy := p.Fleet.Counts()
	b.WriteString(fmt.Sprintf("Shuttles: %d idle / %d away\n", idle, busy))
	b.WriteString(fmt.Sprintf("Cargo: %.2f/%.2f kg\n", p.Cargo.CurWeight, p.Cargo.MaxWeight))
	b.WriteString(fmt.Sprintf("Celestial database: %d/%d planets\n", p.Database.Len(), p.Database.Capacity))
	if next, ok := p.NextReadyAt(); ok {
		b.WriteString(fmt.Sprintf("Expeditions in flight: %d (next back in %s)\n", len(p.Pending), FormatDuration(next-now)))
	}
	return b.String()
}

// FormatProgress formats the result of an advancement pass.
func FormatProgress(rep player.ProgressReport, p *player.Player) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⛏ <b>Mining report</b> | %s since last check\n\n", FormatDuration(rep.Elapsed)))
	if rep.Deposits == 0 {
		b.WriteString("No planets in your celestial database yet.\nSend a shuttle with /find_planet.\n")
		return b.String()
	}
	for _, r := range catalog.All() {
		got, ok := rep.Extracted[r]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s: +%.2f kg (%.2f kg left)\n", r, got, rep.Remaining[r]))
	}
	b.WriteString(fmt.Sprintf("Total: %.2f kg\n", rep.TotalExtracted()))
	b.WriteString(fmt.Sprintf("Cargo: %.2f/%.2f kg\n", p.Cargo.CurWeight, p.Cargo.MaxWeight))
	for _, d := range rep.Depleted {
		b.WriteString(fmt.Sprintf("\n💥 Planet %s is exhausted of %s", d.Name, d.Resource))
	}
	if len(rep.Depleted) > 0 {
		b.WriteString("\n")
	}
	if rep.CargoFull {
		b.WriteString("\n⚠️ Cargo bay is full. Sell with /sell_&lt;Resource&gt;_all or upgrade in /shop.\n")
	}
	return b.String()
}

// FormatCargo lists the cargo bay contents with their sale value.
func FormatCargo(p *player.Player) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>Cargo bay</b> | %.2f/%.2f kg\n\n", p.Cargo.CurWeight, p.Cargo.MaxWeight))
	if p.Cargo.IsEmpty() {
		b.WriteString("Empty.\n")
		return b.String()
	}
	total := 0.0
	for _, r := range catalog.All() {
		q := p.Cargo.Quantity(r)
		if q <= 0 {
			continue
		}
		value := q * r.Price()
		total += value
		b.WriteString(fmt.Sprintf("  %s (%s): %.2f kg ≈ %.2f cr  /sell_%s_all\n", r, r.Category(), q, value, r))
	}
	b.WriteString(fmt.Sprintf("\nEstimated value: %.2f cr\n", total))
	return b.String()
}

// FormatShop lists what can be bought and its price.
func FormatShop(p *player.Player) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🛒 <b>Shop</b> | credits: %.2f\n\n", p.Money))
	b.WriteString(fmt.Sprintf("Cargo bay lvl %d → %d (+%.0f kg): %.2f cr  /upgrade_cargo\n",
		p.Cargo.Level, p.Cargo.Level+1, p.Cargo.Increment, p.Cargo.UpgradeCost()))
	b.WriteString(fmt.Sprintf("Celestial database lvl %d → %d (+%.0f slot): %.2f cr  /upgrade_celestial_database\n",
		p.Database.Level, p.Database.Level+1, p.Database.Increment, p.Database.UpgradeCost()))
	b.WriteString(fmt.Sprintf("Shuttle #%d: %.2f cr  /buy_shuttle\n", p.Fleet.Len()+1, p.Rules().ShuttlePrice))
	return b.String()
}

// FormatDatabase lists known planets and projected yields.
func FormatDatabase(p *player.Player, now int64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔭 <b>Celestial database</b> | %d/%d planets\n\n", p.Database.Len(), p.Database.Capacity))
	if p.Database.Len() == 0 {
		b.WriteString("No planets discovered yet. Try /find_planet.\n")
	}
	for _, d := range p.Database.Deposits {
		b.WriteString(fmt.Sprintf("  🪐 %s: %s, %.2f kg left\n", d.Name, d.Resource, d.Remaining))
	}
	yields := p.YieldPerMinute()
	if len(yields) > 0 {
		kinds := make([]catalog.Resource, 0, len(yields))
		for r := range yields {
			kinds = append(kinds, r)
		}
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
		b.WriteString("\nYield per minute:\n")
		for _, r := range kinds {
			b.WriteString(fmt.Sprintf("  %s: %.3f kg\n", r, yields[r]))
		}
	}
	if next, ok := p.NextReadyAt(); ok {
		b.WriteString(fmt.Sprintf("\n🚀 %d search(es) in flight, next back in %s\n", len(p.Pending), FormatDuration(next-now)))
	}
	return b.String()
}

// FormatExpedition confirms a committed planet search.
func FormatExpedition(a *player.PendingAction, now int64) string {
	return fmt.Sprintf("🚀 Shuttle launched! It returns in %s.", FormatDuration(a.ReadyAt()-now))
}

// FormatResolution reports a completed planet search.
func FormatResolution(res player.Resolution) string {
	var b strings.Builder
	d := res.Deposit
	if d == nil {
		return ""
	}
	b.WriteString(fmt.Sprintf("🪐 <b>Shuttle returned!</b>\nDiscovered planet %s with %.2f kg of %s.\n", d.Name, d.Remaining, d.Resource))
	if !res.Stored {
		b.WriteString("Your celestial database had no room, so the planet was not recorded.\n")
	}
	if res.LevelUp.Gained > 0 {
		b.WriteString(fmt.Sprintf("+%d exp\n", res.LevelUp.Gained))
	}
	return b.String()
}

// FormatLevelUp announces a new level.
func FormatLevelUp(p *player.Player) string {
	return fmt.Sprintf("⭐ <b>Level up!</b> You are now level %d. Next level at %d exp.", p.Level, p.RequiredExp)
}

// FormatSale confirms a sale.
func FormatSale(r catalog.Resource, quantity, earned, money float64) string {
	return fmt.Sprintf("💰 Sold %.0f kg of %s for %.2f cr. Balance: %.2f cr.", quantity, r, earned, money)
}

// FormatPurchase confirms an upgrade or shuttle purchase.
func FormatPurchase(item string, level int, paid, money float64) string {
	return fmt.Sprintf("✅ %s upgraded to level %d for %.2f cr. Balance: %.2f cr.", item, level, paid, money)
}

// FormatShuttlePurchase confirms a new shuttle.
func FormatShuttlePurchase(fleetSize int, paid, money float64) string {
	return fmt.Sprintf("✅ Shuttle bought for %.2f cr. Fleet: %d. Balance: %.2f cr.", paid, fleetSize, money)
}

// FormatStarted is the start-up notice sent to operators.
func FormatStarted(players, inFlight int) string {
	return fmt.Sprintf("🟢 <b>StarMiner started</b>\nPlayers: %d | expeditions in flight: %d", players, inFlight)
}

// FormatRejection turns a refused command into a reply.
func FormatRejection(err error) string {
	switch {
	case errors.Is(err, player.ErrInsufficientFunds):
		return "❌ Not enough credits."
	case errors.Is(err, player.ErrNotEnoughCargo):
		return "❌ You don't have that much in your cargo bay."
	case errors.Is(err, player.ErrInvalidQuantity):
		return "❌ Amount must be a whole number of at least 1, or all."
	case errors.Is(err, player.ErrUnknownResource):
		return "❌ Unknown resource."
	case errors.Is(err, player.ErrNoIdleShuttle):
		return "❌ All shuttles are away. Wait for one to return or /buy_shuttle."
	case errors.Is(err, player.ErrDatabaseFull):
		return "❌ Celestial database is full. Upgrade it in /shop."
	default:
		return "⚠️ Something went wrong, please try again later."
	}
}
