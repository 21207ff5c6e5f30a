package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"StarMiner/internal/notifier"
	"StarMiner/internal/player"
)

// HandleCommand processes a chat command and returns the reply.
func (e *Engine) HandleCommand(ctx context.Context, msg notifier.Message) string {
	cmd := msg.Text
	if i := strings.IndexAny(cmd, " @"); i >= 0 {
		cmd = cmd[:i]
	}
	id, name := msg.UserID, msg.Username

	switch cmd {
	case "/start", "/help":
		return notifier.HelpText() + "\n" + e.Profile(ctx, id, name)
	case "/profile":
		return e.Profile(ctx, id, name)
	case "/find_planet":
		a, err := e.FindPlanet(ctx, id, name)
		if err != nil {
			return e.reject(id, cmd, err)
		}
		return notifier.FormatExpedition(a, a.StartedAt)
	case "/check_progress":
		pr, err := e.CheckProgress(ctx, id, name)
		if err != nil {
			return e.reject(id, cmd, err)
		}
		return formatProgress(pr)
	case "/show_cargo":
		return e.ShowCargo(ctx, id, name)
	case "/shop":
		return e.Shop(ctx, id, name)
	case "/celestial_database":
		return e.Database(ctx, id, name)
	case "/buy_shuttle":
		pu, err := e.BuyShuttle(ctx, id, name)
		if err != nil {
			return e.reject(id, cmd, err)
		}
		return notifier.FormatShuttlePurchase(pu.Level, pu.Paid, pu.Money)
	case "/upgrade_cargo":
		return e.upgrade(ctx, id, name, player.UpgradeCargo)
	case "/upgrade_celestial_database":
		return e.upgrade(ctx, id, name, player.UpgradeDatabase)
	case "/backup":
		return e.backup(ctx, id)
	case "/stop":
		return e.stopCommand(ctx, id)
	}

	if rest, ok := strings.CutPrefix(cmd, "/sell_"); ok {
		return e.sell(ctx, id, name, rest)
	}
	return notifier.HelpText()
}

// Profile renders the captain overview.
func (e *Engine) Profile(ctx context.Context, id int64, name string) string {
	p, now, err := e.View(ctx, id, name)
	if err != nil {
		return e.reject(id, "/profile", err)
	}
	return notifier.FormatProfile(p, now)
}

// ShowCargo renders the cargo bay.
func (e *Engine) ShowCargo(ctx context.Context, id int64, name string) string {
	p, _, err := e.View(ctx, id, name)
	if err != nil {
		return e.reject(id, "/show_cargo", err)
	}
	return notifier.FormatCargo(p)
}

// Shop renders the upgrade prices.
func (e *Engine) Shop(ctx context.Context, id int64, name string) string {
	p, _, err := e.View(ctx, id, name)
	if err != nil {
		return e.reject(id, "/shop", err)
	}
	return notifier.FormatShop(p)
}

// Database renders the celestial database.
func (e *Engine) Database(ctx context.Context, id int64, name string) string {
	p, now, err := e.View(ctx, id, name)
	if err != nil {
		return e.reject(id, "/celestial_database", err)
	}
	return notifier.FormatDatabase(p, now)
}

func (e *Engine) upgrade(ctx context.Context, id int64, name string, kind player.UpgradeKind) string {
	pu, err := e.Upgrade(ctx, id, name, kind)
	if err != nil {
		return e.reject(id, "/upgrade_"+kind.String(), err)
	}
	return notifier.FormatPurchase(displayName(kind), pu.Level, pu.Paid, pu.Money)
}

// sell handles /sell_<Resource>_<amount|all>.
func (e *Engine) sell(ctx context.Context, id int64, name, args string) string {
	resource, amount, ok := strings.Cut(args, "_")
	if !ok || resource == "" {
		return notifier.HelpText()
	}
	var (
		s   Sale
		err error
	)
	if strings.EqualFold(amount, "all") {
		s, err = e.Sell(ctx, id, name, resource, 0, true)
	} else {
		n, perr := strconv.Atoi(amount)
		if perr != nil {
			return notifier.FormatRejection(player.ErrInvalidQuantity)
		}
		s, err = e.Sell(ctx, id, name, resource, float64(n), false)
	}
	if err != nil {
		return e.reject(id, "/sell_"+args, err)
	}
	return notifier.FormatSale(s.Resource, s.Quantity, s.Earned, s.Money)
}

func (e *Engine) backup(ctx context.Context, id int64) string {
	if !e.isAdmin(id) {
		return notifier.HelpText()
	}
	n, err := e.Flush(ctx)
	if err != nil {
		log.Printf("[ERROR] manual backup by %d: %v", id, err)
		return fmt.Sprintf("❌ Backup failed: %v", err)
	}
	log.Printf("[INFO] manual backup by %d: %d players written", id, n)
	return fmt.Sprintf("💾 Backup complete: %d players written.", n)
}

// stopCommand saves every player and then asks the process to exit. The stop
// hook is not called when the save fails.
func (e *Engine) stopCommand(ctx context.Context, id int64) string {
	if !e.isAdmin(id) || e.stop == nil {
		return notifier.HelpText()
	}
	n, err := e.Flush(ctx)
	if err != nil {
		log.Printf("[ERROR] stop requested by %d, save failed: %v", id, err)
		return fmt.Sprintf("❌ Save failed, not stopping: %v", err)
	}
	log.Printf("[INFO] stop requested by %d after saving %d players", id, n)
	e.stop()
	return fmt.Sprintf("🛑 Saved %d players. Shutting down.", n)
}

// reject logs unexpected failures; expected refusals are only shown to the
// player.
func (e *Engine) reject(id int64, cmd string, err error) string {
	if !isRefusal(err) {
		log.Printf("[ERROR] %s for player %d: %v", cmd, id, err)
	}
	return notifier.FormatRejection(err)
}

func isRefusal(err error) bool {
	for _, target := range []error{
		player.ErrInsufficientFunds,
		player.ErrNotEnoughCargo,
		player.ErrInvalidQuantity,
		player.ErrUnknownResource,
		player.ErrNoIdleShuttle,
		player.ErrDatabaseFull,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func formatProgress(pr Progress) string {
	var b strings.Builder
	for _, res := range pr.Resolutions {
		b.WriteString(notifier.FormatResolution(res))
		if res.LevelUp.Leveled {
			b.WriteString(notifier.FormatLevelUp(pr.Player))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(notifier.FormatProgress(pr.Report, pr.Player))
	return b.String()
}

func displayName(kind player.UpgradeKind) string {
	switch kind {
	case player.UpgradeCargo:
		return "Cargo bay"
	case player.UpgradeDatabase:
		return "Celestial database"
	default:
		return kind.String()
	}
}
