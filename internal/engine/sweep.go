package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"StarMiner/internal/notifier"
	"StarMiner/internal/player"
	"StarMiner/internal/store"
)

// Outcome is what one sweep resolved for one player.
type Outcome struct {
	Player      *player.Player
	Resolutions []player.Resolution
}

// Sweep resolves every due action of the players in the pending index and
// notifies them. Players left with nothing in flight leave the index.
func (e *Engine) Sweep(ctx context.Context) []Outcome {
	now := e.Now()
	var out []Outcome
	for _, id := range e.pending.Snapshot() {
		if ctx.Err() != nil {
			break
		}
		o, err := e.sweepPlayer(ctx, id, now)
		if err != nil {
			log.Printf("[ERROR] sweep player %d: %v", id, err)
			continue
		}
		if len(o.Resolutions) == 0 {
			continue
		}
		e.recordResolutions(o.Player, o.Resolutions)
		out = append(out, o)
	}
	// Every player is resolved and saved before any message goes out, so a
	// slow chat backend only delays notices.
	for _, o := range out {
		e.notifyResolutions(ctx, o)
	}
	return out
}

func (e *Engine) sweepPlayer(ctx context.Context, id, now int64) (Outcome, error) {
	mu := e.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	p, err := e.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		e.pending.Remove(id)
		return Outcome{}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("load: %w", err)
	}

	o := Outcome{Player: p, Resolutions: p.CheckPendingActions(now, e.rng)}
	if len(o.Resolutions) > 0 {
		if err := e.store.Save(ctx, p, now); err != nil {
			return Outcome{}, fmt.Errorf("save: %w", err)
		}
	}
	if !p.HasMorePendingActions() {
		e.pending.Remove(id)
	}
	return o, nil
}

func (e *Engine) notifyResolutions(ctx context.Context, o Outcome) {
	if e.notifier == nil {
		return
	}
	for _, res := range o.Resolutions {
		text := notifier.FormatResolution(res)
		if res.LevelUp.Leveled {
			text += "\n" + notifier.FormatLevelUp(o.Player)
		}
		if text == "" {
			continue
		}
		sendCtx, cancel := context.WithTimeout(ctx, e.notifyTimeout)
		err := e.notifier.Notify(sendCtx, o.Player.ID, text)
		cancel()
		if err != nil {
			log.Printf("[WARN] notify player %d: %v", o.Player.ID, err)
		}
	}
}
