package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"StarMiner/internal/catalog"
	"StarMiner/internal/clock"
	"StarMiner/internal/player"
	"StarMiner/internal/recorder"
	"StarMiner/internal/store"
)

// Notifier delivers a message to a player's chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Store persists players between interactions.
type Store interface {
	Load(ctx context.Context, id int64) (*player.Player, error)
	Save(ctx context.Context, p *player.Player, now int64) error
	IDs() []int64
	Flush(ctx context.Context) (int, error)
}

// Engine owns all mutable game state of the process: the player store, the
// pending-work index and one lock per player.
//
// Every operation on a player runs load, mutate and save under that player's
// lock. Different players never contend.
type Engine struct {
	store    Store
	pending  *PendingIndex
	clock    clock.Clock
	rng      catalog.Rand
	recorder recorder.Recorder
	notifier Notifier
	rules    *player.Rules
	isAdmin  func(id int64) bool
	stop     func()

	notifyTimeout time.Duration

	locks sync.Map // int64 -> *sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

func WithClock(c clock.Clock) Option          { return func(e *Engine) { e.clock = c } }
func WithRand(r catalog.Rand) Option          { return func(e *Engine) { e.rng = r } }
func WithRecorder(r recorder.Recorder) Option { return func(e *Engine) { e.recorder = r } }
func WithNotifier(n Notifier) Option          { return func(e *Engine) { e.notifier = n } }

// WithNotifyTimeout bounds each sweep notification.
func WithNotifyTimeout(d time.Duration) Option {
	return func(e *Engine) { e.notifyTimeout = d }
}

// WithStop sets the hook the operator /stop command calls after saving.
func WithStop(stop func()) Option {
	return func(e *Engine) { e.stop = stop }
}

// WithAdmins sets the check for operator commands.
func WithAdmins(isAdmin func(id int64) bool) Option {
	return func(e *Engine) { e.isAdmin = isAdmin }
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// New creates an Engine with an empty pending index.
func New(st Store, rules *player.Rules, opts ...Option) *Engine {
	if rules == nil {
		rules = player.DefaultRules()
	}
	e := &Engine{
		store:    st,
		pending:  NewPendingIndex(),
		clock:    clock.Real{},
		rng:      globalRand{},
		recorder: recorder.NewNoopRecorder(),
		rules:    rules,
		isAdmin:  func(int64) bool { return false },

		notifyTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pending exposes the pending-work index.
func (e *Engine) Pending() *PendingIndex { return e.pending }

// Now returns the engine clock in unix seconds.
func (e *Engine) Now() int64 { return clock.Unix(e.clock) }

func (e *Engine) lockFor(id int64) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// withPlayer runs fn on the player with id, creating it on first contact, and
// saves the result. Rejected commands leave p untouched, so it is saved either
// way.
func (e *Engine) withPlayer(ctx context.Context, id int64, name string, fn func(p *player.Player, now int64) error) error {
	mu := e.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	now := e.Now()
	p, err := e.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		p = player.New(id, name, now, e.rules)
		log.Printf("[INFO] new player %d (%s)", id, name)
	} else if err != nil {
		return fmt.Errorf("load player %d: %w", id, err)
	}

	opErr := fn(p, now)
	if err := e.store.Save(ctx, p, now); err != nil {
		return fmt.Errorf("save player %d: %w", id, err)
	}
	return opErr
}

// RestorePending rebuilds the pending index from the store. Call it once at
// start-up before the sweep runs.
func (e *Engine) RestorePending(ctx context.Context) (int, error) {
	n := 0
	for _, id := range e.store.IDs() {
		p, err := e.store.Load(ctx, id)
		if err != nil {
			return n, fmt.Errorf("load player %d: %w", id, err)
		}
		if p.HasMorePendingActions() {
			e.pending.Add(id)
			n++
		}
	}
	return n, nil
}

// Flush writes changed players to durable storage.
func (e *Engine) Flush(ctx context.Context) (int, error) {
	return e.store.Flush(ctx)
}

// Shutdown flushes state and closes the store and the recorder.
func (e *Engine) Shutdown(ctx context.Context) error {
	var errs []error
	if c, ok := e.store.(interface{ Close(context.Context) error }); ok {
		if err := c.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	} else if _, err := e.store.Flush(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := e.recorder.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
