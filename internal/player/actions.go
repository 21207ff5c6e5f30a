package player

import (
	"fmt"

	"StarMiner/internal/catalog"
	"StarMiner/internal/deposit"

	"github.com/google/uuid"
)

// ActionKind is a timed game action.
type ActionKind uint8

const (
	ActionPlanetSearch ActionKind = iota
)

var actionNames = map[ActionKind]string{
	ActionPlanetSearch: "planet_search",
}

// actionDurations is how long each kind takes, in seconds.
var actionDurations = map[ActionKind]int64{
	ActionPlanetSearch: 60,
}

func (k ActionKind) String() string {
	if n, ok := actionNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

// Duration returns the time k takes in seconds.
func (k ActionKind) Duration() int64 { return actionDurations[k] }

func (k ActionKind) MarshalText() ([]byte, error) {
	n, ok := actionNames[k]
	if !ok {
		return nil, fmt.Errorf("marshal action: invalid value %d", uint8(k))
	}
	return []byte(n), nil
}

func (k *ActionKind) UnmarshalText(b []byte) error {
	for kind, n := range actionNames {
		if n == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", string(b))
}

// PendingAction is an in-flight timed action.
//
// Only committed actions are ever stored on a player; an action that fails its
// commit precondition is discarded before it is queued.
type PendingAction struct {
	ID        string     `json:"id"`
	PlayerID  int64      `json:"player_id"`
	Kind      ActionKind `json:"kind"`
	StartedAt int64      `json:"started_at"`
	Duration  int64      `json:"duration"`
	Committed bool       `json:"committed"`
	ShuttleID string     `json:"shuttle_id,omitempty"` // shuttle dispatched on commit
}

// Due reports whether the action's duration has elapsed at now.
func (a *PendingAction) Due(now int64) bool {
	return now-a.StartedAt >= a.Duration
}

// ReadyAt returns the unix second at which the action resolves.
func (a *PendingAction) ReadyAt() int64 { return a.StartedAt + a.Duration }

// StartTimedAction requests kind at now and tries to commit it.
//
// On success the action is queued and returned; the caller must register the
// player with the pending-work index. On failure nothing changes and the
// returned error names the reason.
func (p *Player) StartTimedAction(kind ActionKind, now int64) (*PendingAction, error) {
	if _, ok := actionDurations[kind]; !ok {
		return nil, ErrUnknownAction
	}
	a := &PendingAction{
		ID:        uuid.NewString(),
		PlayerID:  p.ID,
		Kind:      kind,
		StartedAt: now,
		Duration:  kind.Duration(),
	}
	if err := p.commit(a); err != nil {
		return nil, err
	}
	p.Pending = append(p.Pending, a)
	return a, nil
}

func (p *Player) commit(a *PendingAction) error {
	switch a.Kind {
	case ActionPlanetSearch:
		if p.Fleet.Idle() == nil {
			return ErrNoIdleShuttle
		}
		// In-flight searches hold a slot each so every return has room.
		if p.Database.Len()+p.inFlight(ActionPlanetSearch) >= p.Database.Capacity {
			return ErrDatabaseFull
		}
		a.ShuttleID = p.Fleet.Dispatch(a.StartedAt).ID
	default:
		return ErrUnknownAction
	}
	a.Committed = true
	return nil
}

func (p *Player) inFlight(kind ActionKind) int {
	n := 0
	for _, a := range p.Pending {
		if a.Committed && a.Kind == kind {
			n++
		}
	}
	return n
}

// HasMorePendingActions reports whether anything is still in flight.
func (p *Player) HasMorePendingActions() bool { return len(p.Pending) > 0 }

// NextReadyAt returns the earliest resolution time of the queued actions.
func (p *Player) NextReadyAt() (int64, bool) {
	var next int64
	found := false
	for _, a := range p.Pending {
		if !found || a.ReadyAt() < next {
			next = a.ReadyAt()
			found = true
		}
	}
	return next, found
}

// Resolution is the outcome of one completed action.
type Resolution struct {
	Action  PendingAction
	Deposit *deposit.Deposit
	Stored  bool // false if the database had no room for Deposit
	LevelUp LevelUp
	Fault   error // internal consistency fault, operator-facing only
}

// CheckPendingActions resolves every committed action that is due at now.
// Actions not yet due stay queued.
func (p *Player) CheckPendingActions(now int64, rng catalog.Rand) []Resolution {
	var out []Resolution
	kept := make([]*PendingAction, 0, len(p.Pending))
	for _, a := range p.Pending {
		if !a.Committed {
			continue
		}
		if !a.Due(now) {
			kept = append(kept, a)
			continue
		}
		out = append(out, p.complete(a, now, rng))
	}
	p.Pending = kept
	return out
}

func (p *Player) complete(a *PendingAction, now int64, rng catalog.Rand) Resolution {
	res := Resolution{Action: *a}
	switch a.Kind {
	case ActionPlanetSearch:
		d := p.discoverDeposit(now, rng)
		res.Deposit = d
		res.Stored = p.Database.Add(d)
		if !p.Fleet.ReturnDeparted(a.StartedAt) {
			res.Fault = fmt.Errorf("player %d action %s shuttle %s departed at %d: %w",
				p.ID, a.ID, a.ShuttleID, a.StartedAt, ErrShuttleMissing)
		}
		res.LevelUp = p.AddExperience(int(d.Remaining * p.Rules().DiscoveryExpFactor))
	}
	return res
}

// discoverDeposit rolls a new deposit sized by the player's level.
func (p *Player) discoverDeposit(now int64, rng catalog.Rand) *deposit.Deposit {
	r := p.Rules()
	kind := catalog.RollResource(rng)
	ceiling := float64(p.Level) * r.ResourcesPerLevel
	floor := ceiling * r.MinYieldFraction
	amount := floor + rng.Float64()*(ceiling-floor)
	return deposit.New(deposit.RandomName(rng), kind, amount, now)
}
