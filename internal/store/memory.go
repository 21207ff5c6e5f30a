package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"StarMiner/internal/player"
)

// ErrNotFound is returned by Load for a player that was never saved.
var ErrNotFound = errors.New("player not found")

// Record is the persisted form of one player.
type Record struct {
	ID        int64
	Name      string
	Data      []byte // JSON-encoded player.Player
	UpdatedAt int64
}

// Backend durably persists records between process runs.
type Backend interface {
	LoadAll(ctx context.Context) ([]Record, error)
	// Persist writes changed records. all holds every known record for
	// backends that rewrite their whole file.
	Persist(ctx context.Context, changed, all []Record) error
	Close() error
}

// Memory is the process-wide player store. Players live in memory as encoded
// records and reach the backend on Flush.
//
// Load hands out a fresh decoded copy each time; callers serialize access to
// one player themselves and Save the copy back.
type Memory struct {
	flushMu sync.Mutex // one flush at a time, so backend writes land in order
	mu      sync.RWMutex
	records map[int64]Record
	dirty   map[int64]bool
	backend Backend
	rules   *player.Rules
}

// NewMemory creates the store and loads every record from backend.
func NewMemory(ctx context.Context, backend Backend, rules *player.Rules) (*Memory, error) {
	m := &Memory{
		records: make(map[int64]Record),
		dirty:   make(map[int64]bool),
		backend: backend,
		rules:   rules,
	}
	if backend == nil {
		return m, nil
	}
	recs, err := backend.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	for _, r := range recs {
		m.records[r.ID] = r
	}
	log.Printf("[INFO] loaded %d players", len(recs))
	return m, nil
}

// Load returns the player with id or ErrNotFound.
func (m *Memory) Load(_ context.Context, id int64) (*player.Player, error) {
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	p, err := Decode(rec.Data)
	if err != nil {
		return nil, fmt.Errorf("decode player %d: %w", id, err)
	}
	p.UseRules(m.rules)
	return p, nil
}

// Save stores p and marks it for the next flush.
func (m *Memory) Save(_ context.Context, p *player.Player, now int64) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode player %d: %w", p.ID, err)
	}
	m.mu.Lock()
	m.records[p.ID] = Record{ID: p.ID, Name: p.Name, Data: data, UpdatedAt: now}
	m.dirty[p.ID] = true
	m.mu.Unlock()
	return nil
}

// IDs lists every stored player id in ascending order.
func (m *Memory) IDs() []int64 {
	m.mu.RLock()
	ids := make([]int64, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of stored players.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Flush writes changed players to the backend. It returns how many were
// written; nothing is written when no player changed since the last flush.
func (m *Memory) Flush(ctx context.Context) (int, error) {
	if m.backend == nil {
		return 0, nil
	}
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	m.mu.Lock()
	if len(m.dirty) == 0 {
		m.mu.Unlock()
		return 0, nil
	}
	changed := make([]Record, 0, len(m.dirty))
	for id := range m.dirty {
		changed = append(changed, m.records[id])
	}
	all := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		all = append(all, r)
	}
	pending := m.dirty
	m.dirty = make(map[int64]bool)
	m.mu.Unlock()

	if err := m.backend.Persist(ctx, changed, all); err != nil {
		// Keep the records marked so the next flush retries them.
		m.mu.Lock()
		for id := range pending {
			m.dirty[id] = true
		}
		m.mu.Unlock()
		return 0, err
	}
	return len(changed), nil
}

// Close flushes and closes the backend.
func (m *Memory) Close(ctx context.Context) error {
	if _, err := m.Flush(ctx); err != nil {
		return fmt.Errorf("final flush: %w", err)
	}
	if m.backend == nil {
		return nil
	}
	return m.backend.Close()
}

// Decode parses a persisted player.
func Decode(data []byte) (*player.Player, error) {
	var p player.Player
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.Cargo == nil || p.Database == nil || p.Fleet == nil {
		return nil, errors.New("incomplete player record")
	}
	return &p, nil
}
