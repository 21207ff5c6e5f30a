package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"StarMiner/internal/catalog"
	"StarMiner/internal/deposit"
	"StarMiner/internal/player"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const t0 int64 = 1_700_000_000

func samplePlayer(id int64) *player.Player {
	p := player.New(id, "cap", t0, player.DefaultRules())
	p.Cargo.Insert(catalog.Iron, 12.5)
	p.Database.Add(deposit.New("AB-CDEF", catalog.Oil, 42, t0))
	p.StartTimedAction(player.ActionPlanetSearch, t0)
	p.Money = 777
	return p
}

type fakeBackend struct {
	loaded    []Record
	persisted [][]Record
	all       [][]Record
	err       error
	closed    bool
}

func (f *fakeBackend) LoadAll(context.Context) ([]Record, error) { return f.loaded, nil }

func (f *fakeBackend) Persist(_ context.Context, changed, all []Record) error {
	if f.err != nil {
		return f.err
	}
	f.persisted = append(f.persisted, changed)
	f.all = append(f.all, all)
	return nil
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func TestMemory_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	rules := player.DefaultRules()
	m, err := NewMemory(ctx, nil, rules)
	require.NoError(t, err)

	_, err = m.Load(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	p := samplePlayer(1)
	require.NoError(t, m.Save(ctx, p, t0))

	got, err := m.Load(ctx, 1)
	require.NoError(t, err)
	assert.NotSame(t, p, got)
	assert.Equal(t, 777.0, got.Money)
	assert.Equal(t, 12.5, got.Cargo.Quantity(catalog.Iron))
	require.Len(t, got.Database.Deposits, 1)
	assert.Equal(t, catalog.Oil, got.Database.Deposits[0].Resource)
	require.Len(t, got.Pending, 1)
	assert.Equal(t, player.ActionPlanetSearch, got.Pending[0].Kind)
	assert.True(t, got.Fleet.Shuttles[0].Busy)
	assert.Same(t, rules, got.Rules())
}

func TestMemory_FlushOnlyWhenChanged(t *testing.T) {
	ctx := context.Background()
	fb := &fakeBackend{}
	m, err := NewMemory(ctx, fb, nil)
	require.NoError(t, err)

	n, err := m.Flush(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, m.Save(ctx, samplePlayer(1), t0))
	require.NoError(t, m.Save(ctx, samplePlayer(2), t0))
	n, err = m.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, m.Save(ctx, samplePlayer(2), t0+1))
	n, err = m.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, fb.persisted, 2)
	assert.Equal(t, int64(2), fb.persisted[1][0].ID)
	assert.Len(t, fb.all[1], 2)
}

func TestMemory_FlushFailureRetries(t *testing.T) {
	ctx := context.Background()
	fb := &fakeBackend{err: errors.New("disk full")}
	m, _ := NewMemory(ctx, fb, nil)
	require.NoError(t, m.Save(ctx, samplePlayer(1), t0))

	_, err := m.Flush(ctx)
	assert.Error(t, err)

	fb.err = nil
	n, err := m.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, m.Close(ctx))
	assert.True(t, fb.closed)
}

// gatedBackend holds its first Persist call until release is closed.
type gatedBackend struct {
	mu      sync.Mutex
	calls   int
	durable map[int64]Record
	entered chan struct{}
	release chan struct{}
}

func (g *gatedBackend) LoadAll(context.Context) ([]Record, error) { return nil, nil }

func (g *gatedBackend) Persist(_ context.Context, changed, _ []Record) error {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.entered)
		<-g.release
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range changed {
		g.durable[r.ID] = r
	}
	return nil
}

func (g *gatedBackend) Close() error { return nil }

func TestMemory_ConcurrentFlushesKeepNewestState(t *testing.T) {
	ctx := context.Background()
	gb := &gatedBackend{
		durable: make(map[int64]Record),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	m, err := NewMemory(ctx, gb, nil)
	require.NoError(t, err)

	p := samplePlayer(1)
	p.Money = 1
	require.NoError(t, m.Save(ctx, p, t0))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := m.Flush(ctx)
		assert.NoError(t, err)
	}()
	<-gb.entered

	p.Money = 2
	require.NoError(t, m.Save(ctx, p, t0+1))
	go func() {
		defer wg.Done()
		_, err := m.Flush(ctx)
		assert.NoError(t, err)
	}()

	// Give the second flush a chance to overtake the held one.
	time.Sleep(50 * time.Millisecond)
	close(gb.release)
	wg.Wait()

	got, err := Decode(gb.durable[1].Data)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Money)

	n, err := m.Flush(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemory_LoadsFromBackend(t *testing.T) {
	ctx := context.Background()
	m0, _ := NewMemory(ctx, nil, nil)
	require.NoError(t, m0.Save(ctx, samplePlayer(9), t0))
	rec := m0.records[9]

	m, err := NewMemory(ctx, &fakeBackend{loaded: []Record{rec}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, m.IDs())
	assert.Equal(t, 1, m.Len())
}

func TestDecode_RejectsIncomplete(t *testing.T) {
	_, err := Decode([]byte(`{"id":1}`))
	assert.Error(t, err)
	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func testBackendRoundTrip(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()
	m, err := NewMemory(ctx, b, nil)
	require.NoError(t, err)
	require.NoError(t, m.Save(ctx, samplePlayer(1), t0))
	require.NoError(t, m.Save(ctx, samplePlayer(2), t0))
	_, err = m.Flush(ctx)
	require.NoError(t, err)

	p := samplePlayer(2)
	p.Money = 5
	require.NoError(t, m.Save(ctx, p, t0+10))
	_, err = m.Flush(ctx)
	require.NoError(t, err)

	recs, err := b.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	reloaded, err := NewMemory(ctx, b, nil)
	require.NoError(t, err)
	got, err := reloaded.Load(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Money)
	assert.Equal(t, "cap", got.Name)
}

func TestSQLiteBackend(t *testing.T) {
	b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "players.db"))
	require.NoError(t, err)
	defer b.Close()
	testBackendRoundTrip(t, b)
}

func TestSnapshotBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "players.dat.zst")
	b := NewSnapshotBackend(path)

	recs, err := b.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)

	testBackendRoundTrip(t, b)
}
