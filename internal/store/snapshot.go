package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

const snapshotVersion = 1

type snapshotHeader struct {
	Version   int   `json:"version"`
	Players   int   `json:"players"`
	WrittenAt int64 `json:"written_at"`
}

type snapshotRecord struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UpdatedAt int64           `json:"updated_at"`
	Player    json.RawMessage `json:"player"`
}

// SnapshotBackend stores every player in a single zstd-compressed file of
// JSON lines: a header line followed by one line per player.
type SnapshotBackend struct {
	path string
}

func NewSnapshotBackend(path string) *SnapshotBackend {
	return &SnapshotBackend{path: path}
}

func (b *SnapshotBackend) LoadAll(_ context.Context) ([]Record, error) {
	f, err := os.Open(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !sc.Scan() {
		return nil, sc.Err()
	}
	var hdr snapshotHeader
	if err := json.Unmarshal(sc.Bytes(), &hdr); err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}
	if hdr.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", hdr.Version)
	}

	out := make([]Record, 0, hdr.Players)
	for sc.Scan() {
		var sr snapshotRecord
		if err := json.Unmarshal(sc.Bytes(), &sr); err != nil {
			return nil, fmt.Errorf("snapshot record %d: %w", len(out), err)
		}
		out = append(out, Record{ID: sr.ID, Name: sr.Name, Data: []byte(sr.Player), UpdatedAt: sr.UpdatedAt})
	}
	return out, sc.Err()
}

// Persist rewrites the whole snapshot and swaps it in with a rename.
func (b *SnapshotBackend) Persist(_ context.Context, _, all []Record) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return err
	}
	tmp := b.path + ".tmp"
	if err := writeSnapshot(tmp, all); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, b.path)
}

func writeSnapshot(path string, all []Record) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	je := json.NewEncoder(bw)

	if err := je.Encode(snapshotHeader{Version: snapshotVersion, Players: len(all), WrittenAt: time.Now().Unix()}); err != nil {
		enc.Close()
		return err
	}
	for _, r := range all {
		sr := snapshotRecord{ID: r.ID, Name: r.Name, UpdatedAt: r.UpdatedAt, Player: json.RawMessage(r.Data)}
		if err := je.Encode(sr); err != nil {
			enc.Close()
			return fmt.Errorf("encode player %d: %w", r.ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Sync()
}

func (b *SnapshotBackend) Close() error { return nil }
