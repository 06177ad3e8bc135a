// Package catalog records every generated scene of a dataset run.
//
// A [Record] holds the placement, the camera angles and the files the
// renderer produced for one test scene, so a dataset can be audited or
// re-rendered later. Records are written through a [Store]:
//
//	store, err := catalog.Open(ctx, "sqlite://output/catalog.db")
//	defer store.Close()
//	err = store.Put(ctx, rec)
//	recs, err := store.List(ctx, runID)
//
// Supported URLs are sqlite://<path>, mongodb://... (or mongodb+srv://...)
// and memory://. An empty URL yields [Discard].
package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/scenegen/pkg/errors"
	"github.com/matzehuels/scenegen/pkg/placement"
)

// Record describes one test scene.
type Record struct {
	ID       uuid.UUID        `json:"id"`
	RunID    uuid.UUID        `json:"run_id"`
	Test     int              `json:"test"`
	Seed     uint64           `json:"seed"`
	Attempts int              `json:"attempts"`
	Items    []placement.Item `json:"items"`
	Angles   []float64        `json:"angles"`

	// Outputs holds, per angle, the renderer's output paths by name.
	Outputs []map[string]string `json:"outputs"`

	// CreatedAt is the start time of the run; every record of a run
	// carries the same value.
	CreatedAt time.Time `json:"created_at"`
}

// NewRecord returns a record of set with a fresh ID.
func NewRecord(runID uuid.UUID, started time.Time, test int, set *placement.Set) Record {
	return Record{
		ID:        uuid.New(),
		RunID:     runID,
		Test:      test,
		Seed:      set.Seed,
		Attempts:  set.Attempts,
		Items:     set.Items,
		CreatedAt: started.UTC(),
	}
}

// Store persists records. Implementations are safe for concurrent use.
type Store interface {
	// Put inserts rec, replacing any record with the same ID.
	Put(ctx context.Context, rec Record) error

	// List returns the records of runID ordered by test index. uuid.Nil
	// lists every record, oldest run first.
	List(ctx context.Context, runID uuid.UUID) ([]Record, error)

	Close() error
}

// Open returns the store for url.
func Open(ctx context.Context, url string) (Store, error) {
	switch {
	case url == "":
		return Discard{}, nil
	case strings.HasPrefix(url, "sqlite://"):
		return OpenSQLite(strings.TrimPrefix(url, "sqlite://"))
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return OpenMongo(ctx, url)
	case url == "memory://":
		return NewMemory(), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported catalog url %q (want sqlite://, mongodb:// or memory://)", url)
	}
}

// Discard drops every record.
type Discard struct{}

func (Discard) Put(context.Context, Record) error                 { return nil }
func (Discard) List(context.Context, uuid.UUID) ([]Record, error) { return nil, nil }
func (Discard) Close() error                                      { return nil }

// Memory keeps records in memory.
type Memory struct {
	mu   sync.Mutex
	recs []Record
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recs {
		if m.recs[i].ID == rec.ID {
			m.recs[i] = rec
			return nil
		}
	}
	m.recs = append(m.recs, rec)
	return nil
}

// List implements Store.
func (m *Memory) List(_ context.Context, runID uuid.UUID) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, r := range m.recs {
		if runID == uuid.Nil || r.RunID == runID {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out, nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
