// Package snapshot archives rendered frames.
//
// A Store is a flat key/value blob store. Recorder turns a Store into a
// host.Sink: frames are queued and written by a background worker so a slow
// backend never stalls the UI loop.
//
//	store, err := snapshot.Open(ctx, cfg.Snapshot)
//	rec := snapshot.NewRecorder(store, logger, 256)
//	defer rec.Close()
//
//	root := host.NewRoot(host.WithSink(rec.Record))
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/vango-dev/streambind/internal/config"
	serrors "github.com/vango-dev/streambind/internal/errors"
)

// ErrStore is wrapped by every store failure.
var ErrStore = errors.New("snapshot: store failure")

// Store persists frame bodies by key.
type Store interface {
	// Put writes body under key, replacing any previous value.
	Put(ctx context.Context, key string, body []byte) error

	// List returns keys starting with prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Key returns the archive key of a frame.
func Key(root string, seq uint64) string {
	return fmt.Sprintf("%s/%06d.html", root, seq)
}

func storeError(op, key string, err error) error {
	return serrors.New("E150").
		WithDetailf("%s %s: %v", op, key, err).
		Wrap(errors.Join(ErrStore, err))
}

// MemoryStore keeps frames in memory. Useful for tests and the render command.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

// Put implements Store.
func (m *MemoryStore) Put(ctx context.Context, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return storeError("put", key, err)
	}
	cp := make([]byte, len(body))
	copy(cp, body)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = cp
	return nil
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Get returns a stored body.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.items[key]
	return b, ok
}

// Open builds the store selected by cfg. It returns nil for the none backend.
func Open(ctx context.Context, cfg config.SnapshotConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case "", config.BackendNone:
		return nil, nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendDir:
		return NewDirStore(cfg.Dir, cfg.Prefix)
	case config.BackendS3:
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("snapshot: using s3", "bucket", cfg.Bucket, "prefix", cfg.Prefix, "region", cfg.Region)
		return NewS3Store(client, cfg.Bucket, cfg.Prefix), nil
	default:
		return nil, serrors.New("E122").WithDetailf("unknown snapshot backend %q", cfg.Backend)
	}
}
