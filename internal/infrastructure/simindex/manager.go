package simindex

import (
	"context"
	stderrors "errors"
	"io/fs"
	"sync"
	"sync/atomic"

	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/pkg/errors"
)

// Manager owns the live index and serializes rebuilds.  Queries read the
// current index through an atomic pointer, so a rebuild never blocks
// searches: the finished index is swapped in as a whole.
type Manager struct {
	builder      *Builder
	snapshotPath string
	logger       logging.Logger

	current atomic.Pointer[BruteIndex]
	buildMu sync.Mutex
}

// NewManager wires a manager.  snapshotPath may be empty to disable
// snapshot persistence.
func NewManager(builder *Builder, snapshotPath string, logger logging.Logger) *Manager {
	return &Manager{
		builder:      builder,
		snapshotPath: snapshotPath,
		logger:       logger.Named("index.manager"),
	}
}

// Current returns the live index, or an error while no index has been
// built yet.
func (m *Manager) Current() (*BruteIndex, error) {
	idx := m.current.Load()
	if idx == nil {
		return nil, errors.New(errors.ErrCodeIndexNotBuilt, "similarity index is not built yet")
	}
	return idx, nil
}

// Ready reports whether a live index is available.
func (m *Manager) Ready() bool {
	return m.current.Load() != nil
}

// Ensure makes a live index available: a valid snapshot is loaded when
// its corpus hash matches, otherwise a full build runs and the snapshot
// is refreshed.  Concurrent calls coalesce on the build mutex.
func (m *Manager) Ensure(ctx context.Context) error {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	if m.current.Load() != nil {
		return nil
	}

	if m.snapshotPath != "" {
		idx, err := LoadSnapshot(m.snapshotPath, m.builder.store.ContentHash())
		m.observeSnapshotLoad(err)
		if err == nil {
			m.store(idx)
			m.logger.Info("index snapshot loaded",
				logging.String("path", m.snapshotPath),
				logging.Int("records", idx.Size()))
			return nil
		}
		m.logger.Warn("index snapshot unusable, rebuilding", logging.Err(err))
	}

	return m.rebuildLocked(ctx)
}

// Rebuild forces a fresh build and swap, refreshing the snapshot.
func (m *Manager) Rebuild(ctx context.Context) error {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()
	return m.rebuildLocked(ctx)
}

func (m *Manager) rebuildLocked(ctx context.Context) error {
	idx, err := m.builder.Build(ctx)
	if err != nil {
		return err
	}
	if m.snapshotPath != "" {
		if err := SaveSnapshot(idx, m.snapshotPath); err != nil {
			m.logger.Warn("failed to persist index snapshot", logging.Err(err))
		}
	}
	m.store(idx)
	return nil
}

// store swaps the live index and tracks its size.
func (m *Manager) store(idx *BruteIndex) {
	m.current.Store(idx)
	if m.builder.metrics != nil {
		m.builder.metrics.IndexSize.Set(float64(idx.Size()))
	}
}

func (m *Manager) observeSnapshotLoad(err error) {
	if m.builder.metrics == nil {
		return
	}
	outcome := "loaded"
	switch {
	case err == nil:
	case errors.IsCode(err, errors.ErrCodeSnapshotHashMismatch):
		outcome = "hash_mismatch"
	case stderrors.Is(err, fs.ErrNotExist):
		outcome = "missing"
	default:
		outcome = "corrupt"
	}
	m.builder.metrics.IndexSnapshotLoads.WithLabelValues(outcome).Inc()
}
