package segment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/hupe1980/bitvec/blobstore"
	"github.com/hupe1980/bitvec/codec"
)

// Manager reads and writes named bit-vector segments through a blob store.
type Manager struct {
	store       blobstore.BlobStore
	compression codec.Compression
	logger      *slog.Logger
	workers     int64
	ioLimiter   *rate.Limiter
}

// Option configures a Manager.
type Option func(*Manager)

// WithCompression selects the segment compression. Default is zstd.
func WithCompression(c codec.Compression) Option {
	return func(m *Manager) { m.compression = c }
}

// WithLogger sets the structured logger. Default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithConcurrency bounds the number of in-flight transfers during bulk
// operations. Default is 4.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.workers = int64(n)
		}
	}
}

// WithIOLimit throttles transfers to bytesPerSec. Zero means unlimited.
func WithIOLimit(bytesPerSec int) Option {
	return func(m *Manager) {
		if bytesPerSec > 0 {
			m.ioLimiter = rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
		}
	}
}

// NewManager creates a Manager over the given store.
func NewManager(store blobstore.BlobStore, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		compression: codec.CompressionZstd,
		logger:      slog.New(slog.DiscardHandler),
		workers:     4,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) throttle(ctx context.Context, n int) error {
	if m.ioLimiter == nil || n == 0 {
		return nil
	}
	// WaitN cannot exceed the limiter burst; split large transfers.
	burst := m.ioLimiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := m.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// Put encodes the vectors and stores them under the given name.
func (m *Manager) Put(ctx context.Context, name string, vectors []codec.Vector) error {
	start := time.Now()

	data, err := codec.Encode(vectors, m.compression)
	if err != nil {
		return fmt.Errorf("encode segment %q: %w", name, err)
	}
	if err := m.throttle(ctx, len(data)); err != nil {
		return err
	}
	if err := m.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("put segment %q: %w", name, err)
	}

	m.logger.DebugContext(ctx, "segment stored",
		slog.String("name", name),
		slog.Int("vectors", len(vectors)),
		slog.Int("bytes", len(data)),
		slog.String("compression", m.compression.String()),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}

// Get loads and decodes the named segment.
func (m *Manager) Get(ctx context.Context, name string) ([]codec.Vector, error) {
	start := time.Now()

	blob, err := m.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open segment %q: %w", name, err)
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, fmt.Errorf("read segment %q: %w", name, err)
	}
	if err := m.throttle(ctx, len(data)); err != nil {
		return nil, err
	}

	vectors, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode segment %q: %w", name, err)
	}

	m.logger.DebugContext(ctx, "segment loaded",
		slog.String("name", name),
		slog.Int("vectors", len(vectors)),
		slog.Int("bytes", len(data)),
		slog.Duration("took", time.Since(start)),
	)
	return vectors, nil
}

// Delete removes the named segment.
func (m *Manager) Delete(ctx context.Context, name string) error {
	return m.store.Delete(ctx, name)
}

// List returns the names of all segments with the given prefix.
func (m *Manager) List(ctx context.Context, prefix string) ([]string, error) {
	return m.store.List(ctx, prefix)
}

// PutAll stores multiple segments concurrently. On error, the first failure
// is returned; already-transferred segments are not rolled back.
func (m *Manager) PutAll(ctx context.Context, segments map[string][]codec.Vector) error {
	g, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(m.workers)

	for name, vectors := range segments {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			return m.Put(ctx, name, vectors)
		})
	}

	return g.Wait()
}

// GetAll loads multiple segments concurrently.
func (m *Manager) GetAll(ctx context.Context, names []string) (map[string][]codec.Vector, error) {
	g, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(m.workers)

	var mu sync.Mutex
	out := make(map[string][]codec.Vector, len(names))

	for _, name := range names {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			vectors, err := m.Get(ctx, name)
			if err != nil {
				return err
			}

			mu.Lock()
			out[name] = vectors
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
