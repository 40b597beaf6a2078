package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// DefaultCacheSize is the number of cache entries a Manager keeps
// before evicting the least recently used asset.
const DefaultCacheSize = 512

// Config configures a Manager.
type Config struct {
	// CacheSize bounds the asset cache. Zero means DefaultCacheSize.
	CacheSize int

	// Log receives pipeline diagnostics. Nil means the logrus standard
	// logger.
	Log log.FieldLogger

	// OnLoadStarted and OnLoadEnded, when set, are invoked around every
	// load and writable-stream request for a path, after its lock has
	// been acquired. They run on the loading goroutine and must not
	// call back into the Manager for the same path.
	OnLoadStarted func(path string)
	OnLoadEnded   func(path string)
}

// Manager orchestrates the content pipeline. Resolvers and readers are
// registered once and owned by the Manager from then on; Close disposes
// any of them that hold resources. All methods are safe for concurrent
// use.
//
// Loads of the same path are serialized: a second caller suspends until
// the first finishes, then re-reads the cache, so N concurrent loads of
// an uncached resource resolve and deserialize it exactly once.
type Manager struct {
	log   log.FieldLogger
	cfg   Config
	locks *lockTable
	cache *assetCache

	resolvers resolverSet
	readers   readerSet
}

// NewManager creates a Manager with no resolvers or readers registered.
func NewManager(cfg Config) (*Manager, error) {
	size := cfg.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	cache, err := newAssetCache(size)
	if err != nil {
		return nil, err
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Manager{
		log:   logger,
		cfg:   cfg,
		locks: newLockTable(),
		cache: cache,
	}, nil
}

// RegisterResolver appends a resolver to the probe set. The Manager
// owns the resolver from this point on.
func (m *Manager) RegisterResolver(r Resolver) {
	m.resolvers.add(r)
}

// RegisterReader appends a reader to the lookup set. The Manager owns
// the reader from this point on.
func (m *Manager) RegisterReader(r Reader) {
	m.readers.add(r)
}

// Exists reports whether any resolver serves path. The per-path lock
// is held during the probe so an in-flight write by another caller is
// never observed halfway.
func (m *Manager) Exists(ctx context.Context, path string) (bool, error) {
	release, err := m.locks.acquire(ctx, path)
	if err != nil {
		return false, err
	}
	defer release()
	return m.resolvers.exists(ctx, path)
}

// OpenWrite acquires a writable stream for path from the first resolver
// able to create it. The caller owns the returned stream.
func (m *Manager) OpenWrite(ctx context.Context, path string) (io.WriteCloser, error) {
	release, err := m.locks.acquire(ctx, path)
	if err != nil {
		return nil, err
	}
	defer release()
	m.loadStarted(path)
	defer m.loadEnded(path)

	stream, err := m.resolvers.create(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNoWritableSource) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, err
	}
	return stream, nil
}

// Load produces the asset at path deserialized as t. The result comes
// from the cache when a previous load's asset is still resident;
// otherwise the resolver race and a compatible reader produce it and
// the cache is repopulated. force bypasses the cache check and always
// performs a fresh resolve and read. parameter is handed through to
// the reader unmodified.
func (m *Manager) Load(ctx context.Context, path string, t reflect.Type, parameter any, force bool) (any, error) {
	key, err := NewKey(path, t)
	if err != nil {
		return nil, err
	}

	release, err := m.locks.acquire(ctx, path)
	if err != nil {
		return nil, err
	}
	defer release()
	m.loadStarted(path)
	defer m.loadEnded(path)

	if !force {
		if asset, ok := m.cache.get(key); ok {
			m.log.WithField("key", key.String()).Debug("content: cache hit")
			return asset, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	asset, err := m.loadFresh(ctx, key, parameter)
	if err != nil {
		return nil, err
	}
	m.cache.put(key, asset)
	return asset, nil
}

// loadFresh runs the resolve-then-read sequence for a cache miss. The
// resolved stream is closed on every path out.
func (m *Manager) loadFresh(ctx context.Context, key Key, parameter any) (any, error) {
	stream, err := m.resolvers.open(ctx, key.Path)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			return nil, &NotFoundError{Path: key.Path, Err: err}
		}
		return nil, err
	}
	defer stream.Close()

	reader := m.readers.find(key.Type, parameter)
	if reader == nil {
		return nil, &DecodeError{Path: key.Path, Type: key.Type, Err: ErrNoReader}
	}

	asset, err := reader.Read(ctx, ReadRequest{
		Manager:   m,
		Path:      key.Path,
		Type:      key.Type,
		Stream:    stream,
		Parameter: parameter,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &DecodeError{Path: key.Path, Type: key.Type, Err: err}
	}
	if asset == nil {
		return nil, &DecodeError{Path: key.Path, Type: key.Type, Err: errNilAsset}
	}

	m.log.WithField("key", key.String()).Debug("content: loaded")
	return asset, nil
}

// Evict drops the cache entry for (path, t) if present. It is the
// deterministic counterpart of the reclamation the original weak cache
// left to the garbage collector.
func (m *Manager) Evict(path string, t reflect.Type) {
	if key, err := NewKey(path, t); err == nil {
		m.cache.remove(key)
	}
}

// Close disposes every registered resolver and reader that holds
// resources. Teardown order across components is not guaranteed, so a
// component found already closed is skipped rather than aborting the
// rest; all other disposal failures are aggregated.
func (m *Manager) Close() error {
	var errs error
	for _, r := range m.resolvers.snapshot() {
		errs = multierr.Append(errs, closeQuiet(r))
	}
	for _, r := range m.readers.snapshot() {
		errs = multierr.Append(errs, closeQuiet(r))
	}
	return errs
}

func closeQuiet(v any) error {
	c, ok := v.(io.Closer)
	if !ok {
		return nil
	}
	if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

func (m *Manager) loadStarted(path string) {
	if m.cfg.OnLoadStarted != nil {
		m.cfg.OnLoadStarted(path)
	}
}

func (m *Manager) loadEnded(path string) {
	if m.cfg.OnLoadEnded != nil {
		m.cfg.OnLoadEnded(path)
	}
}

// Load is the typed convenience wrapper around Manager.Load.
func Load[T any](ctx context.Context, m *Manager, path string, parameter any) (T, error) {
	var zero T
	asset, err := m.Load(ctx, path, TypeOf[T](), parameter, false)
	if err != nil {
		return zero, err
	}
	typed, ok := asset.(T)
	if !ok {
		return zero, &DecodeError{Path: path, Type: TypeOf[T](), Err: fmt.Errorf("asset is %T", asset)}
	}
	return typed, nil
}
