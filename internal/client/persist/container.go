package persist

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/formdraft/internal/client/repositories/kv"
	"github.com/dmitrijs2005/formdraft/internal/logging"
)

// Container holds one value of type T under a fixed repository key.
type Container[T any] struct {
	repo    kv.Repository
	key     string
	initial T
	codec   Codec[T]
	logger  logging.Logger

	// writeMu orders the initial load and all writes, so the durable write
	// order matches the snapshot order.
	writeMu sync.Mutex

	mu      sync.RWMutex
	value   T
	lastErr error

	initOnce sync.Once
	ready    chan struct{}

	subMu  sync.Mutex
	subs   map[int]chan T
	nextID int
}

// Option configures a Container.
type Option[T any] func(*Container[T])

// WithLogger sets the logger used for load and write failures.
func WithLogger[T any](l logging.Logger) Option[T] {
	return func(c *Container[T]) {
		c.logger = l
	}
}

// WithCodec replaces the default JSON codec.
func WithCodec[T any](codec Codec[T]) Option[T] {
	return func(c *Container[T]) {
		c.codec = codec
	}
}

// New returns a container whose snapshot starts as initial. Nothing is read
// from repo until Init is called.
func New[T any](repo kv.Repository, key string, initial T, opts ...Option[T]) *Container[T] {
	c := &Container[T]{
		repo:    repo,
		key:     key,
		initial: initial,
		value:   initial,
		codec:   JSONCodec[T]{},
		logger:  logging.Nop(),
		ready:   make(chan struct{}),
		subs:    make(map[int]chan T),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("key", key)
	return c
}

// Key returns the repository key the container is bound to.
func (c *Container[T]) Key() string {
	return c.key
}

// Init starts the background load of the stored value. Only the first call
// has an effect. The returned channel is closed once the load has resolved,
// successfully or not.
func (c *Container[T]) Init(ctx context.Context) <-chan struct{} {
	c.initOnce.Do(func() {
		go func() {
			defer close(c.ready)
			c.load(ctx)
		}()
	})
	return c.ready
}

// Ready returns the channel closed when the initial load has resolved.
func (c *Container[T]) Ready() <-chan struct{} {
	return c.ready
}

// Wait blocks until the initial load has resolved or ctx is done.
func (c *Container[T]) Wait(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Container[T]) load(ctx context.Context) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	v, found, err := c.read(ctx)
	if err != nil {
		c.logger.Error(ctx, "failed to load stored value", "error", err)
		c.recordErr(err)
		return
	}
	if !found {
		v = c.initial
	}
	c.publish(v)
	c.logger.Debug(ctx, "stored value loaded", "found", found)
}

// Value returns the current snapshot.
func (c *Container[T]) Value() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Fetch reads the stored value directly, bypassing the snapshot. found is
// false when nothing is stored under the key. Errors are also recorded.
func (c *Container[T]) Fetch(ctx context.Context) (T, bool, error) {
	v, found, err := c.read(ctx)
	if err != nil {
		c.recordErr(err)
	}
	return v, found, err
}

func (c *Container[T]) read(ctx context.Context) (T, bool, error) {
	var zero T
	data, err := c.repo.Get(ctx, c.key)
	if err != nil {
		return zero, false, fmt.Errorf("failed to read %s: %w", c.key, err)
	}
	if data == nil {
		return zero, false, nil
	}
	v, err := c.codec.Unmarshal(data)
	if err != nil {
		return zero, false, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	return v, true, nil
}

// Set publishes next to the snapshot and then persists it.
func (c *Container[T]) Set(ctx context.Context, next T) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.publish(next)
	c.persist(ctx, next)
}

// Update applies fn to the latest snapshot, publishes the result and then
// persists it.
func (c *Container[T]) Update(ctx context.Context, fn func(T) T) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	next := fn(c.Value())
	c.publish(next)
	c.persist(ctx, next)
}

// Remove deletes the stored key and resets the snapshot to the initial
// value. On failure the snapshot is left as it was.
func (c *Container[T]) Remove(ctx context.Context) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.repo.Delete(ctx, c.key); err != nil {
		err = fmt.Errorf("failed to remove %s: %w", c.key, err)
		c.logger.Warn(ctx, "remove failed", "error", err)
		c.recordErr(err)
		return
	}
	c.publish(c.initial)
}

func (c *Container[T]) persist(ctx context.Context, v T) {
	data, err := c.codec.Marshal(v)
	if err != nil {
		err = fmt.Errorf("failed to encode %s: %w", c.key, err)
		c.logger.Warn(ctx, "write failed", "error", err)
		c.recordErr(err)
		return
	}
	if err := c.repo.Set(ctx, c.key, data); err != nil {
		err = fmt.Errorf("failed to write %s: %w", c.key, err)
		c.logger.Warn(ctx, "write failed", "error", err)
		c.recordErr(err)
	}
}

// LastError returns the most recent load, read or write failure, or nil.
// It is not reset by later successful operations.
func (c *Container[T]) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Container[T]) recordErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

func (c *Container[T]) publish(v T) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()

	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		// Drop a pending value the subscriber has not taken yet; only the
		// latest one matters.
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Watch subscribes to snapshot changes. Notifications coalesce: a slow
// receiver only sees the latest value. The returned func unsubscribes and
// closes the channel.
func (c *Container[T]) Watch() (<-chan T, func()) {
	ch := make(chan T, 1)

	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			close(ch)
			c.subMu.Unlock()
		})
	}
	return ch, cancel
}
