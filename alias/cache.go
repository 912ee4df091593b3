package alias

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/autowire/component"
	"github.com/kbukum/autowire/errors"
	"github.com/kbukum/autowire/introspect"
	"github.com/kbukum/autowire/logger"
	"github.com/kbukum/autowire/observability"
)

// Cache is a read-through cache of alias maps keyed by class identity.
// Misses are computed from the describer, inserted, and the whole table is
// rewritten to the backing store before the map is returned. Entries are
// never replaced or evicted.
type Cache struct {
	describer introspect.Describer
	store     Store
	log       *logger.Logger
	metrics   *observability.Metrics

	mu         sync.RWMutex
	table      Table
	persistErr error
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore sets the backing store. Its content is loaded by Start.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

var _ component.Component = (*Cache)(nil)

// NewCache creates an empty cache over describer.
func NewCache(describer introspect.Describer, opts ...Option) *Cache {
	c := &Cache{
		describer: describer,
		log:       logger.Get(logger.ComponentAliasCache),
		table:     Table{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AliasMap returns the alias map of the class identified by identity,
// computing and persisting it on first request. Describer failures are
// returned as REFLECTION_FAILED and nothing is cached.
func (c *Cache) AliasMap(ctx context.Context, identity string) (Map, error) {
	ctx, span := observability.Tracer().Start(ctx, observability.SpanAliasMap,
		trace.WithAttributes(attribute.String(observability.AttrClass, identity)))
	defer span.End()

	c.mu.RLock()
	m, ok := c.table[identity]
	c.mu.RUnlock()
	if ok {
		return c.hit(ctx, span, identity, m), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.table[identity]; ok {
		return c.hit(ctx, span, identity, m), nil
	}

	params, err := c.describer.DescribeConstructorParameters(identity)
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeReflectionFailed) {
			err = errors.ReflectionFailed(identity, err)
		}
		observability.SetSpanError(span, err)
		c.log.Warn("Constructor introspection failed", logger.Fields(
			logger.FieldClass, identity,
			logger.FieldError, err.Error(),
		))
		return nil, err
	}

	m = make(Map, len(params))
	for i, p := range params {
		m[i] = Entry{Parameter: p.Name, Aliases: Derive(p)}
	}
	c.table[identity] = m

	span.SetAttributes(attribute.Bool(observability.AttrCacheHit, false))
	c.metrics.RecordCacheMiss(ctx, identity)
	c.log.Info("Alias map derived", logger.Fields(
		logger.FieldClass, identity,
		logger.FieldParameter, m.Names(),
	))

	c.persist(ctx)
	return m.clone(), nil
}

func (c *Cache) hit(ctx context.Context, span trace.Span, identity string, m Map) Map {
	span.SetAttributes(attribute.Bool(observability.AttrCacheHit, true))
	c.metrics.RecordCacheHit(ctx, identity)
	c.log.Debug("Alias map cache hit", logger.Fields(logger.FieldClass, identity))
	return m.clone()
}

// persist rewrites the whole table to the store. Failures are logged and
// kept for Health; the in-memory entry stays. Callers hold c.mu.
func (c *Cache) persist(ctx context.Context) {
	if c.store == nil {
		return
	}
	location := c.store.Location()

	data, err := EncodeTable(c.table)
	if err == nil {
		err = c.store.Save(ctx, data)
	}
	if err != nil {
		c.persistErr = errors.StoreFailed(location, "save", err)
		c.metrics.RecordPersistError(ctx, location)
		c.log.Warn("Failed to persist alias table", logger.Fields(
			logger.FieldStore, location,
			logger.FieldError, err.Error(),
		))
		return
	}

	c.persistErr = nil
	c.log.Debug("Alias table persisted", logger.Fields(
		logger.FieldStore, location,
		logger.FieldEntries, len(c.table),
	))
}

// ConfigureStore binds store and loads its content. A stored table replaces
// the in-memory one; an unreadable payload empties the table; an empty store
// leaves it as is. A failure to read the store is returned as STORE_FAILED
// and leaves both the table and the previous binding untouched.
func (c *Cache) ConfigureStore(ctx context.Context, store Store) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if store == nil {
		c.store = nil
		return nil
	}

	location := store.Location()
	data, err := store.Load(ctx)
	switch {
	case stderrors.Is(err, ErrStoreNotFound):
		c.log.Debug("Alias store is empty", logger.Fields(logger.FieldStore, location))
	case err != nil:
		return errors.StoreFailed(location, "load", err)
	default:
		table, derr := DecodeTable(data)
		if derr != nil {
			c.log.Warn("Discarding unreadable alias table", logger.Fields(
				logger.FieldStore, location,
				logger.FieldError, derr.Error(),
			))
			table = Table{}
		}
		c.table = table
		c.log.Info("Alias table loaded", logger.Fields(
			logger.FieldStore, location,
			logger.FieldEntries, len(table),
		))
	}

	c.store = store
	c.persistErr = nil
	return nil
}

// Table returns a deep copy of the current table.
func (c *Cache) Table() Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table.Clone()
}

// Len returns the number of cached classes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.table)
}

// Store returns the bound backing store, or nil.
func (c *Cache) Store() Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

// Name returns the component name.
func (c *Cache) Name() string { return logger.ComponentAliasCache }

// Start loads the store given with WithStore.
func (c *Cache) Start(ctx context.Context) error {
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()

	if store == nil {
		return nil
	}
	if err := c.ConfigureStore(ctx, store); err != nil {
		return fmt.Errorf("alias cache start: %w", err)
	}
	return nil
}

// Stop is a no-op: every insertion is already persisted.
func (c *Cache) Stop(_ context.Context) error { return nil }

// Health reports degraded while the last persist attempt failed.
func (c *Cache) Health(_ context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.persistErr != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: c.persistErr.Error(),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns summary info for the startup log.
func (c *Cache) Describe() component.Description {
	c.mu.RLock()
	defer c.mu.RUnlock()

	location := "memory"
	if c.store != nil {
		location = c.store.Location()
	}
	return component.Description{
		Name:    "Alias cache",
		Type:    "cache",
		Details: fmt.Sprintf("%s entries=%d", location, len(c.table)),
	}
}
