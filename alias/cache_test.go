package alias

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kbukum/autowire/component"
	"github.com/kbukum/autowire/config"
	"github.com/kbukum/autowire/errors"
	"github.com/kbukum/autowire/introspect"
	"github.com/kbukum/autowire/logger"
	"github.com/kbukum/autowire/observability"
	"github.com/kbukum/autowire/redis"
)

const mailerID = "acme.Mailer"

// countingDescriber returns fixed parameters and counts calls.
type countingDescriber struct {
	params map[string][]introspect.Parameter
	calls  atomic.Int32
}

func (d *countingDescriber) DescribeConstructorParameters(identity string) ([]introspect.Parameter, error) {
	d.calls.Add(1)
	p, ok := d.params[identity]
	if !ok {
		return nil, fmt.Errorf("class %s not found", identity)
	}
	return p, nil
}

func newDescriber() *countingDescriber {
	return &countingDescriber{params: map[string][]introspect.Parameter{
		mailerID: {
			{Name: "foo", DeclaredType: "Widget", Kind: introspect.KindClass},
			{Name: "bar", DeclaredType: "string", Kind: introspect.KindScalar},
			{Name: "baz", Kind: introspect.KindUntyped},
		},
		"acme.Clock": {},
	}}
}

// recordingStore wraps MemoryStore and counts saves.
type recordingStore struct {
	MemoryStore
	saves   atomic.Int32
	saveErr error
	loadErr error
}

func (s *recordingStore) Save(ctx context.Context, data []byte) error {
	s.saves.Add(1)
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.MemoryStore.Save(ctx, data)
}

func (s *recordingStore) Load(ctx context.Context) ([]byte, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.MemoryStore.Load(ctx)
}

func newTestCache(d introspect.Describer, opts ...Option) *Cache {
	return NewCache(d, append([]Option{WithLogger(logger.Nop())}, opts...)...)
}

func TestCache_AliasMapDerivesInDeclarationOrder(t *testing.T) {
	c := newTestCache(newDescriber())

	m, err := c.AliasMap(context.Background(), mailerID)
	if err != nil {
		t.Fatalf("AliasMap failed: %v", err)
	}
	want := Map{
		{Parameter: "foo", Aliases: []string{"Widget $foo", "Widget", "$foo"}},
		{Parameter: "bar", Aliases: []string{"string $bar", "$bar"}},
		{Parameter: "baz", Aliases: []string{"$baz"}},
	}
	if !m.Equal(want) {
		t.Errorf("expected %v, got %v", want, m)
	}
}

func TestCache_ZeroParameterClass(t *testing.T) {
	c := newTestCache(newDescriber())
	m, err := c.AliasMap(context.Background(), "acme.Clock")
	if err != nil {
		t.Fatalf("AliasMap failed: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("expected empty map, got %v", m)
	}
	if c.Len() != 1 {
		t.Errorf("expected empty map to be cached, got %d entries", c.Len())
	}
}

func TestCache_IdempotentAndPersistsOnlyOnMiss(t *testing.T) {
	d := newDescriber()
	store := &recordingStore{}
	c := newTestCache(d, WithStore(store))
	ctx := context.Background()

	first, err := c.AliasMap(ctx, mailerID)
	if err != nil {
		t.Fatalf("AliasMap failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := c.AliasMap(ctx, mailerID)
		if err != nil {
			t.Fatalf("AliasMap failed: %v", err)
		}
		if !again.Equal(first) {
			t.Errorf("expected identical maps, got %v and %v", first, again)
		}
	}

	if got := d.calls.Load(); got != 1 {
		t.Errorf("expected 1 introspection, got %d", got)
	}
	if got := store.saves.Load(); got != 1 {
		t.Errorf("expected 1 save, got %d", got)
	}

	data, err := store.MemoryStore.Load(ctx)
	if err != nil {
		t.Fatalf("expected persisted table: %v", err)
	}
	table, err := DecodeTable(data)
	if err != nil {
		t.Fatalf("persisted table unreadable: %v", err)
	}
	if !table[mailerID].Equal(first) {
		t.Errorf("expected persisted map %v, got %v", first, table[mailerID])
	}
}

func TestCache_ReturnedMapIsACopy(t *testing.T) {
	c := newTestCache(newDescriber())
	ctx := context.Background()

	m, _ := c.AliasMap(ctx, mailerID)
	m[0].Aliases[0] = "tampered"

	again, _ := c.AliasMap(ctx, mailerID)
	if again[0].Aliases[0] != "Widget $foo" {
		t.Errorf("expected cached map to be unaffected, got %v", again[0].Aliases)
	}
}

func TestCache_ReflectionFailureIsNotCached(t *testing.T) {
	d := newDescriber()
	store := &recordingStore{}
	c := newTestCache(d, WithStore(store))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.AliasMap(ctx, "acme.Missing")
		if !errors.HasCode(err, errors.ErrCodeReflectionFailed) {
			t.Fatalf("expected REFLECTION_FAILED, got %v", err)
		}
	}
	if got := d.calls.Load(); got != 2 {
		t.Errorf("expected failures not to be cached, got %d introspections", got)
	}
	if c.Len() != 0 || store.saves.Load() != 0 {
		t.Errorf("expected nothing cached or saved, got len=%d saves=%d", c.Len(), store.saves.Load())
	}
}

func TestCache_ReflectionFailedFromCatalogIsNotRewrapped(t *testing.T) {
	c := newTestCache(introspect.NewCatalog())
	_, err := c.AliasMap(context.Background(), "acme.Unknown")
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeReflectionFailed {
		t.Fatalf("expected REFLECTION_FAILED, got %v", err)
	}
	if errors.IsAppError(appErr.Cause) {
		t.Errorf("expected a single REFLECTION_FAILED layer, got cause %v", appErr.Cause)
	}
}

func TestCache_PersistFailureKeepsEntry(t *testing.T) {
	d := newDescriber()
	store := &recordingStore{saveErr: fmt.Errorf("disk full")}
	c := newTestCache(d, WithStore(store))
	ctx := context.Background()

	if _, err := c.AliasMap(ctx, mailerID); err != nil {
		t.Fatalf("expected lookup to succeed despite persist failure, got %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("expected entry in memory, got %d", c.Len())
	}
	h := c.Health(ctx)
	if h.Status != component.StatusDegraded {
		t.Errorf("expected degraded health, got %s", h.Status)
	}

	store.saveErr = nil
	if _, err := c.AliasMap(ctx, "acme.Clock"); err != nil {
		t.Fatalf("AliasMap failed: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected health to recover after a successful save, got %s", h.Status)
	}
}

func TestCache_ConfigureStoreLoadsTable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	data, _ := EncodeTable(Table{mailerID: Map{{Parameter: "x", Aliases: []string{"$x"}}}})
	_ = store.Save(ctx, data)

	d := newDescriber()
	c := newTestCache(d)
	if err := c.ConfigureStore(ctx, store); err != nil {
		t.Fatalf("ConfigureStore failed: %v", err)
	}

	m, err := c.AliasMap(ctx, mailerID)
	if err != nil {
		t.Fatalf("AliasMap failed: %v", err)
	}
	if len(m) != 1 || m[0].Parameter != "x" {
		t.Errorf("expected stored map, got %v", m)
	}
	if d.calls.Load() != 0 {
		t.Errorf("expected no introspection for stored class, got %d", d.calls.Load())
	}
	if c.Store() != Store(store) {
		t.Error("expected store to be bound")
	}
}

func TestCache_ConfigureStoreCorruptPayloadEmptiesTable(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(newDescriber())
	if _, err := c.AliasMap(ctx, mailerID); err != nil {
		t.Fatalf("AliasMap failed: %v", err)
	}

	store := NewMemoryStore()
	_ = store.Save(ctx, []byte(`{"acme.Mailer": "garbage"`))
	if err := c.ConfigureStore(ctx, store); err != nil {
		t.Fatalf("expected corrupt payload to be tolerated, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty table, got %d entries", c.Len())
	}
}

func TestCache_ConfigureStoreEmptyKeepsTable(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(newDescriber())
	if _, err := c.AliasMap(ctx, mailerID); err != nil {
		t.Fatalf("AliasMap failed: %v", err)
	}
	if err := c.ConfigureStore(ctx, NewMemoryStore()); err != nil {
		t.Fatalf("ConfigureStore failed: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("expected table to be kept, got %d entries", c.Len())
	}
}

func TestCache_ConfigureStoreReadFailure(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(newDescriber())
	if _, err := c.AliasMap(ctx, mailerID); err != nil {
		t.Fatalf("AliasMap failed: %v", err)
	}

	store := &recordingStore{loadErr: fmt.Errorf("permission denied")}
	err := c.ConfigureStore(ctx, store)
	if !errors.HasCode(err, errors.ErrCodeStoreFailed) {
		t.Fatalf("expected STORE_FAILED, got %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("expected table untouched, got %d entries", c.Len())
	}
	if c.Store() != nil {
		t.Error("expected store not to be bound after a read failure")
	}
}

func TestCache_ConcurrentMissComputesOnce(t *testing.T) {
	d := newDescriber()
	store := &recordingStore{}
	c := newTestCache(d, WithStore(store))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.AliasMap(ctx, mailerID); err != nil {
				t.Errorf("AliasMap failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := d.calls.Load(); got != 1 {
		t.Errorf("expected 1 introspection, got %d", got)
	}
	if got := store.saves.Load(); got != 1 {
		t.Errorf("expected 1 save, got %d", got)
	}
}

func TestCache_FileStoreSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache", "aliases.json")

	first := newTestCache(newDescriber(), WithStore(NewFileStore(path)))
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	want, err := first.AliasMap(ctx, mailerID)
	if err != nil {
		t.Fatalf("AliasMap failed: %v", err)
	}

	d := newDescriber()
	second := newTestCache(d, WithStore(NewFileStore(path)))
	if err := second.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	got, err := second.AliasMap(ctx, mailerID)
	if err != nil {
		t.Fatalf("AliasMap failed: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if d.calls.Load() != 0 {
		t.Errorf("expected restart to skip introspection, got %d calls", d.calls.Load())
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the table file to remain, got %d entries", len(entries))
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "aliases.json"))

	if _, err := s.Load(ctx); err != ErrStoreNotFound {
		t.Errorf("expected ErrStoreNotFound, got %v", err)
	}
	if err := s.Save(ctx, []byte(`{}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := s.Load(ctx)
	if err != nil || string(data) != `{}` {
		t.Errorf("unexpected load %q (%v)", data, err)
	}
	if s.Location() != "file://"+filepath.Join(dir, "aliases.json") {
		t.Errorf("unexpected location %s", s.Location())
	}

	// a directory in place of the file is an I/O error, not "not found"
	bad := NewFileStore(dir)
	if _, err := bad.Load(ctx); err == nil || err == ErrStoreNotFound {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mini := miniredis.RunT(t)

	comp := redis.NewComponent(redis.Config{Enabled: true, Addr: mini.Addr()}, logger.Nop())
	store := NewRedisStore(comp, "autowire:aliases")
	if _, err := store.Load(ctx); err == nil {
		t.Error("expected error before the client is started")
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { _ = comp.Stop(ctx) })

	if _, err := store.Load(ctx); err != ErrStoreNotFound {
		t.Errorf("expected ErrStoreNotFound, got %v", err)
	}

	c := newTestCache(newDescriber(), WithStore(store))
	if err := c.Start(ctx); err != nil {
		t.Fatalf("cache Start failed: %v", err)
	}
	want, err := c.AliasMap(ctx, mailerID)
	if err != nil {
		t.Fatalf("AliasMap failed: %v", err)
	}

	raw, err := mini.Get("autowire:aliases")
	if err != nil {
		t.Fatalf("expected key in redis: %v", err)
	}
	table, err := DecodeTable([]byte(raw))
	if err != nil || !table[mailerID].Equal(want) {
		t.Errorf("unexpected stored table %s (%v)", raw, err)
	}
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config.CacheConfig
		want string
	}{
		{"default memory", config.CacheConfig{}, "memory://"},
		{"file", config.CacheConfig{Driver: config.CacheDriverFile, File: filepath.Join(dir, "a.json")}, "file://" + filepath.Join(dir, "a.json")},
		{"redis", config.CacheConfig{Driver: config.CacheDriverRedis, Redis: redis.Config{Addr: "localhost:6379"}}, "redis:///" + config.DefaultRedisKey},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewStore(tc.cfg, logger.Nop())
			if err != nil {
				t.Fatalf("NewStore failed: %v", err)
			}
			if s.Location() != tc.want {
				t.Errorf("expected %s, got %s", tc.want, s.Location())
			}
		})
	}

	if _, err := NewStore(config.CacheConfig{Driver: config.CacheDriverFile}, logger.Nop()); err == nil {
		t.Error("expected error for file driver without a path")
	}
}

func TestCache_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	c := newTestCache(newDescriber(), WithMetrics(metrics))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.AliasMap(ctx, mailerID); err != nil {
			t.Fatalf("AliasMap failed: %v", err)
		}
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
				}
			}
		}
	}
	if totals[observability.MetricCacheMisses] != 1 || totals[observability.MetricCacheHits] != 2 {
		t.Errorf("expected 1 miss and 2 hits, got %v", totals)
	}
}

func TestCache_DescribeAndLifecycle(t *testing.T) {
	c := newTestCache(newDescriber())
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if c.Name() != "alias-cache" {
		t.Errorf("unexpected name %s", c.Name())
	}
	if d := c.Describe(); d.Details != "memory entries=0" {
		t.Errorf("unexpected description %+v", d)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
