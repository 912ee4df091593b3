package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/autowire"
	"github.com/kbukum/autowire/alias"
	"github.com/kbukum/autowire/component"
	"github.com/kbukum/autowire/config"
	"github.com/kbukum/autowire/configreader"
	"github.com/kbukum/autowire/di"
	"github.com/kbukum/autowire/introspect"
	"github.com/kbukum/autowire/logger"
	"github.com/kbukum/autowire/observability"
	"github.com/kbukum/autowire/redis"
)

// App wires the autowire pieces together: a catalog of constructors, the
// alias cache over its backing store, the resolver, and a container that
// builds any catalogued class on first request.
//
// Example:
//
//	app, err := bootstrap.New(&cfg, bootstrap.WithCatalog(catalog))
//	if err := app.Start(ctx); err != nil { ... }
//	defer app.Stop(ctx)
//	mailer, err := app.Construct(ctx, introspect.IdentityOf[Mailer]())
type App struct {
	Name       string
	Cfg        *config.Config
	Container  di.Container
	Components *component.Registry
	Catalog    *introspect.Catalog
	Cache      *alias.Cache
	Resolver   *autowire.Resolver
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	shutdown        []func(ctx context.Context) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// New creates an application from cfg. It applies defaults, validates the
// config, initializes the logger and registers the infrastructure in the
// container and the component registry. Nothing is started.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)

	app := &App{
		Name:            cfg.Name,
		Cfg:             cfg,
		Container:       di.NewContainer(),
		Components:      component.NewRegistry(),
		Catalog:         introspect.NewCatalog(),
		gracefulTimeout: 15 * time.Second,
	}
	if o.container != nil {
		app.Container = o.container
	}
	if o.catalog != nil {
		app.Catalog = o.catalog
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		app.Logger = logger.New(&cfg.Logging, cfg.Name)
	}
	logger.SetGlobalLogger(app.Logger)
	logger.RegisterDefaults(app.Logger)

	metrics, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	store := o.store
	if store == nil {
		if store, err = alias.NewStore(cfg.Cache, logger.Get(logger.ComponentStore)); err != nil {
			return nil, err
		}
	}

	app.Cache = alias.NewCache(app.Catalog,
		alias.WithStore(store),
		alias.WithLogger(logger.Get(logger.ComponentAliasCache)),
		alias.WithMetrics(metrics),
	)
	app.Resolver = autowire.NewResolver(app.Cache, app.Catalog,
		autowire.WithLogger(logger.Get(logger.ComponentResolver)),
		autowire.WithMetrics(metrics),
	)

	if err := app.registerComponents(store); err != nil {
		return nil, err
	}
	if err := app.registerServices(); err != nil {
		return nil, err
	}

	app.Summary = NewSummary(cfg.Name, cfg.Environment)
	if o.summaryOutput != nil {
		app.Summary.SetOutput(o.summaryOutput)
	}
	return app, nil
}

// registerComponents adds the store's Redis connection, when there is one,
// ahead of the cache so the cache loads from a connected client.
func (a *App) registerComponents(store alias.Store) error {
	if rs, ok := store.(*alias.RedisStore); ok {
		if rc, ok := rs.Source().(*redis.Component); ok {
			if err := a.Components.Register(rc); err != nil {
				return err
			}
		}
	}
	return a.Components.Register(a.Cache)
}

// registerServices registers the infrastructure, the configuration tree and
// the auto-wiring abstract factory in the container.
func (a *App) registerServices() error {
	tree, err := config.LoadTree(a.Cfg.Tree)
	if err != nil {
		return fmt.Errorf("config tree: %w", err)
	}
	configreader.SetDefaultConfigAlias(a.Cfg.ConfigAlias)

	singletons := []struct {
		key   string
		value interface{}
	}{
		{a.Cfg.ConfigAlias, tree},
		{di.Names.Logger, a.Logger},
		{di.Names.Catalog, a.Catalog},
		{di.Names.AliasCache, a.Cache},
		{di.Names.Resolver, a.Resolver},
		{di.Names.Container, a.Container},
		{di.Names.Registry, a.Components},
	}
	for _, s := range singletons {
		if err := a.Container.RegisterSingleton(s.key, s.value); err != nil {
			return fmt.Errorf("register %s: %w", s.key, err)
		}
	}

	a.Container.RegisterAbstractFactory(autowire.NewAbstractFactory(a.Resolver, a.Catalog))
	return nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// Construct builds the class identified by identity from the container.
func (a *App) Construct(ctx context.Context, identity string) (interface{}, error) {
	return a.Resolver.Construct(ctx, a.Container, identity)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Start initializes telemetry when enabled, starts all components, runs the
// OnStart and OnReady hooks and displays the startup summary.
func (a *App) Start(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"environment", a.Cfg.Environment,
	))

	if err := a.initTelemetry(ctx); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary()
	return nil
}

func (a *App) initTelemetry(ctx context.Context) error {
	if !a.Cfg.Observability.Enabled {
		return nil
	}

	tp, err := observability.InitTracer(ctx, &a.Cfg.Observability)
	if err != nil {
		return err
	}
	a.shutdown = append(a.shutdown, tp.Shutdown)

	mp, err := observability.InitMeter(ctx, &a.Cfg.Observability)
	if err != nil {
		return err
	}
	a.shutdown = append(a.shutdown, mp.Shutdown)
	return nil
}

// Run starts the application and blocks until a shutdown signal or ctx is
// done, then stops it.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()
	return a.Stop(stopCtx)
}

// RunTask starts the application, runs task and stops the application when
// task returns. SIGINT and SIGTERM cancel the task's context.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer stopCancel()
	if stopErr := a.Stop(stopCtx); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// DisplaySummary prints the startup summary.
func (a *App) DisplaySummary() {
	a.Summary.DisplaySummary(a.Components, a.Container, a.Catalog)
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Stop runs the OnStop hooks, stops components in reverse order, closes the
// container and flushes telemetry. It returns the first error encountered
// and keeps going after it.
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down application")

	var shutdownErr error
	record := func(msg string, err error) {
		a.Logger.Error(msg, logger.Fields(logger.FieldError, err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	if err := runHooks(ctx, a.onStop); err != nil {
		record("OnStop hook error", err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		record("Component shutdown error", err)
	}
	if err := a.Container.Close(); err != nil {
		record("Container close error", err)
	}
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](ctx); err != nil {
			record("Telemetry shutdown error", err)
		}
	}
	a.shutdown = nil

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
