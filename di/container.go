package di

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/autowire/logger"
)

// ErrNotRegistered is returned for keys no registration or abstract factory
// can serve.
var ErrNotRegistered = errors.New("component not registered")

// RegistrationMode determines how a component is resolved.
type RegistrationMode int

const (
	Eager     RegistrationMode = iota // Initialize immediately on registration
	Lazy                              // Initialize on first resolve
	Singleton                         // Pre-created instance
	Factory                           // Created on demand by an abstract factory
)

// String returns the mode name.
func (m RegistrationMode) String() string {
	switch m {
	case Eager:
		return "eager"
	case Lazy:
		return "lazy"
	case Singleton:
		return "singleton"
	case Factory:
		return "factory"
	default:
		return "unknown"
	}
}

// Container is a keyed service container. It is the lookup service the
// autowire resolver probes aliases against.
type Container interface {
	Register(key string, constructor interface{}) error
	RegisterLazy(key string, constructor interface{}) error
	RegisterEager(key string, constructor interface{}) error
	RegisterSingleton(key string, instance interface{}) error
	RegisterAbstractFactory(f AbstractFactory)

	// Has reports whether key can be resolved, without constructing anything.
	Has(key string) bool
	// Get resolves key. It is Resolve under the lookup-service name.
	Get(key string) (interface{}, error)
	Resolve(key string) (interface{}, error)

	Registrations() []RegistrationInfo
	Close() error
}

// AbstractFactory creates instances for keys that have no registration.
// Factories are consulted in registration order; instances they create are
// kept and shared like singletons.
type AbstractFactory interface {
	CanCreate(c Container, key string) bool
	Create(c Container, key string) (interface{}, error)
}

// RegistrationInfo describes a registered component for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Initialized bool
}

// UnifiedContainer is the default Container implementation.
type UnifiedContainer struct {
	components map[string]*registration
	singletons map[string]interface{}
	created    map[string]interface{}
	factories  []AbstractFactory
	log        *logger.Logger
	mutex      sync.RWMutex
}

type registration struct {
	key         string
	constructor interface{}
	mode        RegistrationMode
	instance    interface{}
	initialized bool
	mutex       sync.Mutex
}

// NewContainer creates an empty container.
func NewContainer() *UnifiedContainer {
	return &UnifiedContainer{
		components: make(map[string]*registration),
		singletons: make(map[string]interface{}),
		created:    make(map[string]interface{}),
		log:        logger.Get(logger.ComponentContainer),
	}
}

// Register registers a constructor with lazy initialization.
func (c *UnifiedContainer) Register(key string, constructor interface{}) error {
	return c.RegisterLazy(key, constructor)
}

// RegisterLazy registers a constructor called on first resolve. A failed
// construction is not cached: the next resolve calls the constructor again.
func (c *UnifiedContainer) RegisterLazy(key string, constructor interface{}) error {
	if err := checkConstructor(constructor); err != nil {
		return fmt.Errorf("register %s: %w", key, err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.components[key] = &registration{key: key, constructor: constructor, mode: Lazy}
	return nil
}

// RegisterEager calls the constructor immediately and keeps the instance.
func (c *UnifiedContainer) RegisterEager(key string, constructor interface{}) error {
	if err := checkConstructor(constructor); err != nil {
		return fmt.Errorf("register %s: %w", key, err)
	}

	instance, err := c.callConstructor(constructor)
	if err != nil {
		return fmt.Errorf("failed to initialize eager component '%s': %w", key, err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.components[key] = &registration{
		key:         key,
		constructor: constructor,
		mode:        Eager,
		instance:    instance,
		initialized: true,
	}
	return nil
}

// RegisterSingleton registers a pre-created instance.
func (c *UnifiedContainer) RegisterSingleton(key string, instance interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.singletons[key] = instance
	return nil
}

// RegisterAbstractFactory appends f to the factories consulted for unknown keys.
func (c *UnifiedContainer) RegisterAbstractFactory(f AbstractFactory) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.factories = append(c.factories, f)
}

// Has reports whether key is registered or creatable by an abstract factory.
func (c *UnifiedContainer) Has(key string) bool {
	c.mutex.RLock()
	_, isSingleton := c.singletons[key]
	_, isComponent := c.components[key]
	_, isCreated := c.created[key]
	c.mutex.RUnlock()

	if isSingleton || isComponent || isCreated {
		return true
	}
	return c.factoryFor(key) != nil
}

// Get resolves key.
func (c *UnifiedContainer) Get(key string) (interface{}, error) {
	return c.Resolve(key)
}

// Resolve returns the instance registered under key: singletons first, then
// registered constructors, then instances created by abstract factories.
func (c *UnifiedContainer) Resolve(key string) (interface{}, error) {
	c.mutex.RLock()
	if singleton, exists := c.singletons[key]; exists {
		c.mutex.RUnlock()
		return singleton, nil
	}
	reg, exists := c.components[key]
	if !exists {
		if instance, ok := c.created[key]; ok {
			c.mutex.RUnlock()
			return instance, nil
		}
	}
	c.mutex.RUnlock()

	if exists {
		return c.resolveRegistration(reg)
	}
	return c.createFromFactory(key)
}

func (c *UnifiedContainer) resolveRegistration(reg *registration) (interface{}, error) {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()

	if reg.initialized {
		return reg.instance, nil
	}
	if reg.mode == Eager {
		return nil, fmt.Errorf("eager component not properly initialized: %s", reg.key)
	}

	instance, err := c.callConstructor(reg.constructor)
	if err != nil {
		c.log.Debug("Lazy component initialization failed", logger.Fields(
			logger.FieldComponent, reg.key,
			logger.FieldError, err.Error(),
		))
		return nil, fmt.Errorf("failed to initialize lazy component '%s': %w", reg.key, err)
	}

	reg.instance = instance
	reg.initialized = true
	c.log.Debug("Lazy component initialized", logger.Fields(logger.FieldComponent, reg.key))
	return instance, nil
}

// createFromFactory builds key with the first factory that accepts it. No
// lock is held while the factory runs, so factories may resolve other keys;
// when two callers race, the first stored instance wins.
func (c *UnifiedContainer) createFromFactory(key string) (interface{}, error) {
	f := c.factoryFor(key)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}

	instance, err := f.Create(c, key)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if existing, ok := c.created[key]; ok {
		return existing, nil
	}
	c.created[key] = instance
	c.log.Debug("Component created by abstract factory", logger.Fields(logger.FieldComponent, key))
	return instance, nil
}

func (c *UnifiedContainer) factoryFor(key string) AbstractFactory {
	c.mutex.RLock()
	factories := c.factories
	c.mutex.RUnlock()

	for _, f := range factories {
		if f.CanCreate(c, key) {
			return f
		}
	}
	return nil
}

var (
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	containerType = reflect.TypeOf((*Container)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
)

// checkConstructor accepts func() T, func(context.Context) T and
// func(Container) T, each optionally returning a trailing error.
func checkConstructor(constructor interface{}) error {
	fn := reflect.ValueOf(constructor)
	if fn.Kind() != reflect.Func {
		return fmt.Errorf("constructor must be a function")
	}
	ft := fn.Type()
	if ft.NumIn() > 1 || (ft.NumIn() == 1 && ft.In(0) != contextType && ft.In(0) != containerType) {
		return fmt.Errorf("constructor must take no arguments, a context.Context or a di.Container")
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return fmt.Errorf("constructor must return either (instance) or (instance, error)")
	}
	return nil
}

func (c *UnifiedContainer) callConstructor(constructor interface{}) (interface{}, error) {
	fn := reflect.ValueOf(constructor)
	var args []reflect.Value
	if fn.Type().NumIn() == 1 {
		if fn.Type().In(0) == contextType {
			args = []reflect.Value{reflect.ValueOf(context.Background())}
		} else {
			args = []reflect.Value{reflect.ValueOf(Container(c))}
		}
	}
	return handleConstructorResults(fn.Call(args))
}

func handleConstructorResults(results []reflect.Value) (interface{}, error) {
	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// Registrations returns all registered and factory-created components,
// sorted by key.
func (c *UnifiedContainer) Registrations() []RegistrationInfo {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make([]RegistrationInfo, 0, len(c.components)+len(c.singletons)+len(c.created))
	for key, reg := range c.components {
		reg.mutex.Lock()
		result = append(result, RegistrationInfo{Key: key, Mode: reg.mode, Initialized: reg.initialized})
		reg.mutex.Unlock()
	}
	for key := range c.singletons {
		result = append(result, RegistrationInfo{Key: key, Mode: Singleton, Initialized: true})
	}
	for key := range c.created {
		result = append(result, RegistrationInfo{Key: key, Mode: Factory, Initialized: true})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// Close closes constructed and factory-created instances implementing
// Close() error and returns the first failure. Singletons are left to whoever
// registered them.
func (c *UnifiedContainer) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var first error
	closeInstance := func(key string, instance interface{}) {
		closer, ok := instance.(interface{ Close() error })
		if !ok {
			return
		}
		if err := closer.Close(); err != nil {
			c.log.Warn("Failed to close component", logger.Fields(
				logger.FieldComponent, key,
				logger.FieldError, err.Error(),
			))
			if first == nil {
				first = fmt.Errorf("close %s: %w", key, err)
			}
		}
	}

	for key, reg := range c.components {
		if reg.initialized && reg.instance != nil {
			closeInstance(key, reg.instance)
		}
	}
	for key, instance := range c.created {
		closeInstance(key, instance)
	}
	return first
}
