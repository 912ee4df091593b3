package introspect

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/kbukum/autowire/errors"
)

// StructTag is the field tag naming (or skipping, with "-") a struct parameter.
const StructTag = "autowire"

// constructor is one registered, instantiable class.
type constructor struct {
	identity string
	params   []Parameter
	types    []reflect.Type
	build    func(args []reflect.Value) (interface{}, error)
}

// Catalog maps class identities to their constructors. It is the reflection
// source behind the alias cache and the instantiator used by the resolver.
type Catalog struct {
	entries map[string]*constructor
	mu      sync.RWMutex
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*constructor)}
}

// Register adds a constructor function under identity. fn must return (T) or
// (T, error); names gives the parameter names in declaration order.
//
//	catalog.Register("acme.Mailer", NewMailer, "transport", "sender")
func (c *Catalog) Register(identity string, fn interface{}, names ...string) error {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return fmt.Errorf("introspect: constructor for %s must be a function, got %T", identity, fn)
	}
	ft := v.Type()
	if ft.IsVariadic() {
		return fmt.Errorf("introspect: constructor for %s must not be variadic", identity)
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return fmt.Errorf("introspect: constructor for %s must return (instance) or (instance, error)", identity)
	}
	if len(names) != ft.NumIn() {
		return fmt.Errorf("introspect: constructor for %s takes %d parameters, %d names given",
			identity, ft.NumIn(), len(names))
	}

	types := make([]reflect.Type, ft.NumIn())
	for i := range types {
		types[i] = ft.In(i)
	}

	return c.add(identity, names, types, func(args []reflect.Value) (interface{}, error) {
		return handleResults(v.Call(args))
	})
}

// RegisterStruct adds a struct type under identity. Its exported fields, in
// declaration order, are the constructor parameters; instantiation returns a
// pointer to a new struct with those fields assigned.
func (c *Catalog) RegisterStruct(identity string, sample interface{}) error {
	t := reflect.TypeOf(sample)
	if t == nil {
		return fmt.Errorf("introspect: struct sample for %s is nil", identity)
	}
	return c.registerStructType(identity, t)
}

// RegisterType registers struct T under IdentityOf[T] and returns the identity.
func RegisterType[T any](c *Catalog) (string, error) {
	identity := IdentityOf[T]()
	return identity, c.registerStructType(identity, reflect.TypeOf((*T)(nil)).Elem())
}

func (c *Catalog) registerStructType(identity string, t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("introspect: %s is not a struct type", TypeName(t))
	}

	var (
		names   []string
		types   []reflect.Type
		indexes []int
	)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get(StructTag)
		if name == "-" {
			continue
		}
		if name == "" {
			name = lowerFirst(f.Name)
		}
		names = append(names, name)
		types = append(types, f.Type)
		indexes = append(indexes, i)
	}

	return c.add(identity, names, types, func(args []reflect.Value) (interface{}, error) {
		ptr := reflect.New(t)
		for i, idx := range indexes {
			ptr.Elem().Field(idx).Set(args[i])
		}
		return ptr.Interface(), nil
	})
}

func (c *Catalog) add(identity string, names []string, types []reflect.Type, build func([]reflect.Value) (interface{}, error)) error {
	if identity == "" {
		return fmt.Errorf("introspect: class identity is required")
	}

	seen := make(map[string]bool, len(names))
	params := make([]Parameter, len(names))
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("introspect: parameter %d of %s has no name", i, identity)
		}
		if seen[name] {
			return fmt.Errorf("introspect: duplicate parameter %s in %s", name, identity)
		}
		seen[name] = true
		params[i] = DescribeType(name, types[i])
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[identity]; exists {
		return fmt.Errorf("introspect: class %s already registered", identity)
	}
	c.entries[identity] = &constructor{
		identity: identity,
		params:   params,
		types:    types,
		build:    build,
	}
	return nil
}

// Has reports whether identity is registered.
func (c *Catalog) Has(identity string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[identity]
	return ok
}

// Identities returns all registered identities, sorted.
func (c *Catalog) Identities() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DescribeConstructorParameters returns the parameters of identity's
// constructor in declaration order.
func (c *Catalog) DescribeConstructorParameters(identity string) ([]Parameter, error) {
	ctor, err := c.lookup(identity)
	if err != nil {
		return nil, err
	}
	return append([]Parameter(nil), ctor.params...), nil
}

// Instantiate invokes identity's constructor with args in declaration order.
func (c *Catalog) Instantiate(identity string, args []interface{}) (instance interface{}, err error) {
	ctor, err := c.lookup(identity)
	if err != nil {
		return nil, err
	}
	if len(args) != len(ctor.types) {
		return nil, errors.ConstructionFailed(identity,
			fmt.Errorf("expected %d arguments, got %d", len(ctor.types), len(args)))
	}

	values := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, ok := argumentValue(arg, ctor.types[i])
		if !ok {
			return nil, errors.ParameterTypeMismatch(identity, ctor.params[i].Name,
				TypeName(ctor.types[i]), fmt.Sprintf("%T", arg))
		}
		values[i] = v
	}

	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = errors.ConstructionFailed(identity, fmt.Errorf("constructor panicked: %v", r))
		}
	}()

	instance, err = ctor.build(values)
	if err != nil {
		return nil, errors.ConstructionFailed(identity, err)
	}
	return instance, nil
}

func (c *Catalog) lookup(identity string) (*constructor, error) {
	c.mu.RLock()
	ctor, ok := c.entries[identity]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.ReflectionFailed(identity, fmt.Errorf("class %s is not registered", identity))
	}
	return ctor, nil
}

func argumentValue(arg interface{}, t reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		if isNillable(t) {
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	return v, true
}

func handleResults(results []reflect.Value) (interface{}, error) {
	if len(results) == 2 {
		if err := results[1].Interface(); err != nil {
			return nil, err.(error)
		}
	}
	return results[0].Interface(), nil
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

var _ Describer = (*Catalog)(nil)
