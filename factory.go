package autowire

import (
	"context"
	"strings"

	"github.com/kbukum/autowire/di"
)

// Known reports whether a class identity is registered.
// *introspect.Catalog implements it.
type Known interface {
	Has(identity string) bool
}

// Factory returns a container constructor that auto-wires identity from the
// container it is resolved in.
//
//	_ = c.Register("acme.Mailer", resolver.Factory("acme.Mailer"))
func (r *Resolver) Factory(identity string) func(di.Container) (interface{}, error) {
	return func(c di.Container) (interface{}, error) {
		return r.Construct(context.Background(), c, identity)
	}
}

// AbstractFactory lets a container auto-wire every class known to the
// catalog without registering each one. Keys are class identities, or the
// pointer spelling "*<identity>" used by pointer-typed parameters.
type AbstractFactory struct {
	resolver *Resolver
	known    Known
}

var _ di.AbstractFactory = (*AbstractFactory)(nil)

// NewAbstractFactory creates an abstract factory for classes in known.
func NewAbstractFactory(r *Resolver, known Known) *AbstractFactory {
	return &AbstractFactory{resolver: r, known: known}
}

// CanCreate reports whether key names a known class.
func (f *AbstractFactory) CanCreate(_ di.Container, key string) bool {
	return f.known.Has(strings.TrimPrefix(key, "*"))
}

// Create auto-wires the class named by key. The pointer spelling resolves
// the plain identity so both keys share one instance.
func (f *AbstractFactory) Create(c di.Container, key string) (interface{}, error) {
	if identity, ok := strings.CutPrefix(key, "*"); ok {
		return c.Get(identity)
	}
	return f.resolver.Construct(context.Background(), c, key)
}
