package introspect

import (
	"reflect"
)

// Kind classifies a constructor parameter's declared type.
type Kind int

const (
	KindUntyped Kind = iota // no declared type (any / interface{})
	KindClass               // named struct or interface, or a pointer to one
	KindScalar              // builtin kinds, named scalars, slices, maps, ...
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindScalar:
		return "scalar"
	default:
		return "untyped"
	}
}

// Parameter is the static metadata of one constructor parameter.
type Parameter struct {
	Name         string `json:"name"`
	DeclaredType string `json:"declared_type,omitempty"`
	Kind         Kind   `json:"kind"`
}

// Describer reports the ordered constructor parameters of a class identity.
type Describer interface {
	DescribeConstructorParameters(identity string) ([]Parameter, error)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// DescribeType builds the Parameter for a parameter named name of type t.
func DescribeType(name string, t reflect.Type) Parameter {
	switch {
	case t == nil || isUntyped(t):
		return Parameter{Name: name, Kind: KindUntyped}
	case isClass(t):
		return Parameter{Name: name, DeclaredType: TypeName(t), Kind: KindClass}
	default:
		return Parameter{Name: name, DeclaredType: TypeName(t), Kind: KindScalar}
	}
}

// TypeName returns the fully qualified name of t: "<pkgpath>.<Name>" for
// named types, prefixed with "*" per pointer level, and the Go spelling for
// everything else.
//
//	*github.com/acme/mail.Transport
//	time.Duration
//	[]string
func TypeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "*" + TypeName(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// IdentityFor returns the class identity of t, ignoring pointer indirection.
func IdentityFor(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return TypeName(t)
}

// IdentityOf returns the class identity of T.
func IdentityOf[T any]() string {
	return IdentityFor(reflect.TypeOf((*T)(nil)).Elem())
}

func isUntyped(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0 && t.Name() == ""
}

func isClass(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return false
	}
	return t.Kind() == reflect.Struct || t.Kind() == reflect.Interface
}

func isNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}
