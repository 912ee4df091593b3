package di

import "fmt"

// MustResolve resolves a component with type safety and panics on error.
//
//	cache := di.MustResolve[*alias.Cache](c, di.Names.AliasCache)
func MustResolve[T any](c Container, key string) T {
	result, err := Resolve[T](c, key)
	if err != nil {
		panic(err.Error())
	}
	return result
}

// Resolve resolves a component with type safety.
//
//	mailer, err := di.Resolve[*mail.Mailer](c, "github.com/acme/mail.Mailer")
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: component %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// TryResolve resolves an optional component; false means it is missing or
// of another type.
func TryResolve[T any](c Container, key string) (T, bool) {
	result, err := Resolve[T](c, key)
	return result, err == nil
}
