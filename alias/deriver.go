package alias

import "github.com/kbukum/autowire/introspect"

// NamePrefix marks a parameter-name alias.
const NamePrefix = "$"

// Derive returns the ordered aliases for p, most specific first. The result
// is never empty and always ends with the bare "$name" alias.
func Derive(p introspect.Parameter) []string {
	named := NamePrefix + p.Name
	if p.DeclaredType == "" {
		return []string{named}
	}

	switch p.Kind {
	case introspect.KindClass:
		return []string{p.DeclaredType + " " + named, p.DeclaredType, named}
	case introspect.KindScalar:
		return []string{p.DeclaredType + " " + named, named}
	default:
		return []string{named}
	}
}
