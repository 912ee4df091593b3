package di

// KeyNames lists the container keys under which bootstrap registers the
// autowire infrastructure itself.
type KeyNames struct {
	Logger     string
	Catalog    string
	AliasCache string
	Resolver   string
	Container  string
	Registry   string
}

// Names contains the default infrastructure keys. The configuration tree is
// registered under the configured config alias instead.
var Names = KeyNames{
	Logger:     "logger",
	Catalog:    "catalog",
	AliasCache: "alias_cache",
	Resolver:   "resolver",
	Container:  "container",
	Registry:   "component_registry",
}
