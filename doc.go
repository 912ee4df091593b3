// Package autowire constructs registered classes by resolving each
// constructor parameter from a lookup service, trying the parameter's
// derived aliases in priority order.
//
// A class is registered once in an introspect.Catalog. Its alias map is
// derived on first use, cached per class and persisted, so a restarted
// process reuses it without introspecting again:
//
//	catalog := introspect.NewCatalog()
//	_ = catalog.Register("acme.Mailer", mail.NewMailer, "transport", "sender")
//
//	cache := alias.NewCache(catalog, alias.WithStore(alias.NewFileStore(path)))
//	_ = cache.Start(ctx)
//	resolver := autowire.NewResolver(cache, catalog)
//
//	c := di.NewContainer()
//	_ = c.RegisterSingleton("string $sender", "noreply@acme.io")
//	_ = c.RegisterSingleton("acme.Transport", smtp)
//	mailer, err := resolver.Construct(ctx, c, "acme.Mailer")
//
// The first alias the lookup reports as available wins; a parameter with no
// available alias fails with NO_PARAMETER_MATCH naming class and parameter,
// and nothing is instantiated.
package autowire
