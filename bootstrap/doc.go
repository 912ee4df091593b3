// Package bootstrap assembles an autowire application.
//
// New builds the catalog, the alias cache over the configured store, the
// resolver and a container whose abstract factory auto-wires any catalogued
// class. The configuration tree is served under the config alias so
// configreader factories can read from it.
//
//	cfg, err := bootstrap.LoadConfig("billing")
//	app, err := bootstrap.New(cfg, bootstrap.WithCatalog(catalog))
//	if err := app.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Stop(ctx)
//
//	svc, err := app.Container.Get(introspect.IdentityOf[InvoiceService]())
package bootstrap
