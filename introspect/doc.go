// Package introspect describes constructor parameters of registered classes.
//
// Go cannot resolve a type from its name, nor recover parameter names from a
// function value, so every constructible class is registered into a Catalog
// once at startup, either as a constructor function with explicit parameter
// names or as a struct whose exported fields are the parameters:
//
//	catalog := introspect.NewCatalog()
//	_ = catalog.Register("acme.Mailer", mail.NewMailer, "transport", "sender")
//	id, _ := introspect.RegisterType[mail.Queue](catalog)
//
// Declared types are classified as class (named struct or interface, or a
// pointer to one), scalar (anything else) or untyped (any).
package introspect
