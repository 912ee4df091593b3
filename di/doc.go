// Package di provides the keyed service container that autowire resolves
// constructor parameters against.
//
// It supports eager, lazy and singleton registrations, abstract factories
// for keys nobody registered explicitly, and type-safe generic resolution.
//
// # Registration
//
//	c := di.NewContainer()
//	_ = c.RegisterSingleton("string $sender", "noreply@acme.io")
//	_ = c.Register("github.com/acme/mail.Transport", func() (*mail.SMTP, error) {
//	    return mail.Dial(addr)
//	})
//
// # Resolution
//
//	if c.Has(key) {
//	    v, err := c.Get(key)
//	}
//	smtp := di.MustResolve[*mail.SMTP](c, "github.com/acme/mail.Transport")
package di
