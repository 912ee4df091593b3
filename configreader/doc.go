// Package configreader exposes values of the nested configuration tree as
// container factories.
//
// The tree is whatever the container serves under the config alias
// ("config" unless changed with SetDefaultConfigAlias). A Reader descends it
// key by key:
//
//	_ = c.Register("$smtpHost", configreader.ReadConfig("mail", "smtp", "host").Factory())
//
// An AliasArray reads a list of container keys from the tree and resolves
// each of them:
//
//	_ = c.Register("$handlers", configreader.InjectAliasArray("events", "handlers").Factory())
package configreader
