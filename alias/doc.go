// Package alias derives and caches the lookup keys ("aliases") under which a
// constructor parameter's value may be registered in a container.
//
// For a parameter named name, the derived aliases are, in priority order:
//
//	class parameter:   "<Type> $name", "<Type>", "$name"
//	scalar parameter:  "<Type> $name", "$name"
//	untyped parameter: "$name"
//
// A Cache computes the ordered alias map of a class once, keeps it in memory
// and rewrites the whole table to an optional backing Store after every
// insertion, so later processes skip introspection entirely.
package alias
