package configreader

import (
	"fmt"

	"github.com/kbukum/autowire"
	"github.com/kbukum/autowire/di"
	"github.com/kbukum/autowire/errors"
)

// AliasArray resolves every container key listed under a config key path.
type AliasArray struct {
	reader *Reader
}

// InjectAliasArray creates an AliasArray for keys under the default config alias.
func InjectAliasArray(keys ...string) *AliasArray {
	return &AliasArray{reader: ReadConfig(keys...)}
}

// NewAliasArray creates an AliasArray over reader.
func NewAliasArray(reader *Reader) *AliasArray {
	return &AliasArray{reader: reader}
}

// Aliases reads the list of container keys.
func (a *AliasArray) Aliases(lookup autowire.Lookup) ([]string, error) {
	value, err := a.reader.Read(lookup)
	if err != nil {
		return nil, err
	}

	switch list := value.(type) {
	case []string:
		return append([]string(nil), list...), nil
	case []interface{}:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errors.InvalidConfig(a.reader.keys,
					fmt.Sprintf("item %d is %T, expected a string", i, item))
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, errors.InvalidConfig(a.reader.keys,
			fmt.Sprintf("value is %T, expected a list of aliases", value))
	}
}

// Resolve gets each listed key from lookup, in list order.
func (a *AliasArray) Resolve(lookup autowire.Lookup) ([]interface{}, error) {
	aliases, err := a.Aliases(lookup)
	if err != nil {
		return nil, err
	}

	out := make([]interface{}, len(aliases))
	for i, alias := range aliases {
		v, err := lookup.Get(alias)
		if err != nil {
			return nil, fmt.Errorf("configreader: resolve alias %q: %w", alias, err)
		}
		out[i] = v
	}
	return out, nil
}

// Factory returns a container constructor resolving the list.
func (a *AliasArray) Factory() func(di.Container) (interface{}, error) {
	return func(c di.Container) (interface{}, error) {
		return a.Resolve(c)
	}
}
