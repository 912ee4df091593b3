package configreader

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/kbukum/autowire"
	"github.com/kbukum/autowire/di"
	"github.com/kbukum/autowire/errors"
)

// DefaultConfigAlias is the initial container key of the configuration tree.
const DefaultConfigAlias = "config"

var (
	defaultAlias   = DefaultConfigAlias
	defaultAliasMu sync.RWMutex
)

// SetDefaultConfigAlias changes the alias used by readers created afterwards
// with ReadConfig or InjectAliasArray. Existing readers keep their alias.
func SetDefaultConfigAlias(alias string) {
	defaultAliasMu.Lock()
	defer defaultAliasMu.Unlock()
	defaultAlias = alias
}

// CurrentDefaultConfigAlias returns the alias new readers use.
func CurrentDefaultConfigAlias() string {
	defaultAliasMu.RLock()
	defer defaultAliasMu.RUnlock()
	return defaultAlias
}

// Reader reads the value under a key path of the configuration tree.
type Reader struct {
	alias string
	keys  []string
}

// ReadConfig creates a Reader for keys under the default config alias.
func ReadConfig(keys ...string) *Reader {
	return NewReader(CurrentDefaultConfigAlias(), keys)
}

// NewReader creates a Reader for keys under alias. No keys reads the whole tree.
func NewReader(alias string, keys []string) *Reader {
	return &Reader{alias: alias, keys: append([]string(nil), keys...)}
}

// Alias returns the config alias the reader reads from.
func (r *Reader) Alias() string { return r.alias }

// Keys returns the key path.
func (r *Reader) Keys() []string { return append([]string(nil), r.keys...) }

// Read fetches the tree from lookup and descends the key path. A missing
// tree, a missing key or a non-container value on the way fails with
// MISSING_CONFIG naming the whole path.
func (r *Reader) Read(lookup autowire.Lookup) (interface{}, error) {
	if !lookup.Has(r.alias) {
		return nil, errors.MissingConfig(r.keys).
			WithCause(fmt.Errorf("config alias %q is not available", r.alias))
	}
	value, err := lookup.Get(r.alias)
	if err != nil {
		return nil, errors.MissingConfig(r.keys).WithCause(err)
	}

	for _, key := range r.keys {
		next, ok := child(value, key)
		if !ok {
			return nil, errors.MissingConfig(r.keys)
		}
		value = next
	}
	return value, nil
}

// Factory returns a container constructor reading the value.
func (r *Reader) Factory() func(di.Container) (interface{}, error) {
	return func(c di.Container) (interface{}, error) {
		return r.Read(c)
	}
}

// child returns node[key]. Maps with string-kinded keys are indexed by key;
// slices and arrays by the decimal index in key.
func child(node interface{}, key string) (interface{}, bool) {
	switch n := node.(type) {
	case map[string]interface{}:
		v, ok := n[key]
		return v, ok
	case map[interface{}]interface{}:
		v, ok := n[key]
		return v, ok
	}

	v := reflect.ValueOf(node)
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		item := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !item.IsValid() {
			return nil, false
		}
		return item.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= v.Len() {
			return nil, false
		}
		return v.Index(i).Interface(), true
	default:
		return nil, false
	}
}
