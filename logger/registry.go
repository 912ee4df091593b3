package logger

import (
	"sync"
)

// Component names used by autowire's own packages.
const (
	ComponentAliasCache = "alias-cache"
	ComponentResolver   = "resolver"
	ComponentContainer  = "container"
	ComponentStore      = "alias-store"
)

var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get retrieves a named logger. If the name is not registered it returns the
// global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults seeds the registry with component loggers derived from base.
func RegisterDefaults(base *Logger) {
	for _, name := range []string{ComponentAliasCache, ComponentResolver, ComponentContainer, ComponentStore} {
		Register(name, base.WithComponent(name))
	}
}
