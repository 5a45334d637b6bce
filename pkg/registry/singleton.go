package registry

import "sync"

// defaultEngine backs the process-wide singleton engine: lazily
// constructed, resettable, independent of any user-created Engine.
var (
	defaultMu     sync.RWMutex
	defaultEngine *Engine
)

// Default returns the process-wide singleton Engine, constructing it on
// first use.
func Default() *Engine {
	defaultMu.RLock()
	e := defaultEngine
	defaultMu.RUnlock()
	if e != nil {
		return e
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEngine == nil {
		defaultEngine = New()
	}
	return defaultEngine
}

// ResetDefault discards every binding and overload added to the singleton
// and replaces it with a fresh Engine carrying only the builtin
// overload defaults. It never affects user-created engines.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultEngine = New()
}
