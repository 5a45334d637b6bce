package registry

import "github.com/sandrolain/tagexpr/pkg/xerrors"

// Bind upserts a single (name, value) binding.
func (e *Engine) Bind(name string, value interface{}) {
	e.bindMu.Lock()
	defer e.bindMu.Unlock()
	e.bindings[name] = value
}

// BindAll upserts every (name, value) pair in values.
func (e *Engine) BindAll(values map[string]interface{}) {
	e.bindMu.Lock()
	defer e.bindMu.Unlock()
	for name, value := range values {
		e.bindings[name] = value
	}
}

// Unbind removes a single binding by name. Unbinding a name that is not
// bound is a no-op.
func (e *Engine) Unbind(name string) {
	e.bindMu.Lock()
	defer e.bindMu.Unlock()
	delete(e.bindings, name)
}

// UnbindAll removes every binding named in names.
func (e *Engine) UnbindAll(names []string) {
	e.bindMu.Lock()
	defer e.bindMu.Unlock()
	for _, name := range names {
		delete(e.bindings, name)
	}
}

// Lookup resolves an identifier against the Binding Table. Returns an
// ErrUnknownIdentifier EvalError if name has no binding.
func (e *Engine) Lookup(name string) (interface{}, error) {
	e.bindMu.RLock()
	v, ok := e.bindings[name]
	e.bindMu.RUnlock()
	if !ok {
		return nil, xerrors.NewEvalError(xerrors.ErrUnknownIdentifier, "unknown identifier: "+name, -1)
	}
	return v, nil
}
