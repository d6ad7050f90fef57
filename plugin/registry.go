package plugin

// Registry holds the modules available to one engine instance. It is
// built once by the constructor and injected wherever needed; there is
// no process-wide module map.
type Registry struct {
	modules []Module
}

// NewRegistry builds a registry over the given modules.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{modules: make([]Module, 0, len(modules))}
	for _, m := range modules {
		r.Add(m)
	}
	return r
}

// Add plugs in a new module.
func (r *Registry) Add(m Module) {
	r.modules = append(r.modules, m)
}

// Remove unplugs a module by name.
func (r *Registry) Remove(name string) bool {
	for i, m := range r.modules {
		if m.Name() == name {
			r.modules = append(r.modules[:i], r.modules[i+1:]...)
			return true
		}
	}
	return false
}

// Get retrieves a module by name, or nil.
func (r *Registry) Get(name string) Module {
	for _, m := range r.modules {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// Count returns the number of registered modules.
func (r *Registry) Count() int {
	return len(r.modules)
}

// Names lists registered module names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		names = append(names, m.Name())
	}
	return names
}

// Select returns the modules matching the requested ids, preserving
// registration order. An empty selection means all modules. Unknown
// ids are ignored: the caller validated the selection already.
func (r *Registry) Select(ids []string) []Module {
	if len(ids) == 0 {
		return append([]Module(nil), r.modules...)
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Module
	for _, m := range r.modules {
		if want[m.Name()] {
			out = append(out, m)
		}
	}
	return out
}
