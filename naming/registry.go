package naming

import "sort"

// Registry maps symbol keys to the names generated code prints for them.
// Entries are only ever added; a later Put for the same key replaces the
// printable name. A Registry is not safe for concurrent writers.
type Registry struct {
	names map[string]string
}

func NewRegistry() *Registry {
	return &Registry{names: map[string]string{}}
}

func (r *Registry) Put(key, printable string) { r.names[key] = printable }

func (r *Registry) Get(key string) (string, bool) {
	s, ok := r.names[key]
	return s, ok
}

// Printable makes a Registry usable as a MATLAB renamer.
func (r *Registry) Printable(key string) (string, bool) { return r.Get(key) }

// Merge copies every entry of other into r.
func (r *Registry) Merge(other *Registry) {
	for k, v := range other.names {
		r.names[k] = v
	}
}

func (r *Registry) Len() int { return len(r.names) }

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.names))
	for k := range r.names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
