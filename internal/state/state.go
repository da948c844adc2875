// Package state is the untyped side-channel between the checker and
// external decorator modules: per-library keyed maps and sets that stash
// metadata about types. The registry lives and dies with one program; no
// value checking is performed by contract.
package state

// Key is a process-unique token identifying one library's slot. Identity
// is pointer identity; the name only aids debugging.
type Key struct {
	name string
}

func NewKey(name string) *Key { return &Key{name: name} }

func (k *Key) String() string { return k.name }

// Map is key→(target→value) storage for one Key.
type Map struct {
	entries map[any]any
}

func (m *Map) Set(target, value any) { m.entries[target] = value }

func (m *Map) Get(target any) (any, bool) {
	v, ok := m.entries[target]
	return v, ok
}

func (m *Map) Has(target any) bool {
	_, ok := m.entries[target]
	return ok
}

func (m *Map) Delete(target any) { delete(m.entries, target) }

func (m *Map) Len() int { return len(m.entries) }

// Set is key→set-of-targets storage for one Key.
type Set struct {
	entries map[any]struct{}
}

func (s *Set) Add(target any) { s.entries[target] = struct{}{} }

func (s *Set) Has(target any) bool {
	_, ok := s.entries[target]
	return ok
}

func (s *Set) Delete(target any) { delete(s.entries, target) }

func (s *Set) Len() int { return len(s.entries) }

// Registry owns every key's containers. First-time reads materialize an
// empty container; repeated reads return the same one.
type Registry struct {
	maps map[*Key]*Map
	sets map[*Key]*Set
}

func NewRegistry() *Registry {
	return &Registry{
		maps: make(map[*Key]*Map),
		sets: make(map[*Key]*Set),
	}
}

// StateMap returns the map for key, creating it on first access.
func (r *Registry) StateMap(key *Key) *Map {
	m, ok := r.maps[key]
	if !ok {
		m = &Map{entries: make(map[any]any)}
		r.maps[key] = m
	}
	return m
}

// StateSet returns the set for key, creating it on first access.
func (r *Registry) StateSet(key *Key) *Set {
	s, ok := r.sets[key]
	if !ok {
		s = &Set{entries: make(map[any]struct{})}
		r.sets[key] = s
	}
	return s
}
