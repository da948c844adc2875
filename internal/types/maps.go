package types

// NamedMap is an insertion-ordered name-to-value map. First insertion
// wins; Set reports whether the name was fresh so callers can turn
// collisions into diagnostics.
type NamedMap[V any] struct {
	order  []string
	byName map[string]V
}

func newNamedMap[V any]() *NamedMap[V] {
	return &NamedMap[V]{byName: make(map[string]V)}
}

// Set inserts v under name. It returns false, leaving the map untouched,
// when the name is already taken.
func (m *NamedMap[V]) Set(name string, v V) bool {
	if _, ok := m.byName[name]; ok {
		return false
	}
	m.byName[name] = v
	m.order = append(m.order, name)
	return true
}

// Replace overwrites an existing entry in place, preserving its position.
// Missing names are appended.
func (m *NamedMap[V]) Replace(name string, v V) {
	if _, ok := m.byName[name]; !ok {
		m.order = append(m.order, name)
	}
	m.byName[name] = v
}

func (m *NamedMap[V]) Get(name string) (V, bool) {
	v, ok := m.byName[name]
	return v, ok
}

func (m *NamedMap[V]) Has(name string) bool {
	_, ok := m.byName[name]
	return ok
}

func (m *NamedMap[V]) Len() int { return len(m.order) }

// Names returns insertion order. Callers must not modify it.
func (m *NamedMap[V]) Names() []string { return m.order }

// Values returns the values in insertion order.
func (m *NamedMap[V]) Values() []V {
	vals := make([]V, 0, len(m.order))
	for _, name := range m.order {
		vals = append(vals, m.byName[name])
	}
	return vals
}

// PropertyMap holds a model's properties in declaration order.
type PropertyMap = NamedMap[*ModelProperty]

func NewPropertyMap() *PropertyMap { return newNamedMap[*ModelProperty]() }

// OperationMap holds an interface's operations in declaration order.
type OperationMap = NamedMap[*Operation]

func NewOperationMap() *OperationMap { return newNamedMap[*Operation]() }

// VariantMap holds a named union's variants in declaration order.
type VariantMap = NamedMap[*UnionVariant]

func NewVariantMap() *VariantMap { return newNamedMap[*UnionVariant]() }

// MemberMap holds a namespace's checked members in checking order.
type MemberMap = NamedMap[Type]

func NewMemberMap() *MemberMap { return newNamedMap[Type]() }
