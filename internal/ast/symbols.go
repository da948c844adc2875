package ast

// Symbols annotate the tree the way go/ast carries Objects: the binder
// creates them, the checker consumes them. They live here because symbols
// and declaration nodes reference each other.

// SymbolKind classifies what a name is bound to.
type SymbolKind uint8

const (
	SymInvalid SymbolKind = iota
	// SymType is bound to a declaration node.
	SymType
	// SymDecorator is an external decorator function; its name carries
	// the '@' prefix.
	SymDecorator
	// SymUsing refers to a symbol imported by a using statement.
	SymUsing
)

func (k SymbolKind) String() string {
	switch k {
	case SymType:
		return "type"
	case SymDecorator:
		return "decorator"
	case SymUsing:
		return "using"
	default:
		return "invalid"
	}
}

// Symbol describes a named entity. Type symbols reference their
// declaration node; each declaration node references back exactly one
// symbol.
type Symbol struct {
	Kind SymbolKind
	Name string
	Decl Node
	// Exports is shared across all declarations of one merged namespace.
	Exports *SymbolTable
	// Target is the imported symbol for SymUsing.
	Target *Symbol
	// Duplicate marks a using symbol whose name another using re-imported.
	Duplicate bool
	// Value holds the callable handle of a decorator symbol. It is opaque
	// to the binder; the checker asserts its real type.
	Value any
	// Path is the originating module path for decorator symbols.
	Path string
}

// SymbolTable is an insertion-ordered name-to-symbol map that records but
// never overwrites duplicates: the first entry wins and all colliders are
// retained for later diagnostic emission.
type SymbolTable struct {
	order  []*Symbol
	byName map[string]*Symbol
	dups   map[*Symbol][]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		byName: make(map[string]*Symbol),
	}
}

// Set binds sym under its name. When the name is taken, the existing
// symbol stays authoritative and sym joins its duplicate set. The
// authoritative symbol is returned either way.
func (t *SymbolTable) Set(sym *Symbol) *Symbol {
	if existing, ok := t.byName[sym.Name]; ok {
		if existing == sym {
			return existing
		}
		if t.dups == nil {
			t.dups = make(map[*Symbol][]*Symbol)
		}
		t.dups[existing] = append(t.dups[existing], sym)
		return existing
	}
	t.byName[sym.Name] = sym
	t.order = append(t.order, sym)
	return sym
}

// Get returns the authoritative symbol for name.
func (t *SymbolTable) Get(name string) (*Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// Iter returns symbols in insertion order. Callers must not modify it.
func (t *SymbolTable) Iter() []*Symbol { return t.order }

func (t *SymbolTable) Len() int { return len(t.order) }

// DuplicatesOf returns the colliders recorded behind the authoritative
// symbol, in insertion order.
func (t *SymbolTable) DuplicatesOf(first *Symbol) []*Symbol {
	return t.dups[first]
}

// Duplicates enumerates every authoritative symbol that has colliders.
func (t *SymbolTable) Duplicates() map[*Symbol][]*Symbol { return t.dups }
