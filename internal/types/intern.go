package types

// InternPool guarantees referential identity for literal types: two
// occurrences of the same payload yield the same pointer. One pool lives
// per program.
type InternPool struct {
	strings  map[string]*StringLiteral
	numbers  map[float64]*NumberLiteral
	booleans [2]*BooleanLiteral
}

func NewInternPool() *InternPool {
	return &InternPool{
		strings: make(map[string]*StringLiteral),
		numbers: make(map[float64]*NumberLiteral),
		booleans: [2]*BooleanLiteral{
			{Value: false},
			{Value: true},
		},
	}
}

func (p *InternPool) String(v string) *StringLiteral {
	if lit, ok := p.strings[v]; ok {
		return lit
	}
	lit := &StringLiteral{Value: v}
	p.strings[v] = lit
	return lit
}

// Number interns by numeric value: `1`, `1.0`, and `1e0` are one type.
// The first occurrence's spelling is retained.
func (p *InternPool) Number(v float64, text string) *NumberLiteral {
	if lit, ok := p.numbers[v]; ok {
		return lit
	}
	lit := &NumberLiteral{Value: v, Text: text}
	p.numbers[v] = lit
	return lit
}

func (p *InternPool) Boolean(v bool) *BooleanLiteral {
	if v {
		return p.booleans[1]
	}
	return p.booleans[0]
}
