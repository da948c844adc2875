package checker

import (
	"fmt"

	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/types"
)

// instanceInfo identifies one template instantiation while its body is
// being realized.
type instanceInfo struct {
	key  string
	args []types.Type
}

// checkModel realizes a model declaration. For templates, inst carries
// the argument identity; the instance is registered before the body is
// populated so recursive references land on the in-progress type.
func (c *Checker) checkModel(n *ast.ModelNode, inst *instanceInfo) *types.Model {
	if inst == nil {
		if t, ok := c.memo[n]; ok {
			m, _ := t.(*types.Model)
			return m
		}
	}

	ns := c.enclosingNamespaceType(n)
	m := &types.Model{
		TypeBase:   types.TypeBase{Node: n, Namespace: ns},
		Name:       n.Name.Value,
		Properties: types.NewPropertyMap(),
		Decorators: n.Decorators,
	}
	if inst == nil {
		c.memo[n] = m
		c.register(ns, m.Name, m)
	} else {
		m.TemplateArgs = inst.args
		m.TemplateNode = n
		c.instances[n][inst.key] = m
	}

	circular := c.modelHasCircularBase(n)
	if circular {
		c.errAt(diag.SemRecursiveBase, n.Name, fmt.Sprintf(
			"Model type '%s' recursively references itself as a base type.", n.Name.Value))
	}

	if !circular && n.Extends != nil {
		if base := c.checkExpr(n.Extends, n.Extends); base != nil {
			if bm, ok := base.(*types.Model); ok {
				m.BaseModel = bm
			} else {
				c.errAt(diag.SemInvalidBase, n.Extends,
					fmt.Sprintf("models can only extend other models, not %s", base.TypeKind()))
			}
		}
	}

	if !circular && n.IsExpr != nil {
		if src := c.checkExpr(n.IsExpr, n.IsExpr); src != nil {
			if sm, ok := src.(*types.Model); ok {
				// `is` clones the source: its decorators run against this
				// model's identity, its properties keep their provenance,
				// and its base chain carries over.
				m.BaseModel = sm.BaseModel
				decs := make([]*ast.DecoratorNode, 0, len(sm.Decorators)+len(n.Decorators))
				decs = append(decs, sm.Decorators...)
				decs = append(decs, n.Decorators...)
				m.Decorators = decs
				for _, sp := range sm.Properties.Values() {
					m.Properties.Set(sp.Name, c.cloneProperty(sp, m))
				}
			} else {
				c.errAt(diag.SemInvalidBase, n.IsExpr,
					fmt.Sprintf("model is source must be a model, not %s", src.TypeKind()))
			}
		}
	}

	c.checkModelBody(m, n.Body)

	if inst != nil || len(n.TemplateParams) == 0 {
		c.applyDecorators(m, m.Decorators)
		for _, p := range m.Properties.Values() {
			if p.SourceProperty == nil && len(p.Decorators) > 0 {
				c.applyDecorators(p, p.Decorators)
			}
		}
	}
	return m
}

// checkModelBody fills a model (declared or anonymous) from its body
// items, detecting duplicates against spreads and the base chain.
func (c *Checker) checkModelBody(m *types.Model, body []ast.Node) {
	for _, item := range body {
		switch it := item.(type) {
		case *ast.ModelPropertyNode:
			p := c.checkProperty(m, it)
			if p == nil {
				continue
			}
			c.addProperty(m, p, it)

		case *ast.ModelSpreadNode:
			t := c.checkExpr(it.Target, it)
			if t == nil {
				continue
			}
			sm, ok := t.(*types.Model)
			if !ok {
				c.errAt(diag.SemSpreadNonModel, it.Target,
					fmt.Sprintf("cannot spread %s, only model types", t.TypeKind()))
				continue
			}
			for _, sp := range sm.Properties.Values() {
				c.addProperty(m, c.cloneProperty(sp, m), it)
			}
		}
	}
}

// addProperty inserts p, reporting base-chain shadowing and intra-model
// duplicates at the offending item.
func (c *Checker) addProperty(m *types.Model, p *types.ModelProperty, at ast.Node) {
	if base := baseWithProperty(m.BaseModel, p.Name); base != nil {
		c.errAt(diag.SemDuplicateProperty, at,
			fmt.Sprintf("Model already has an inherited property named %q.", p.Name))
		return
	}
	if !m.Properties.Set(p.Name, p) {
		c.errAt(diag.SemDuplicateProperty, at,
			fmt.Sprintf("Model already has a property named %q.", p.Name))
	}
}

func baseWithProperty(base *types.Model, name string) *types.Model {
	for cur := base; cur != nil; cur = cur.BaseModel {
		if cur.Properties.Has(name) {
			return cur
		}
	}
	return nil
}

func (c *Checker) checkProperty(m *types.Model, n *ast.ModelPropertyNode) *types.ModelProperty {
	name := propertyName(n.Name)
	if name == "" {
		return nil
	}
	p := &types.ModelProperty{
		TypeBase:   types.TypeBase{Node: n, Namespace: m.Namespace},
		Name:       name,
		Optional:   n.Optional,
		Model:      m,
		Decorators: n.Decorators,
	}
	p.Type = c.checkExpr(n.Value, n.Value)

	if n.Default != nil {
		if !n.Optional {
			c.errAt(diag.SemDefaultOnRequired, n.Default,
				"Cannot use default with non optional properties.")
		} else if def := c.checkExpr(n.Default, n.Default); def != nil {
			p.Default = def
			if ok, want := defaultAssignable(p.Type, def); !ok {
				c.errAt(diag.SemDefaultTypeMismatch, n.Default,
					fmt.Sprintf("Default must be %s.", want))
			}
		}
	}
	return p
}

// cloneProperty copies a property into m, chaining provenance so the
// original declaration's decoration stays reachable.
func (c *Checker) cloneProperty(src *types.ModelProperty, m *types.Model) *types.ModelProperty {
	return &types.ModelProperty{
		TypeBase:       types.TypeBase{Node: src.Node, Namespace: m.Namespace},
		Name:           src.Name,
		Type:           src.Type,
		Optional:       src.Optional,
		Default:        src.Default,
		Model:          m,
		SourceProperty: src,
		Decorators:     src.Decorators,
	}
}

// defaultAssignable checks a default literal against the declared type.
// The second result names the expected shape for the diagnostic.
func defaultAssignable(declared, def types.Type) (bool, string) {
	switch d := declared.(type) {
	case *types.Intrinsic:
		switch {
		case numericIntrinsics[d.Name]:
			_, ok := def.(*types.NumberLiteral)
			return ok, "a number"
		case d.Name == "string":
			_, ok := def.(*types.StringLiteral)
			return ok, "a string"
		case d.Name == "boolean":
			_, ok := def.(*types.BooleanLiteral)
			return ok, "a boolean"
		}
		return true, ""
	case *types.Union:
		for _, opt := range d.Options {
			if ok, _ := defaultAssignable(opt, def); ok {
				return true, ""
			}
		}
		return false, "assignable to one of the union options"
	case *types.StringLiteral, *types.NumberLiteral, *types.BooleanLiteral:
		return declared == def, fmt.Sprintf("the literal %s", describeLiteral(declared))
	default:
		return true, ""
	}
}

func describeLiteral(t types.Type) string {
	switch v := t.(type) {
	case *types.StringLiteral:
		return fmt.Sprintf("%q", v.Value)
	case *types.NumberLiteral:
		return v.Text
	case *types.BooleanLiteral:
		return fmt.Sprintf("%t", v.Value)
	default:
		return t.TypeKind().String()
	}
}

func propertyName(n ast.Node) string {
	switch v := n.(type) {
	case *ast.IdentifierNode:
		if v.Flags&ast.FlagSynthetic != 0 {
			return ""
		}
		return v.Value
	case *ast.StringLiteralNode:
		return v.Value
	default:
		return ""
	}
}

// modelHasCircularBase walks the syntactic extends/is chain; re-entering
// the starting declaration truncates the chain.
func (c *Checker) modelHasCircularBase(n *ast.ModelNode) bool {
	return c.walkBases(n, n, map[*ast.ModelNode]bool{n: true})
}

func (c *Checker) walkBases(start, cur *ast.ModelNode, visited map[*ast.ModelNode]bool) bool {
	for _, e := range []ast.Expr{cur.Extends, cur.IsExpr} {
		if e == nil {
			continue
		}
		decl := c.baseDeclOf(e, cur)
		if decl == nil {
			continue
		}
		if decl == start {
			return true
		}
		if visited[decl] {
			continue
		}
		visited[decl] = true
		if c.walkBases(start, decl, visited) {
			return true
		}
	}
	return false
}

func (c *Checker) baseDeclOf(e ast.Expr, at ast.Node) *ast.ModelNode {
	ref, ok := e.(*ast.ReferenceNode)
	if !ok {
		return nil
	}
	sym := c.resolveTargetSymbol(ref.Target, at)
	if sym == nil {
		return nil
	}
	if sym.Kind == ast.SymUsing {
		if sym.Duplicate {
			return nil
		}
		sym = sym.Target
	}
	m, _ := sym.Decl.(*ast.ModelNode)
	return m
}

// --- interfaces --------------------------------------------------------

func (c *Checker) checkInterface(n *ast.InterfaceNode, inst *instanceInfo) *types.Interface {
	if inst == nil {
		if t, ok := c.memo[n]; ok {
			i, _ := t.(*types.Interface)
			return i
		}
	}

	ns := c.enclosingNamespaceType(n)
	iface := &types.Interface{
		TypeBase:   types.TypeBase{Node: n, Namespace: ns},
		Name:       n.Name.Value,
		Operations: types.NewOperationMap(),
		Decorators: n.Decorators,
	}
	if inst == nil {
		c.memo[n] = iface
		c.register(ns, iface.Name, iface)
	} else {
		iface.TemplateArgs = inst.args
		iface.TemplateNode = n
		c.instances[n][inst.key] = iface
	}

	for _, mix := range n.Mixes {
		t := c.checkExpr(mix, mix)
		if t == nil {
			continue
		}
		mixed, ok := t.(*types.Interface)
		if !ok {
			c.errAt(diag.SemMixesNonInterface, mix,
				fmt.Sprintf("interfaces can only mix other interfaces, not %s", t.TypeKind()))
			continue
		}
		iface.Mixes = append(iface.Mixes, mixed)
		for _, op := range mixed.Operations.Values() {
			copied := &types.Operation{
				TypeBase:   types.TypeBase{Node: op.Node, Namespace: ns},
				Name:       op.Name,
				Parameters: op.Parameters,
				ReturnType: op.ReturnType,
				Interface:  iface,
				Decorators: op.Decorators,
			}
			if !iface.Operations.Set(op.Name, copied) {
				c.errAt(diag.SemDuplicateProperty, mix,
					fmt.Sprintf("Interface already has an operation named %q.", op.Name))
			}
		}
	}

	for _, opNode := range n.Operations {
		op := c.checkOperation(opNode, iface)
		if op == nil {
			continue
		}
		if !iface.Operations.Set(op.Name, op) {
			c.errAt(diag.SemDuplicateProperty, opNode,
				fmt.Sprintf("Interface already has an operation named %q.", op.Name))
		}
	}

	if inst != nil || len(n.TemplateParams) == 0 {
		c.applyDecorators(iface, iface.Decorators)
	}
	return iface
}

// checkOperation realizes one operation. Interface members are owned by
// iface; namespace-level operations register into their namespace.
func (c *Checker) checkOperation(n *ast.OperationNode, iface *types.Interface) *types.Operation {
	if iface == nil {
		if t, ok := c.memo[n]; ok {
			op, _ := t.(*types.Operation)
			return op
		}
	}
	if n.Name.Flags&ast.FlagSynthetic != 0 {
		return nil
	}

	ns := c.enclosingNamespaceType(n)
	op := &types.Operation{
		TypeBase:   types.TypeBase{Node: n, Namespace: ns},
		Name:       n.Name.Value,
		Interface:  iface,
		Decorators: n.Decorators,
	}
	if iface == nil {
		c.memo[n] = op
		c.register(ns, op.Name, op)
	}

	params := &types.Model{
		TypeBase:   types.TypeBase{Node: n.Parameters, Namespace: ns},
		Properties: types.NewPropertyMap(),
	}
	if n.Parameters != nil {
		c.checkModelBody(params, n.Parameters.Body)
	}
	for _, p := range params.Properties.Values() {
		if p.SourceProperty == nil && len(p.Decorators) > 0 {
			c.applyDecorators(p, p.Decorators)
		}
	}
	op.Parameters = params

	if n.ReturnType != nil {
		op.ReturnType = c.checkExpr(n.ReturnType, n.ReturnType)
	}

	c.applyDecorators(op, op.Decorators)
	return op
}

// --- unions and enums ---------------------------------------------------

func (c *Checker) checkUnion(n *ast.UnionNode, inst *instanceInfo) *types.Union {
	if inst == nil {
		if t, ok := c.memo[n]; ok {
			u, _ := t.(*types.Union)
			return u
		}
	}

	ns := c.enclosingNamespaceType(n)
	u := &types.Union{
		TypeBase:   types.TypeBase{Node: n, Namespace: ns},
		Name:       n.Name.Value,
		Variants:   types.NewVariantMap(),
		Decorators: n.Decorators,
	}
	if inst == nil {
		c.memo[n] = u
		c.register(ns, u.Name, u)
	} else {
		u.TemplateArgs = inst.args
		u.TemplateNode = n
		c.instances[n][inst.key] = u
	}

	for _, vn := range n.Variants {
		name := propertyName(vn.Name)
		if name == "" {
			continue
		}
		v := &types.UnionVariant{
			TypeBase:   types.TypeBase{Node: vn, Namespace: ns},
			Name:       name,
			Union:      u,
			Decorators: vn.Decorators,
		}
		v.Type = c.checkExpr(vn.Value, vn.Value)
		if !u.Variants.Set(name, v) {
			c.errAt(diag.SemDuplicateProperty, vn,
				fmt.Sprintf("Union already has a variant named %q.", name))
			continue
		}
		if v.Type != nil {
			u.Options = append(u.Options, v.Type)
		}
	}

	if inst != nil || len(n.TemplateParams) == 0 {
		c.applyDecorators(u, u.Decorators)
	}
	return u
}

func (c *Checker) checkEnum(n *ast.EnumNode) *types.Enum {
	if t, ok := c.memo[n]; ok {
		e, _ := t.(*types.Enum)
		return e
	}

	ns := c.enclosingNamespaceType(n)
	e := &types.Enum{
		TypeBase:   types.TypeBase{Node: n, Namespace: ns},
		Name:       n.Name.Value,
		Decorators: n.Decorators,
	}
	c.memo[n] = e
	c.register(ns, e.Name, e)

	seen := make(map[string]bool)
	for _, mn := range n.Members {
		name := propertyName(mn.Name)
		if name == "" {
			continue
		}
		if seen[name] {
			c.errAt(diag.SemDuplicateProperty, mn,
				fmt.Sprintf("Enum already has a member named %q.", name))
			continue
		}
		seen[name] = true

		member := &types.EnumMember{
			TypeBase:   types.TypeBase{Node: mn, Namespace: ns},
			Name:       name,
			Enum:       e,
			Decorators: mn.Decorators,
		}
		if mn.Value != nil {
			v := c.checkExpr(mn.Value, mn.Value)
			switch v.(type) {
			case *types.StringLiteral, *types.NumberLiteral:
				member.Value = v
			case nil:
			default:
				c.errAt(diag.SemInvalidEnumValue, mn.Value,
					"Enum member value must be a string or numeric literal.")
			}
		}
		e.Members = append(e.Members, member)
	}

	c.applyDecorators(e, e.Decorators)
	for _, member := range e.Members {
		if len(member.Decorators) > 0 {
			c.applyDecorators(member, member.Decorators)
		}
	}
	return e
}

// checkAlias resolves an alias to its value's type. Aliases introduce no
// identity of their own.
func (c *Checker) checkAlias(n *ast.AliasNode, inst *instanceInfo) types.Type {
	if inst == nil {
		if t, ok := c.memo[n]; ok {
			return t
		}
		if c.inProgress[n] {
			c.errAt(diag.SemCircularTemplateInstance, n.Name,
				fmt.Sprintf("Alias %q circularly references itself.", n.Name.Value))
			return nil
		}
		c.inProgress[n] = true
		defer delete(c.inProgress, n)
	}

	t := c.checkExpr(n.Value, n.Value)
	if inst == nil {
		c.memo[n] = t
	}
	return t
}
