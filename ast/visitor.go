package ast

// Visitor receives a callback for every node Walk encounters. Each
// hook returns false to stop descending into that node's children;
// a nil hook is treated as always descending. This mirrors the
// default-recursive-with-overridable-hooks shape of the visitor
// pattern this was grounded on, expressed as a plain struct of
// function fields rather than an interface, since Go has no default
// method bodies to override.
type Visitor struct {
	Stylesheet         func(*Stylesheet) bool
	QualifiedRule      func(*QualifiedRule) bool
	AtRule             func(*AtRule) bool
	VariableDefinition func(*VariableDefinition) bool
	MapVariable        func(*MapVariableDefinition) bool
	MixinDefinition    func(*MixinDefinition) bool
	CurlyBlock         func(*CurlyBlock) bool
	Declaration        func(*Declaration) bool
	MixinCall          func(*MixinCall) bool
	Selector           func(Selector) bool
	ValueAtom          func(ValueAtom) bool
}

func callOrDefault[T any](hook func(T) bool, node T) bool {
	if hook == nil {
		return true
	}
	return hook(node)
}

// Walk recursively visits node and everything reachable from it,
// invoking the matching Visitor hook for each kind encountered.
func Walk(node Node, v Visitor) {
	switch n := node.(type) {
	case *Stylesheet:
		if !callOrDefault(v.Stylesheet, n) {
			return
		}
		for _, item := range n.Items {
			Walk(item, v)
		}
	case *QualifiedRule:
		if !callOrDefault(v.QualifiedRule, n) {
			return
		}
		walkSelectorList(n.Prelude, v)
		if n.Body != nil {
			Walk(n.Body, v)
		}
	case *AtRule:
		if !callOrDefault(v.AtRule, n) {
			return
		}
		walkValueList(n.Prelude, v)
		if n.Body != nil {
			Walk(n.Body, v)
		}
	case *VariableDefinition:
		if !callOrDefault(v.VariableDefinition, n) {
			return
		}
		walkValueList(n.Value, v)
	case *MapVariableDefinition:
		if !callOrDefault(v.MapVariable, n) {
			return
		}
		for i := range n.Props {
			Walk(&n.Props[i], v)
		}
	case *MixinDefinition:
		if !callOrDefault(v.MixinDefinition, n) {
			return
		}
		if n.Name != nil {
			Walk(n.Name, v)
		}
		for _, param := range n.Parameters {
			walkValueList(param.Default, v)
		}
		if n.Body != nil {
			Walk(n.Body, v)
		}
	case *CurlyBlock:
		if !callOrDefault(v.CurlyBlock, n) {
			return
		}
		for _, item := range n.Items {
			Walk(item, v)
		}
	case *DeclarationList:
		for i := range n.Decls {
			Walk(&n.Decls[i], v)
		}
	case *Declaration:
		if !callOrDefault(v.Declaration, n) {
			return
		}
		walkValueList(n.Value, v)
	case *MixinCall:
		if !callOrDefault(v.MixinCall, n) {
			return
		}
		for _, sel := range n.Name {
			Walk(sel, v)
		}
		if n.Arguments != nil {
			walkValueList(*n.Arguments, v)
		}
	case *ParenthesizedExpression:
		if !callOrDefault(v.ValueAtom, ValueAtom(n)) {
			return
		}
		Walk(n.Inner, v)
	case *BinaryExpression:
		if !callOrDefault(v.ValueAtom, ValueAtom(n)) {
			return
		}
		Walk(n.Left, v)
		Walk(n.Right, v)
	case *FunctionExpression:
		if !callOrDefault(v.ValueAtom, ValueAtom(n)) {
			return
		}
		walkValueList(n.Arguments, v)
	case ValueAtom:
		callOrDefault(v.ValueAtom, n)
	case Selector:
		if ps, ok := n.(*PseudoFunction); ok {
			if !callOrDefault(v.Selector, n) {
				return
			}
			walkSelectorList(ps.Params, v)
			return
		}
		callOrDefault(v.Selector, n)
	}
}

func walkSelectorList(list SelectorList, v Visitor) {
	for _, components := range list {
		for _, sel := range components {
			Walk(sel, v)
		}
	}
}

func walkValueList(list ValueList, v Visitor) {
	for _, components := range list {
		for _, atom := range components {
			Walk(atom, v)
		}
	}
}
