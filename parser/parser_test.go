package parser_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titpetric/lessfront/ast"
	"github.com/titpetric/lessfront/parser"
	"github.com/titpetric/lessfront/span"
)

func parse(t *testing.T, source string) *ast.Stylesheet {
	t.Helper()
	sheet, err := parser.New(source).Parse()
	require.NoError(t, err)
	return sheet
}

func TestVariableDefinitionWithArithmeticExpression(t *testing.T) {
	sheet := parse(t, "@c: 1 + 2;")
	require.Len(t, sheet.Items, 1)

	def, ok := sheet.Items[0].(*ast.VariableDefinition)
	require.True(t, ok)
	require.Equal(t, "c", def.Name.Name)
	require.Len(t, def.Value, 1)
	require.Len(t, def.Value[0], 1)

	bin, ok := def.Value[0][0].(*ast.BinaryExpression)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, bin.Op)

	left, ok := bin.Left.(*ast.NumberLiteral)
	require.True(t, ok)
	require.Equal(t, "1", left.Text)

	right, ok := bin.Right.(*ast.NumberLiteral)
	require.True(t, ok)
	require.Equal(t, "2", right.Text)
}

func TestQualifiedRuleWithCommaSeparatedSelectorList(t *testing.T) {
	sheet := parse(t, ".a, .b { color: red; }")
	require.Len(t, sheet.Items, 1)

	rule, ok := sheet.Items[0].(*ast.QualifiedRule)
	require.True(t, ok)
	require.Len(t, rule.Prelude, 2)

	for i, want := range []string{".a", ".b"} {
		require.Len(t, rule.Prelude[i], 1)
		simple, ok := rule.Prelude[i][0].(*ast.SimpleSelector)
		require.True(t, ok)
		require.Equal(t, want, simple.Text)
	}

	require.Len(t, rule.Body.Items, 1)
	decls, ok := rule.Body.Items[0].(*ast.DeclarationList)
	require.True(t, ok)
	require.Len(t, decls.Decls, 1)
	require.Equal(t, "color", decls.Decls[0].Name)
}

func TestDeclarationValueKeepsBareVariableReferenceAsExpression(t *testing.T) {
	sheet := parse(t, ".x { width: @a; }")
	rule := sheet.Items[0].(*ast.QualifiedRule)
	decls := rule.Body.Items[0].(*ast.DeclarationList)
	decl := decls.Decls[0]

	require.Len(t, decl.Value, 1)
	require.Len(t, decl.Value[0], 1)

	v, ok := decl.Value[0][0].(ast.VariableReference)
	require.True(t, ok)
	plain, ok := v.(*ast.PlainVariable)
	require.True(t, ok)
	require.Equal(t, "a", plain.Name)
}

func TestMixinDefinitionWithDefaultedParameter(t *testing.T) {
	sheet := parse(t, ".mixin(@a; @b: 1) { width: @a; }")
	require.Len(t, sheet.Items, 1)

	def, ok := sheet.Items[0].(*ast.MixinDefinition)
	require.True(t, ok)
	require.Equal(t, ".mixin", def.Name.Text)
	require.Len(t, def.Parameters, 2)

	require.Equal(t, "a", def.Parameters[0].Name.Name)
	require.Nil(t, def.Parameters[0].Default)

	require.Equal(t, "b", def.Parameters[1].Name.Name)
	require.NotNil(t, def.Parameters[1].Default)
	require.Len(t, def.Parameters[1].Default, 1)
	require.Len(t, def.Parameters[1].Default[0], 1)
	num, ok := def.Parameters[1].Default[0][0].(*ast.NumberLiteral)
	require.True(t, ok)
	require.Equal(t, "1", num.Text)
}

func TestQualifiedRuleBodyContainsMixinCall(t *testing.T) {
	sheet := parse(t, ".a { .mixin(); }")
	rule := sheet.Items[0].(*ast.QualifiedRule)
	require.Len(t, rule.Body.Items, 1)

	call, ok := rule.Body.Items[0].(*ast.MixinCall)
	require.True(t, ok)
	require.Len(t, call.Name, 1)
	simple, ok := call.Name[0].(*ast.SimpleSelector)
	require.True(t, ok)
	require.Equal(t, ".mixin", simple.Text)
	require.NotNil(t, call.Arguments)
	require.Empty(t, *call.Arguments)
}

func TestAmpersandLedNestedQualifiedRule(t *testing.T) {
	sheet := parse(t, ".a { &:hover { color: red; } }")
	outer := sheet.Items[0].(*ast.QualifiedRule)
	require.Len(t, outer.Body.Items, 1)

	nested, ok := outer.Body.Items[0].(*ast.QualifiedRule)
	require.True(t, ok)
	require.Len(t, nested.Prelude, 1)
	require.Len(t, nested.Prelude[0], 2)

	_, ok = nested.Prelude[0][0].(*ast.ParentSelector)
	require.True(t, ok)
	pseudo, ok := nested.Prelude[0][1].(*ast.PseudoElement)
	require.True(t, ok)
	require.Equal(t, "hover", pseudo.Name)

	require.Len(t, nested.Body.Items, 1)
	decls := nested.Body.Items[0].(*ast.DeclarationList)
	require.Equal(t, "color", decls.Decls[0].Name)
}

func TestBareTagNestedQualifiedRuleRollsBackFromDeclaration(t *testing.T) {
	sheet := parse(t, ".a { div { color: red; } }")
	outer := sheet.Items[0].(*ast.QualifiedRule)
	require.Len(t, outer.Body.Items, 1)

	nested, ok := outer.Body.Items[0].(*ast.QualifiedRule)
	require.True(t, ok)
	require.Len(t, nested.Prelude, 1)
	require.Len(t, nested.Prelude[0], 1)

	simple, ok := nested.Prelude[0][0].(*ast.SimpleSelector)
	require.True(t, ok)
	require.Equal(t, "div", simple.Text)

	require.Len(t, nested.Body.Items, 1)
	decls := nested.Body.Items[0].(*ast.DeclarationList)
	require.Equal(t, "color", decls.Decls[0].Name)
}

func TestAtRuleWithNestedQualifiedRule(t *testing.T) {
	sheet := parse(t, "@media (min-width: 100px) { .a { color: red; } }")
	require.Len(t, sheet.Items, 1)

	at, ok := sheet.Items[0].(*ast.AtRule)
	require.True(t, ok)
	require.Equal(t, "media", at.Name.Name)
	require.NotNil(t, at.Body)
	require.Len(t, at.Body.Items, 1)

	nested, ok := at.Body.Items[0].(*ast.QualifiedRule)
	require.True(t, ok)
	require.Len(t, nested.Prelude, 1)
	require.Len(t, nested.Body.Items, 1)
}

// seedScenarios collects the six sources above for the shared
// span-containment and serialization round-trip checks below.
var seedScenarios = []string{
	"@c: 1 + 2;",
	".a, .b { color: red; }",
	".x { width: @a; }",
	".mixin(@a; @b: 1) { width: @a; }",
	".a { .mixin(); }",
	"@media (min-width: 100px) { .a { color: red; } }",
}

func TestSeedScenarioSpansNestWithinParent(t *testing.T) {
	for _, src := range seedScenarios {
		t.Run(src, func(t *testing.T) {
			sheet := parse(t, src)
			checkSpansNest(t, sheet.Sp, sheet, len(src))
		})
	}
}

// checkSpansNest walks node with ast.Walk, asserting every visited
// node's span lies within [0, length] and within root.
func checkSpansNest(t *testing.T, root span.Span, node ast.Node, length int) {
	t.Helper()
	require.GreaterOrEqual(t, root.Start, 0)
	require.LessOrEqual(t, root.End, length)

	ast.Walk(node, ast.Visitor{
		QualifiedRule: func(n *ast.QualifiedRule) bool { return assertWithin(t, root, n.Sp, length) },
		AtRule:        func(n *ast.AtRule) bool { return assertWithin(t, root, n.Sp, length) },
		VariableDefinition: func(n *ast.VariableDefinition) bool {
			return assertWithin(t, root, n.Sp, length)
		},
		MapVariable:     func(n *ast.MapVariableDefinition) bool { return assertWithin(t, root, n.Sp, length) },
		MixinDefinition: func(n *ast.MixinDefinition) bool { return assertWithin(t, root, n.Sp, length) },
		CurlyBlock:      func(n *ast.CurlyBlock) bool { return assertWithin(t, root, n.Sp, length) },
		Declaration:     func(n *ast.Declaration) bool { return assertWithin(t, root, n.Sp, length) },
		MixinCall:       func(n *ast.MixinCall) bool { return assertWithin(t, root, n.Sp, length) },
		Selector:        func(n ast.Selector) bool { return assertWithin(t, root, n.Span(), length) },
		ValueAtom:       func(n ast.ValueAtom) bool { return assertWithin(t, root, n.Span(), length) },
	})
}

func assertWithin(t *testing.T, root span.Span, child span.Span, length int) bool {
	t.Helper()
	require.GreaterOrEqual(t, child.Start, root.Start)
	require.LessOrEqual(t, child.End, root.End)
	require.LessOrEqual(t, child.End, length)
	return true
}

func TestSeedScenarioTreeValidatesAgainstJSONSchema(t *testing.T) {
	for _, src := range seedScenarios {
		t.Run(src, func(t *testing.T) {
			sheet := parse(t, src)
			doc, err := json.Marshal(ast.Tree(sheet))
			require.NoError(t, err)
			require.NoError(t, ast.ValidateJSONSchema(doc))
		})
	}
}
