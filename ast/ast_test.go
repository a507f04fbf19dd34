package ast_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/titpetric/lessfront/ast"
	"github.com/titpetric/lessfront/span"
)

// rule builds ".box { color: red; }" as a Stylesheet for reuse across
// walk/serialization tests.
func rule() *ast.Stylesheet {
	colorIdent := &ast.Identifier{Sp: span.New(14, 17), Name: "red"}
	decl := ast.Declaration{
		Sp:    span.New(7, 17),
		Name:  "color",
		Value: ast.ValueList{ast.ValueComponentList{colorIdent}},
	}
	body := &ast.CurlyBlock{
		Sp:    span.New(5, 20),
		Items: []ast.BlockItem{&ast.DeclarationList{Sp: span.New(7, 18), Decls: []ast.Declaration{decl}}},
	}
	prelude := ast.SelectorList{ast.SelectorComponentList{&ast.SimpleSelector{Sp: span.New(0, 4), Text: ".box"}}}
	q := &ast.QualifiedRule{Sp: span.New(0, 20), Prelude: prelude, Body: body}
	return &ast.Stylesheet{Sp: span.New(0, 20), Items: []ast.TopItem{q}}
}

func TestSpanMerge(t *testing.T) {
	a := span.New(2, 5)
	b := span.New(0, 3)
	require.Equal(t, span.New(0, 5), a.Merge(b))
}

func TestSpanSlice(t *testing.T) {
	s := span.New(1, 4)
	require.Equal(t, "ell", s.Slice("hello"))
	require.Equal(t, 3, s.Len())
}

func TestWalkVisitsEveryRuleAndDeclaration(t *testing.T) {
	sheet := rule()

	var sawRule, sawDecl, sawIdent bool
	ast.Walk(sheet, ast.Visitor{
		QualifiedRule: func(r *ast.QualifiedRule) bool { sawRule = true; return true },
		Declaration:   func(d *ast.Declaration) bool { sawDecl = true; return true },
		ValueAtom: func(v ast.ValueAtom) bool {
			if _, ok := v.(*ast.Identifier); ok {
				sawIdent = true
			}
			return true
		},
	})

	require.True(t, sawRule)
	require.True(t, sawDecl)
	require.True(t, sawIdent)
}

func TestWalkStopsDescendingWhenHookReturnsFalse(t *testing.T) {
	sheet := rule()

	declSeen := false
	ast.Walk(sheet, ast.Visitor{
		QualifiedRule: func(r *ast.QualifiedRule) bool { return false },
		Declaration:   func(d *ast.Declaration) bool { declSeen = true; return true },
	})

	require.False(t, declSeen)
}

func TestWalkDescendsIntoPseudoFunctionParams(t *testing.T) {
	inner := ast.SelectorList{ast.SelectorComponentList{&ast.SimpleSelector{Sp: span.New(5, 7), Text: ".a"}}}
	not := &ast.PseudoFunction{Sp: span.New(0, 8), Name: "not", Params: inner}

	var sawInner bool
	ast.Walk(not, ast.Visitor{
		Selector: func(s ast.Selector) bool {
			if simple, ok := s.(*ast.SimpleSelector); ok && simple.Text == ".a" {
				sawInner = true
			}
			return true
		},
	})

	require.True(t, sawInner)
}

func TestTreeRoundTripsThroughJSON(t *testing.T) {
	sheet := rule()
	tree := ast.Tree(sheet)

	doc, err := json.Marshal(tree)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(doc, &decoded))
	require.Equal(t, "Stylesheet", decoded["kind"])

	spanObj, ok := decoded["span"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(0), spanObj["start"])
	require.Equal(t, float64(20), spanObj["end"])

	require.NoError(t, ast.ValidateJSONSchema(doc))
}

func TestTreeRoundTripsThroughCBOR(t *testing.T) {
	sheet := rule()
	tree := ast.Tree(sheet)

	var buf bytes.Buffer
	require.NoError(t, ast.WriteCBOR(&buf, sheet))

	var decoded map[string]any
	require.NoError(t, cbor.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "Stylesheet", decoded["kind"])

	// CBOR and JSON must describe the same tree: re-decode the JSON
	// form and diff the two, normalizing both through a JSON
	// marshal/unmarshal pass since CBOR decodes integers as uint64/
	// int64 while JSON decodes them as float64.
	jsonDoc, err := json.Marshal(tree)
	require.NoError(t, err)
	var viaJSON any
	require.NoError(t, json.Unmarshal(jsonDoc, &viaJSON))

	normalized, err := json.Marshal(decoded)
	require.NoError(t, err)
	var viaCBOR any
	require.NoError(t, json.Unmarshal(normalized, &viaCBOR))

	require.Empty(t, cmp.Diff(viaJSON, viaCBOR))
}

func TestTreeHandlesNilBlock(t *testing.T) {
	name := ast.AtKeyword{Sp: span.New(0, 7), Name: "import"}
	value := &ast.EscapedString{Sp: span.New(8, 21), Text: `"reset.less"`}
	atRule := &ast.AtRule{
		Sp:      span.New(0, 22),
		Name:    name,
		Prelude: ast.ValueList{ast.ValueComponentList{value}},
		Body:    nil,
	}

	tree := ast.Tree(atRule)
	require.Nil(t, tree["body"])
	require.Equal(t, "import", tree["name"])
}

func TestMixinCallTreeIncludesArguments(t *testing.T) {
	args := ast.ValueList{ast.ValueComponentList{&ast.NumberLiteral{Sp: span.New(6, 8), Text: "10", Unit: "px"}}}
	call := &ast.MixinCall{
		Sp:        span.New(0, 9),
		Name:      ast.SelectorComponentList{&ast.SimpleSelector{Sp: span.New(0, 5), Text: ".pad"}},
		Arguments: &args,
	}

	tree := ast.Tree(call)
	require.Equal(t, "MixinCall", tree["kind"])
	require.NotNil(t, tree["arguments"])
}
