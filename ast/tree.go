package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Tree converts any Node into a generic, JSON/CBOR-friendly
// representation: a map carrying a "kind" discriminator, a "span"
// object, and kind-specific children. It exists so a consumer that
// does not share this package's Go types (a test harness, a schema
// validator, a process on the other end of a pipe) can inspect a
// parsed document without depending on the Go struct layout.
func Tree(node Node) map[string]any {
	if node == nil {
		return nil
	}
	return nodeTree(node)
}

func spanMap(n Node) map[string]any {
	sp := n.Span()
	return map[string]any{"start": sp.Start, "end": sp.End}
}

func nodeTree(node Node) map[string]any {
	switch n := node.(type) {
	case *Stylesheet:
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			items[i] = nodeTree(item)
		}
		return map[string]any{"kind": "Stylesheet", "span": spanMap(n), "items": items}

	case *QualifiedRule:
		return map[string]any{
			"kind":    "QualifiedRule",
			"span":    spanMap(n),
			"prelude": selectorListTree(n.Prelude),
			"body":    nodeTreeOrNil(n.Body),
		}

	case *AtRule:
		return map[string]any{
			"kind":    "AtRule",
			"span":    spanMap(n),
			"name":    n.Name.Name,
			"prelude": valueListTree(n.Prelude),
			"body":    nodeTreeOrNil(n.Body),
		}

	case *VariableDefinition:
		return map[string]any{
			"kind":  "VariableDefinition",
			"span":  spanMap(n),
			"name":  n.Name.Name,
			"value": valueListTree(n.Value),
		}

	case *MapVariableDefinition:
		props := make([]any, len(n.Props))
		for i, d := range n.Props {
			props[i] = nodeTree(&d)
		}
		return map[string]any{
			"kind":  "MapVariableDefinition",
			"span":  spanMap(n),
			"name":  n.Name.Name,
			"props": props,
		}

	case *MixinDefinition:
		params := make([]any, len(n.Parameters))
		for i, p := range n.Parameters {
			entry := map[string]any{
				"kind": "Parameter",
				"span": map[string]any{"start": p.Sp.Start, "end": p.Sp.End},
				"name": p.Name.Name,
			}
			if p.Default != nil {
				entry["default"] = valueListTree(p.Default)
			}
			params[i] = entry
		}
		return map[string]any{
			"kind":       "MixinDefinition",
			"span":       spanMap(n),
			"name":       simpleSelectorText(n.Name),
			"parameters": params,
			"body":       nodeTreeOrNil(n.Body),
		}

	case *CurlyBlock:
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			items[i] = nodeTree(item)
		}
		return map[string]any{"kind": "CurlyBlock", "span": spanMap(n), "items": items}

	case *DeclarationList:
		decls := make([]any, len(n.Decls))
		for i, d := range n.Decls {
			decls[i] = nodeTree(&d)
		}
		return map[string]any{"kind": "DeclarationList", "span": spanMap(n), "declarations": decls}

	case *Declaration:
		return map[string]any{
			"kind":  "Declaration",
			"span":  spanMap(n),
			"name":  n.Name,
			"value": valueListTree(n.Value),
		}

	case *ParentSelector:
		return map[string]any{"kind": "ParentSelector", "span": spanMap(n)}

	case *SimpleSelector:
		return map[string]any{"kind": "SimpleSelector", "span": spanMap(n), "text": n.Text}

	case *PseudoElement:
		return map[string]any{"kind": "PseudoElement", "span": spanMap(n), "name": n.Name}

	case *PseudoFunction:
		return map[string]any{
			"kind":   "PseudoFunction",
			"span":   spanMap(n),
			"name":   n.Name,
			"params": selectorListTree(n.Params),
		}

	case *Identifier:
		return map[string]any{"kind": "Identifier", "span": spanMap(n), "name": n.Name}

	case *PreservedToken:
		return map[string]any{"kind": "PreservedToken", "span": spanMap(n), "text": n.Text}

	case *ImportantMarker:
		return map[string]any{"kind": "ImportantMarker", "span": spanMap(n), "name": n.Name}

	case *BinaryExpression:
		return map[string]any{
			"kind":  "BinaryExpression",
			"span":  spanMap(n),
			"left":  nodeTree(n.Left),
			"op":    n.Op.String(),
			"right": nodeTree(n.Right),
		}

	case *FunctionExpression:
		return map[string]any{
			"kind":      "FunctionExpression",
			"span":      spanMap(n),
			"name":      n.Name,
			"arguments": valueListTree(n.Arguments),
		}

	case *MixinCall:
		names := make([]any, len(n.Name))
		for i, sel := range n.Name {
			names[i] = nodeTree(sel)
		}
		entry := map[string]any{"kind": "MixinCall", "span": spanMap(n), "name": names}
		if n.Arguments != nil {
			entry["arguments"] = valueListTree(*n.Arguments)
		}
		return entry

	case *NumberLiteral:
		return map[string]any{"kind": "NumberLiteral", "span": spanMap(n), "text": n.Text, "unit": n.Unit}

	case *PlainVariable:
		return map[string]any{"kind": "PlainVariable", "span": spanMap(n), "name": n.Name}

	case *MapVariable:
		return map[string]any{"kind": "MapVariable", "span": spanMap(n), "name": n.Name, "prop": n.Prop}

	case *ColorLiteral:
		return map[string]any{"kind": "ColorLiteral", "span": spanMap(n), "text": n.Text}

	case *ParenthesizedExpression:
		return map[string]any{"kind": "ParenthesizedExpression", "span": spanMap(n), "inner": nodeTree(n.Inner)}

	case *EscapedString:
		return map[string]any{"kind": "EscapedString", "span": spanMap(n), "text": n.Text}

	default:
		return map[string]any{"kind": fmt.Sprintf("%T", node), "span": spanMap(node)}
	}
}

func nodeTreeOrNil(n Node) any {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *CurlyBlock:
		if v == nil {
			return nil
		}
	}
	return nodeTree(n)
}

func simpleSelectorText(s *SimpleSelector) string {
	if s == nil {
		return ""
	}
	return s.Text
}

func selectorListTree(list SelectorList) []any {
	out := make([]any, len(list))
	for i, components := range list {
		row := make([]any, len(components))
		for j, sel := range components {
			row[j] = nodeTree(sel)
		}
		out[i] = row
	}
	return out
}

func valueListTree(list ValueList) []any {
	out := make([]any, len(list))
	for i, components := range list {
		row := make([]any, len(components))
		for j, atom := range components {
			row[j] = nodeTree(atom)
		}
		out[i] = row
	}
	return out
}

// WriteCBOR writes node's generic tree (see Tree) to w as CBOR, a
// more compact alternative to JSON for the same external-inspection
// use case.
func WriteCBOR(w io.Writer, node Node) error {
	enc := cbor.NewEncoder(w)
	return enc.Encode(Tree(node))
}

// schemaDocument is the packaged JSON Schema for the shape Tree
// produces: the root object must have a "kind" string and a "span"
// object with integer "start"/"end" fields. Nested nodes are not
// checked.
const schemaDocument = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["kind", "span"],
  "properties": {
    "kind": {"type": "string"},
    "span": {
      "type": "object",
      "required": ["start", "end"],
      "properties": {
        "start": {"type": "integer", "minimum": 0},
        "end": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

var compiledSchema *jsonschema.Schema

func compileSchema() (*jsonschema.Schema, error) {
	if compiledSchema != nil {
		return compiledSchema, nil
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("tree.json", bytes.NewReader([]byte(schemaDocument))); err != nil {
		return nil, err
	}
	schema, err := compiler.Compile("tree.json")
	if err != nil {
		return nil, err
	}
	compiledSchema = schema
	return schema, nil
}

// ValidateJSONSchema validates a previously serialized tree document
// (the JSON encoding of a Tree call) against the packaged schema. It
// is a contract check for downstream consumers of the serialized
// shape, not part of parsing itself.
func ValidateJSONSchema(doc []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("ast: compiling tree schema: %w", err)
	}
	var value any
	if err := json.Unmarshal(doc, &value); err != nil {
		return fmt.Errorf("ast: decoding tree document: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("ast: tree document does not match schema: %w", err)
	}
	return nil
}
