package treelate

import (
	"encoding/json"
	"fmt"
)

// IgnoreProp is the property key that opts an element and its entire
// subtree out of translation.
const IgnoreProp = "ignore"

// Node is one node in a renderable UI tree. The variant set is closed:
// Text, *Element and Opaque are the only implementations.
type Node interface {
	isNode()
}

// Text is a translatable string leaf.
type Text string

func (Text) isNode() {}

// Element is a structural node with a tag identity, properties and
// children. Elements are rebuilt, never mutated in place, so pointer
// identity distinguishes an untouched subtree from a rebuilt one.
type Element struct {
	Tag      string
	Props    map[string]any
	Children []Node
}

func (*Element) isNode() {}

// Ignored reports whether the element carries the opt-out marker. The
// marker is presence-based: any value under the "ignore" key counts.
func (e *Element) Ignored() bool {
	_, ok := e.Props[IgnoreProp]
	return ok
}

// Opaque wraps a value the translator does not understand. It is carried
// through translation unchanged.
type Opaque struct {
	Value any
}

func (Opaque) isNode() {}

// elementJSON is the wire shape of an Element.
type elementJSON struct {
	Tag      string         `json:"tag"`
	Props    map[string]any `json:"props,omitempty"`
	Children []rawNode      `json:"children,omitempty"`
}

// rawNode defers child decoding until the variant is known.
type rawNode struct {
	json.RawMessage
}

// DecodeNode parses a JSON document into a Node. Strings become Text,
// objects with a "tag" key become Elements, everything else is Opaque.
func DecodeNode(data []byte) (Node, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding node: %w", err)
	}
	return decodeRaw(raw)
}

func decodeRaw(raw json.RawMessage) (Node, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Text(s), nil
	}

	var el elementJSON
	if err := json.Unmarshal(raw, &el); err == nil && el.Tag != "" {
		children := make([]Node, 0, len(el.Children))
		for _, c := range el.Children {
			child, err := decodeRaw(c.RawMessage)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		node := &Element{Tag: el.Tag, Props: el.Props, Children: children}
		if len(children) == 0 {
			node.Children = nil
		}
		return node, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decoding node: %w", err)
	}
	return Opaque{Value: v}, nil
}

// EncodeNode serializes a Node back to JSON in the same shape DecodeNode
// accepts.
func EncodeNode(n Node) ([]byte, error) {
	v, err := encodeValue(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func encodeValue(n Node) (any, error) {
	switch node := n.(type) {
	case nil:
		return nil, nil
	case Text:
		return string(node), nil
	case *Element:
		out := map[string]any{"tag": node.Tag}
		if len(node.Props) > 0 {
			out["props"] = node.Props
		}
		if len(node.Children) > 0 {
			children := make([]any, len(node.Children))
			for i, c := range node.Children {
				v, err := encodeValue(c)
				if err != nil {
					return nil, err
				}
				children[i] = v
			}
			out["children"] = children
		}
		return out, nil
	case Opaque:
		return node.Value, nil
	default:
		return nil, fmt.Errorf("encoding node: unknown variant %T", n)
	}
}

// Walk visits every node in the tree depth-first, calling fn with each
// node and its depth. Returning false from fn skips the node's subtree.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	if el, ok := n.(*Element); ok {
		for _, c := range el.Children {
			walk(c, depth+1, fn)
		}
	}
}
