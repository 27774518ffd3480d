package treelate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// IgnoredTags contains HTML tags whose content should not be translated.
// Parsing marks these elements with the opt-out property.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// documentTag is the synthetic tag used for the HTML document root.
const documentTag = "#document"

// FromHTML parses an HTML document into a Node tree. Text nodes become
// Text leaves, elements become Elements with their attributes as props,
// and anything else (comments, doctype) becomes Opaque. Elements with an
// ignored tag or a data-no-translate attribute receive the opt-out
// marker.
func FromHTML(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &TranslationError{Message: "parsing HTML", Cause: err}
	}
	if len(doc.Nodes) == 0 {
		return nil, &TranslationError{Message: "parsing HTML: empty document"}
	}
	return fromHTMLNode(doc.Nodes[0]), nil
}

func fromHTMLNode(n *html.Node) Node {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.DocumentNode, html.ElementNode:
		tag := n.Data
		if n.Type == html.DocumentNode {
			tag = documentTag
		}

		var props map[string]any
		for _, attr := range n.Attr {
			if props == nil {
				props = make(map[string]any)
			}
			props[attr.Key] = attr.Val
		}
		_, noTranslate := props["data-no-translate"]
		if IgnoredTags[strings.ToLower(tag)] || noTranslate {
			if props == nil {
				props = make(map[string]any)
			}
			props[IgnoreProp] = true
		}

		var children []Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, fromHTMLNode(c))
		}
		return &Element{Tag: tag, Props: props, Children: children}
	default:
		// Comments and doctype are carried through for rendering.
		return Opaque{Value: n}
	}
}

// ToHTML renders a Node tree produced by FromHTML back to HTML. The
// synthetic opt-out marker is not emitted as an attribute; an original
// data-no-translate attribute survives on its own.
func ToHTML(n Node, w io.Writer) error {
	hn := toHTMLNode(n)
	if err := html.Render(w, hn); err != nil {
		return &TranslationError{Message: "rendering HTML", Cause: err}
	}
	return nil
}

func toHTMLNode(n Node) *html.Node {
	switch node := n.(type) {
	case Text:
		return &html.Node{Type: html.TextNode, Data: string(node)}
	case *Element:
		out := &html.Node{Type: html.ElementNode, Data: node.Tag}
		if node.Tag == documentTag {
			out.Type = html.DocumentNode
			out.Data = ""
		}

		// Sorted attribute order keeps rendering deterministic.
		keys := make([]string, 0, len(node.Props))
		for k := range node.Props {
			if k == IgnoreProp {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			val := ""
			if s, ok := node.Props[k].(string); ok {
				val = s
			} else {
				val = fmt.Sprint(node.Props[k])
			}
			out.Attr = append(out.Attr, html.Attribute{Key: k, Val: val})
		}

		for _, c := range node.Children {
			out.AppendChild(toHTMLNode(c))
		}
		return out
	case Opaque:
		if hn, ok := node.Value.(*html.Node); ok {
			return cloneHTMLNode(hn)
		}
		return &html.Node{Type: html.TextNode, Data: fmt.Sprint(node.Value)}
	default:
		return &html.Node{Type: html.TextNode}
	}
}

// cloneHTMLNode deep-copies a node so it can be attached to a fresh tree.
func cloneHTMLNode(n *html.Node) *html.Node {
	out := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(cloneHTMLNode(c))
	}
	return out
}

// TranslateHTML parses an HTML document, translates it and renders it
// back, setting lang and dir attributes on the <html> tag.
func (t *TreeTranslator) TranslateHTML(ctx context.Context, content, targetLang string) (string, error) {
	root, err := FromHTML(strings.NewReader(content))
	if err != nil {
		return "", err
	}

	res, err := t.Translate(ctx, root, targetLang)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := ToHTML(res.Root, &buf); err != nil {
		return "", err
	}
	return setHTMLAttributes(buf.String(), targetLang), nil
}

// setHTMLAttributes sets lang and dir attributes on the <html> tag.
func setHTMLAttributes(content, targetLang string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}

	htmlTag := doc.Find("html")
	if htmlTag.Length() > 0 {
		htmlTag.SetAttr("lang", ToHTMLLang(targetLang))
		htmlTag.SetAttr("dir", GetDirection(targetLang))
	}

	out, err := doc.Html()
	if err != nil {
		return content
	}
	return out
}
