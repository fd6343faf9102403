package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment parses markup as the children of a <div>. The returned
// nodes are detached.
func parseFragment(markup string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	return html.ParseFragment(strings.NewReader(markup), context)
}

// elements returns the element descendants of n in document order,
// excluding n itself.
func elements(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// TextContent returns the concatenated text of all descendant text nodes.
func TextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return text.String()
}

// setTextContent replaces all children of n with a single text node.
func setTextContent(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// GetAttr returns the value of an attribute, or "" if n doesn't have it.
func GetAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// setAttr sets an attribute, adding it if it doesn't exist.
func setAttr(n *html.Node, attr html.Attribute) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == attr.Namespace && n.Attr[i].Key == attr.Key {
			n.Attr[i].Val = attr.Val
			return
		}
	}
	n.Attr = append(n.Attr, attr)
}

// EqualNode reports whether a and b are equal in the DOM isEqualNode
// sense: same type, name and attributes (in any order), and equal
// children.
func EqualNode(a, b *html.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Data != b.Data || a.Namespace != b.Namespace {
		return false
	}
	if a.Type == html.ElementNode && !equalAttrs(a.Attr, b.Attr) {
		return false
	}

	ca, cb := a.FirstChild, b.FirstChild
	for ca != nil && cb != nil {
		if !EqualNode(ca, cb) {
			return false
		}
		ca, cb = ca.NextSibling, cb.NextSibling
	}
	return ca == nil && cb == nil
}

func equalAttrs(a, b []html.Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if x.Namespace == y.Namespace && x.Key == y.Key {
				found = x.Val == y.Val
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// firstChildText returns the data of n's first child when it is a text
// node, mirroring DOM firstChild.nodeValue.
func firstChildText(n *html.Node) (string, bool) {
	if n.FirstChild == nil || n.FirstChild.Type != html.TextNode {
		return "", false
	}
	return n.FirstChild.Data, true
}
