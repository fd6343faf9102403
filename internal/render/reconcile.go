package render

import (
	"strings"

	"golang.org/x/net/html"
)

// KeyAttr pairs elements by identity instead of position when both the
// live and the new element carry it.
const KeyAttr = "data-key"

// Reconcile patches the children of live so they match markup while
// keeping the existing nodes in place.
//
// Both trees are flattened to their elements in document order. A new
// element is paired with the live element carrying the same KeyAttr
// value and tag; otherwise it is paired with the live element at the
// same position. For every pair that differs:
//
//   - if the new element's first child is non-blank text, the live
//     element's text content is replaced with the new element's;
//   - every attribute of the new element is copied onto the live one.
//
// Attributes present only on the live element are left alone, and new
// elements without a counterpart are not inserted.
func Reconcile(live *html.Node, markup string) error {
	nodes, err := parseFragment(markup)
	if err != nil {
		return err
	}

	fragment := &html.Node{Type: html.ElementNode, Data: "div"}
	for _, n := range nodes {
		fragment.AppendChild(n)
	}

	newElements := elements(fragment)
	curElements := elements(live)
	keyed := indexByKey(curElements)

	for i, newEl := range newElements {
		curEl := counterpart(newEl, i, curElements, keyed)
		if curEl == nil || EqualNode(newEl, curEl) {
			continue
		}

		if text, ok := firstChildText(newEl); ok && strings.TrimSpace(text) != "" {
			setTextContent(curEl, TextContent(newEl))
		}
		for _, attr := range newEl.Attr {
			setAttr(curEl, attr)
		}
	}
	return nil
}

func indexByKey(nodes []*html.Node) map[string]*html.Node {
	keyed := make(map[string]*html.Node)
	for _, n := range nodes {
		key := GetAttr(n, KeyAttr)
		if key == "" {
			continue
		}
		if _, exists := keyed[key]; !exists {
			keyed[key] = n
		}
	}
	return keyed
}

func counterpart(newEl *html.Node, i int, cur []*html.Node, keyed map[string]*html.Node) *html.Node {
	if key := GetAttr(newEl, KeyAttr); key != "" {
		if n, ok := keyed[key]; ok && n.Data == newEl.Data {
			return n
		}
	}
	if i < len(cur) {
		return cur[i]
	}
	return nil
}
