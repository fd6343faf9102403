// Package render keeps the live markup of each screen region and patches
// it in place when the underlying data changes.
package render

import (
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Region is a named container holding a live markup tree.
// It is safe for concurrent use.
type Region struct {
	name string
	mu   sync.Mutex
	root *html.Node
}

// NewRegion creates an empty region.
func NewRegion(name string) *Region {
	return &Region{
		name: name,
		root: &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div},
	}
}

// Name returns the region name.
func (r *Region) Name() string {
	return r.name
}

// Clear removes all content.
func (r *Region) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear()
}

// Insert parses markup and inserts it before the existing content.
func (r *Region) Insert(markup string) error {
	nodes, err := parseFragment(markup)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	first := r.root.FirstChild
	for _, n := range nodes {
		r.root.InsertBefore(n, first)
	}
	return nil
}

// Replace clears the region and inserts markup.
func (r *Region) Replace(markup string) error {
	nodes, err := parseFragment(markup)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear()
	for _, n := range nodes {
		r.root.AppendChild(n)
	}
	return nil
}

// Patch reconciles the live content against markup. See Reconcile.
func (r *Region) Patch(markup string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Reconcile(r.root, markup)
}

// Elements returns the live element nodes in document order. The nodes
// belong to the region; callers must not mutate them.
func (r *Region) Elements() []*html.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return elements(r.root)
}

// IsEmpty reports whether the region holds no elements.
func (r *Region) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := r.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return false
		}
	}
	return true
}

// HTML serializes the region content.
func (r *Region) HTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	for c := r.root.FirstChild; c != nil; c = c.NextSibling {
		// Rendering an in-memory tree into a strings.Builder can't fail
		_ = html.Render(&b, c)
	}
	return b.String()
}

func (r *Region) clear() {
	for c := r.root.FirstChild; c != nil; {
		next := c.NextSibling
		r.root.RemoveChild(c)
		c = next
	}
}
