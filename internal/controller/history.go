package controller

import "sync"

// History is the location fragment naming the current recipe.
type History interface {
	Fragment() string
	PushFragment(id string)
}

// MemoryHistory keeps the fragment in memory. It is safe for concurrent use.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
}

// NewMemoryHistory creates a history positioned at fragment ("" for none).
func NewMemoryHistory(fragment string) *MemoryHistory {
	h := &MemoryHistory{}
	if fragment != "" {
		h.entries = append(h.entries, fragment)
	}
	return h
}

// Fragment returns the current fragment.
func (h *MemoryHistory) Fragment() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// PushFragment makes id the current fragment.
func (h *MemoryHistory) PushFragment(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, id)
}

// Back drops the current fragment and returns the previous one.
func (h *MemoryHistory) Back() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 0 {
		h.entries = h.entries[:len(h.entries)-1]
	}
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}
