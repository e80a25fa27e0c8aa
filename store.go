package takeoff

import (
	"context"
	"sync"
)

// MarkupStore loads and saves the markups of a page. Implementations
// store the list verbatim.
type MarkupStore interface {
	Markups(ctx context.Context, page int) ([]Markup, error)
	SaveMarkups(ctx context.Context, page int, markups []Markup) error
}

// UndoAction names the mutation an undo record describes.
type UndoAction string

const (
	UndoCreate UndoAction = "create"
	UndoDelete UndoAction = "delete"
	UndoMove   UndoAction = "move"
	UndoResize UndoAction = "resize"
	UndoSplit  UndoAction = "split"
)

// UndoRecord is a before/after snapshot of the markups touched by one
// completed mutation.
type UndoRecord struct {
	Action      UndoAction `json:"action"`
	Page        int        `json:"page"`
	Before      []Markup   `json:"before"`
	After       []Markup   `json:"after"`
	Description string     `json:"description"`
}

// UndoRecorder receives undo records. The editor never replays them.
type UndoRecorder interface {
	Record(ctx context.Context, rec UndoRecord) error
}

// PointerCapturer routes all events of a pointer to the editor until
// released, so gestures survive the cursor leaving the surface.
type PointerCapturer interface {
	Capture(pointerID int)
	Release(pointerID int)
}

// MemoryStore is an in-memory MarkupStore.
type MemoryStore struct {
	mu    sync.Mutex
	pages map[int][]Markup
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pages: make(map[int][]Markup)}
}

// Markups returns a copy of the markups of page.
func (s *MemoryStore) Markups(_ context.Context, page int) ([]Markup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMarkups(s.pages[page]), nil
}

// SaveMarkups replaces the markups of page.
func (s *MemoryStore) SaveMarkups(_ context.Context, page int, markups []Markup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pages == nil {
		s.pages = make(map[int][]Markup)
	}
	s.pages[page] = cloneMarkups(markups)
	return nil
}

func cloneMarkups(markups []Markup) []Markup {
	if markups == nil {
		return nil
	}
	out := make([]Markup, len(markups))
	for i, m := range markups {
		out[i] = m.Clone()
	}
	return out
}

// NopUndo discards undo records.
type NopUndo struct{}

func (NopUndo) Record(context.Context, UndoRecord) error { return nil }

// NopCapture ignores pointer capture.
type NopCapture struct{}

func (NopCapture) Capture(int) {}
func (NopCapture) Release(int) {}
