package editor

import "github.com/ironsheep/pixelkit/internal/raster"

// DefaultHistoryLimit is the number of snapshots kept before the oldest is
// dropped.
const DefaultHistoryLimit = 50

// History is a bounded list of full layer-stack snapshots with a cursor.
//
// Every snapshot is a deep copy, and Undo/Redo hand out deep copies too, so
// later edits to the live stack can never reach stored history.
type History struct {
	entries []*raster.Stack
	cursor  int
	limit   int
}

// NewHistory creates an empty history holding at most limit snapshots.
// A limit <= 0 selects DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{cursor: -1, limit: limit}
}

// Push discards any redo snapshots after the cursor, appends a copy of st and
// moves the cursor to it. When the limit is exceeded the oldest snapshot is
// dropped.
func (h *History) Push(st *raster.Stack) {
	h.entries = append(h.entries[:h.cursor+1], st.Clone())
	if len(h.entries) > h.limit {
		h.entries = append([]*raster.Stack(nil), h.entries[len(h.entries)-h.limit:]...)
	}
	h.cursor = len(h.entries) - 1
}

// Reset clears the history and stores st as its only snapshot.
func (h *History) Reset(st *raster.Stack) {
	h.entries = nil
	h.cursor = -1
	h.Push(st)
}

// Undo steps back one snapshot and returns a copy of it. It returns false
// when already at the oldest snapshot.
func (h *History) Undo() (*raster.Stack, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

// Redo steps forward one snapshot and returns a copy of it. It returns false
// when already at the newest snapshot.
func (h *History) Redo() (*raster.Stack, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return h.entries[h.cursor].Clone(), true
}

// Current returns a copy of the snapshot at the cursor.
func (h *History) Current() (*raster.Stack, bool) {
	if h.cursor < 0 {
		return nil, false
	}
	return h.entries[h.cursor].Clone(), true
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.entries)-1 }

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the index of the current snapshot, or -1 when empty.
func (h *History) Cursor() int { return h.cursor }
