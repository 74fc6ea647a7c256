package review

// Snapshot is an ordered queue page plus the cursor over it. Item order is
// whatever the server returned; the controller never re-sorts client-side.
//
// Invariant: 0 <= cursor < len(items) whenever items is non-empty. The
// cursor is meaningless on an empty snapshot.
type Snapshot struct {
	items  []Item
	total  int
	cursor int
}

// NewSnapshot builds a snapshot with the cursor at 0.
func NewSnapshot(items []Item, total int) Snapshot {
	if total < len(items) {
		total = len(items)
	}
	return Snapshot{items: items, total: total}
}

// Len is the number of loaded items.
func (s *Snapshot) Len() int { return len(s.items) }

// Total is the server-side match count, which may exceed Len.
func (s *Snapshot) Total() int { return s.total }

// Empty reports whether no items are loaded.
func (s *Snapshot) Empty() bool { return len(s.items) == 0 }

// Cursor returns the current index, or -1 when empty.
func (s *Snapshot) Cursor() int {
	if s.Empty() {
		return -1
	}
	return s.cursor
}

// Current returns the item under the cursor.
func (s *Snapshot) Current() (Item, bool) {
	if s.Empty() {
		return Item{}, false
	}
	return s.items[s.cursor], true
}

// Items returns the loaded items in server order. The slice is shared; do
// not mutate.
func (s *Snapshot) Items() []Item { return s.items }

// At returns the item at index i.
func (s *Snapshot) At(i int) (Item, bool) {
	if i < 0 || i >= len(s.items) {
		return Item{}, false
	}
	return s.items[i], true
}

// IndexOf returns the position of id, or -1.
func (s *Snapshot) IndexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Has reports whether id is loaded.
func (s *Snapshot) Has(id string) bool { return s.IndexOf(id) >= 0 }

// Advance moves the cursor forward one item. No-op at the end.
func (s *Snapshot) Advance() bool {
	if s.Empty() || s.cursor >= len(s.items)-1 {
		return false
	}
	s.cursor++
	return true
}

// Retreat moves the cursor back one item. No-op at the start.
func (s *Snapshot) Retreat() bool {
	if s.Empty() || s.cursor <= 0 {
		return false
	}
	s.cursor--
	return true
}

// JumpTo sets the cursor to the item with the given id. No-op when absent.
func (s *Snapshot) JumpTo(id string) bool {
	if idx := s.IndexOf(id); idx >= 0 {
		s.cursor = idx
		return true
	}
	return false
}

// JumpFirst moves the cursor to the first item.
func (s *Snapshot) JumpFirst() {
	if !s.Empty() {
		s.cursor = 0
	}
}

// JumpLast moves the cursor to the last item.
func (s *Snapshot) JumpLast() {
	if !s.Empty() {
		s.cursor = len(s.items) - 1
	}
}

// RemoveCurrent removes the item under the cursor and re-clamps the cursor
// to the same numeric index, so the item sliding into the slot becomes
// current, or to the new last item when the removed one was last.
func (s *Snapshot) RemoveCurrent() (Item, bool) {
	if s.Empty() {
		return Item{}, false
	}
	removed := s.items[s.cursor]
	s.items = append(s.items[:s.cursor], s.items[s.cursor+1:]...)
	s.total--
	s.clampCursor()
	return removed, true
}

// RemoveByID removes one item wherever it sits, preserving the operator's
// position: removals before the cursor shift it back, removal at the cursor
// follows RemoveCurrent clamping.
func (s *Snapshot) RemoveByID(id string) bool {
	idx := s.IndexOf(id)
	if idx < 0 {
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.total--
	if idx < s.cursor {
		s.cursor--
	}
	s.clampCursor()
	return true
}

// RemoveMany removes every listed id, keeping the cursor item current when
// it survives and falling back to index 0 otherwise. Returns the number of
// items actually removed.
func (s *Snapshot) RemoveMany(ids []string) int {
	if s.Empty() || len(ids) == 0 {
		return 0
	}
	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}

	var keepID string
	if current, ok := s.Current(); ok {
		if _, gone := doomed[current.ID]; !gone {
			keepID = current.ID
		}
	}

	kept := s.items[:0]
	removed := 0
	for _, item := range s.items {
		if _, gone := doomed[item.ID]; gone {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.total -= removed

	s.cursor = 0
	if keepID != "" {
		if idx := s.IndexOf(keepID); idx >= 0 {
			s.cursor = idx
		}
	}
	s.clampCursor()
	return removed
}

func (s *Snapshot) clampCursor() {
	if len(s.items) == 0 {
		s.cursor = 0
		if s.total < 0 {
			s.total = 0
		}
		return
	}
	if s.cursor > len(s.items)-1 {
		s.cursor = len(s.items) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.total < len(s.items) {
		s.total = len(s.items)
	}
}
