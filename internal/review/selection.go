package review

import "sort"

// Selection is the set of item ids marked for bulk action, independent of
// the cursor. It is always a subset of the ids loaded in the snapshot:
// entries whose item leaves the snapshot are pruned silently, never errored.
type Selection struct {
	ids map[string]struct{}
}

// Toggle flips membership for id.
func (s *Selection) Toggle(id string) {
	if id == "" {
		return
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// Has reports membership.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len is the selection size.
func (s *Selection) Len() int { return len(s.ids) }

// SelectAll marks every loaded item (not the server-side total).
func (s *Selection) SelectAll(items []Item) {
	if s.ids == nil {
		s.ids = make(map[string]struct{}, len(items))
	}
	for _, item := range items {
		s.ids[item.ID] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
}

// IDs returns the selected ids in stable order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Prune drops ids no longer present in the snapshot.
func (s *Selection) Prune(snap *Snapshot) {
	for id := range s.ids {
		if !snap.Has(id) {
			delete(s.ids, id)
		}
	}
}
