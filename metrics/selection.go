package metrics

// Selection is an immutable set of metric ids picked while authoring a
// report. Transitions return a new value so shared references never observe
// in-place mutation.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from the given ids, dropping empties and
// duplicates while preserving first-seen order.
func NewSelection(ids ...string) Selection {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return Selection{ids: out}
}

// Toggled returns a new selection with id added when absent or removed when
// present. The receiver is left unchanged.
func (s Selection) Toggled(id string) Selection {
	if id == "" {
		return s
	}
	if s.Has(id) {
		out := make([]string, 0, len(s.ids)-1)
		for _, v := range s.ids {
			if v != id {
				out = append(out, v)
			}
		}
		return Selection{ids: out}
	}
	out := make([]string, len(s.ids), len(s.ids)+1)
	copy(out, s.ids)
	return Selection{ids: append(out, id)}
}

// Has reports whether id is part of the selection.
func (s Selection) Has(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the selected ids in insertion order.
func (s Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected ids.
func (s Selection) Len() int {
	return len(s.ids)
}
