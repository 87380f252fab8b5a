package filter

import (
	"encoding/json"

	"github.com/samber/lo"
)

// Selection is an ordered multi-select set. Toggling the same key twice
// restores the previous contents.
type Selection[K comparable] struct {
	keys []K
}

// NewSelection returns a selection holding keys, deduplicated.
func NewSelection[K comparable](keys ...K) *Selection[K] {
	return &Selection[K]{keys: lo.Uniq(keys)}
}

// Toggle adds key if absent, removes it otherwise.
func (s *Selection[K]) Toggle(key K) {
	if lo.Contains(s.keys, key) {
		s.keys = lo.Without(s.keys, key)
		return
	}
	// Clip so copies of a Selection never share appended elements.
	s.keys = append(s.keys[:len(s.keys):len(s.keys)], key)
}

// Has reports whether key is selected.
func (s *Selection[K]) Has(key K) bool {
	return lo.Contains(s.keys, key)
}

// Len returns the number of selected keys.
func (s *Selection[K]) Len() int {
	return len(s.keys)
}

// Keys returns a copy of the selected keys in selection order.
func (s *Selection[K]) Keys() []K {
	out := make([]K, len(s.keys))
	copy(out, s.keys)
	return out
}

// Clear empties the selection.
func (s *Selection[K]) Clear() {
	s.keys = nil
}

// SelectAll selects exactly the visible keys, or clears the selection when
// every visible key is already selected and nothing else is.
func (s *Selection[K]) SelectAll(visible []K) {
	if len(s.keys) == len(visible) && lo.Every(s.keys, visible) {
		s.Clear()
		return
	}
	s.keys = lo.Uniq(visible)
}

// Retain drops selected keys that are not in keep. Used after the backing
// view shrinks so the selected count never exceeds what is visible.
func (s *Selection[K]) Retain(keep []K) {
	s.keys = lo.Filter(s.keys, func(k K, _ int) bool {
		return lo.Contains(keep, k)
	})
}

func (s Selection[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

func (s *Selection[K]) UnmarshalJSON(data []byte) error {
	var keys []K
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	s.keys = lo.Uniq(keys)
	return nil
}
