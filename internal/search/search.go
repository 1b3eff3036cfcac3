// Package search implements the case-insensitive incremental pattern used for
// menu type-ahead. A Search accumulates typed characters and answers match
// queries against the live item slice of its owner; disabled entries never
// take part in any query.
package search

import (
	"unicode"

	"go.uber.org/atomic"
)

// Entry is a searchable menu entry.
type Entry interface {
	SearchText() string
	IsEnabled() bool
}

var defaultMode = atomic.NewInt32(int32(DefaultMode))

// SetDefaultMode changes the mode given to searches created afterwards.
func SetDefaultMode(m Mode) {
	defaultMode.Store(int32(m))
}

// CurrentDefaultMode returns the mode new searches start with.
func CurrentDefaultMode() Mode {
	return Mode(defaultMode.Load())
}

// Search is the accumulated pattern plus a reference to the owner's items.
type Search[T Entry] struct {
	items   *[]T
	pattern []rune
	mode    Mode
	match   matchFunc
}

// New binds a search to the slice the owner mutates in place.
func New[T Entry](items *[]T) *Search[T] {
	s := &Search[T]{items: items}
	s.SetMode(CurrentDefaultMode())
	return s
}

// SetMode switches the match strategy for this instance.
func (s *Search[T]) SetMode(m Mode) {
	s.mode = m
	s.match = m.matcher()
}

// Mode returns the active mode.
func (s *Search[T]) Mode() Mode {
	return s.mode
}

// Size is the pattern length in runes.
func (s *Search[T]) Size() int {
	return len(s.pattern)
}

// Pattern returns the lower-cased pattern typed so far.
func (s *Search[T]) Pattern() string {
	return string(s.pattern)
}

func (s *Search[T]) Clear() {
	s.pattern = s.pattern[:0]
}

// Add folds r and appends it to the pattern.
func (s *Search[T]) Add(r rune) {
	s.pattern = append(s.pattern, unicode.ToLower(r))
}

func (s *Search[T]) Backspace() {
	if n := len(s.pattern); n > 0 {
		s.pattern = s.pattern[:n-1]
	}
}

// HasMatch reports whether any enabled entry matches the current pattern.
func (s *Search[T]) HasMatch() bool {
	return s.count(s.pattern, true) > 0
}

// WouldMatch reports whether pattern would match any enabled entry without
// touching the accumulated state.
func (s *Search[T]) WouldMatch(pattern string) bool {
	return s.count(fold(pattern), true) > 0
}

// NumMatches counts enabled entries matching the current pattern.
func (s *Search[T]) NumMatches() int {
	return s.count(s.pattern, false)
}

func (s *Search[T]) count(pattern []rune, stopAtFirst bool) int {
	if s.items == nil {
		return 0
	}
	n := 0
	for _, item := range *s.items {
		if !item.IsEnabled() {
			continue
		}
		if s.match([]rune(item.SearchText()), pattern) >= 0 {
			n++
			if stopAtFirst {
				return n
			}
		}
	}
	return n
}

// GetMatch reports whether entry i matches and where the match begins. An
// empty pattern matches every enabled entry at offset 0.
func (s *Search[T]) GetMatch(i int) (int, bool) {
	if s.items == nil || i < 0 || i >= len(*s.items) {
		return -1, false
	}
	item := (*s.items)[i]
	if !item.IsEnabled() {
		return -1, false
	}
	if len(s.pattern) == 0 {
		return 0, true
	}
	idx := s.match([]rune(item.SearchText()), s.pattern)
	return idx, idx >= 0
}
