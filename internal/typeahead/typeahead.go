// Package typeahead provides the stacked incremental filter used by the jump
// prompt. Every accepted character narrows the previous result set, so a
// backspace is a pop rather than a rescan of the full list.
package typeahead

import (
	"unicode"
	"unicode/utf8"
)

// Searchable is an entry the filter can narrow.
type Searchable interface {
	// CompareChar reports whether the rune at pos (in runes) equals r,
	// ignoring case.
	CompareChar(r rune, pos int) bool
	IsEnabled() bool
}

type result[T Searchable] struct {
	seeked string
	items  []T
}

// Filter keeps a stack of narrowed result sets over a base slice.
type Filter[T Searchable] struct {
	base    []T
	results []result[T]
	typed   string
}

// New creates a filter over items.
func New[T Searchable](items []T) *Filter[T] {
	return &Filter[T]{base: items}
}

// Init rebinds the filter to a fresh item slice and resets it.
func (f *Filter[T]) Init(items []T) {
	f.base = items
	f.Reset()
}

// StringSize is the length of the typed string in runes.
func (f *Filter[T]) StringSize() int {
	return utf8.RuneCountInString(f.typed)
}

// Typed returns the accepted characters.
func (f *Filter[T]) Typed() string {
	return f.typed
}

// Depth is the number of narrowed sets on the stack.
func (f *Filter[T]) Depth() int {
	return len(f.results)
}

// PutCharacter narrows by r and returns the resulting matches. Non-printable
// runes are ignored; a rune that would leave no match is rejected.
func (f *Filter[T]) PutCharacter(r rune) []T {
	if unicode.IsPrint(r) {
		f.search(r)
	}
	return f.Matched()
}

// PutBackspace reverts to the previous narrowed set.
func (f *Filter[T]) PutBackspace() {
	if len(f.results) == 0 {
		f.typed = ""
		return
	}
	f.results = f.results[:len(f.results)-1]
	if len(f.results) == 0 {
		f.typed = ""
		return
	}
	f.typed = f.results[len(f.results)-1].seeked
}

// Reset drops every narrowed set.
func (f *Filter[T]) Reset() {
	f.typed = ""
	f.results = nil
}

// Seek sets the typed string to the one that produced the top set.
func (f *Filter[T]) Seek() {
	if len(f.results) > 0 {
		f.typed = f.results[len(f.results)-1].seeked
	}
}

// Matched returns the current narrowed set, or the base slice when nothing
// has been typed.
func (f *Filter[T]) Matched() []T {
	if len(f.results) == 0 {
		return f.base
	}
	top := f.results[len(f.results)-1].items
	out := make([]T, len(top))
	copy(out, top)
	return out
}

func (f *Filter[T]) search(r rune) {
	from := f.base
	if len(f.results) > 0 {
		from = f.results[len(f.results)-1].items
	}
	pos := f.StringSize()
	narrowed := make([]T, 0, len(from))
	for _, item := range from {
		if item.IsEnabled() && item.CompareChar(r, pos) {
			narrowed = append(narrowed, item)
		}
	}
	if len(narrowed) == 0 {
		return
	}
	f.typed += string(r)
	f.results = append(f.results, result[T]{seeked: f.typed, items: narrowed})
}

// CompareRuneAt is a helper for Searchable implementations over plain text.
func CompareRuneAt(text string, r rune, pos int) bool {
	if pos < 0 {
		return false
	}
	i := 0
	for _, c := range text {
		if i == pos {
			return unicode.ToLower(c) == unicode.ToLower(r)
		}
		i++
	}
	return false
}
