package search

import "unicode"

// matchFunc reports the rune offset of pattern within text or -1. The pattern
// is already lower-cased; text is folded while comparing.
type matchFunc func(text, pattern []rune) int

func matchNowhere(text, pattern []rune) int {
	return -1
}

// matchItemStart finds pattern at the beginning of text.
func matchItemStart(text, pattern []rune) int {
	if len(pattern) == 0 {
		return 0
	}
	if len(pattern) > len(text) {
		return -1
	}
	for i := len(pattern); i > 0; i-- {
		if unicode.ToLower(text[i-1]) != pattern[i-1] {
			return -1
		}
	}
	return 0
}

// matchSomewhere finds pattern anywhere in text using Boyer-Moore-Horspool.
// Single rune patterns use a plain scan.
func matchSomewhere(text, pattern []rune) int {
	plen := len(pattern)
	tlen := len(text)
	if plen == 0 {
		return 0
	}
	if tlen == 0 || plen > tlen {
		return -1
	}

	if plen == 1 {
		b := pattern[0]
		for t := 0; t < tlen; t++ {
			if unicode.ToLower(text[t]) == b {
				return t
			}
		}
		return -1
	}

	skip := newSkipTable(pattern)
	pe := plen - 1
	for t := 0; t+pe < tlen; {
		p := pe
		for unicode.ToLower(text[t+p]) == pattern[p] {
			if p == 0 {
				return t
			}
			p--
		}
		t += skip.shift(unicode.ToLower(text[t+pe]))
	}
	return -1
}

// skipTable is the BMH bad-character table. Runes below 256 use the dense
// table; anything else goes through the sparse map.
type skipTable struct {
	plen   int
	dense  [256]int
	sparse map[rune]int
}

func newSkipTable(pattern []rune) *skipTable {
	st := &skipTable{plen: len(pattern)}
	for i := range st.dense {
		st.dense[i] = st.plen
	}
	pe := st.plen - 1
	for p := 0; p < pe; p++ {
		r := pattern[p]
		if r >= 0 && r < 256 {
			st.dense[r] = pe - p
			continue
		}
		if st.sparse == nil {
			st.sparse = make(map[rune]int)
		}
		st.sparse[r] = pe - p
	}
	return st
}

func (st *skipTable) shift(r rune) int {
	if r >= 0 && r < 256 {
		return st.dense[r]
	}
	if n, ok := st.sparse[r]; ok {
		return n
	}
	return st.plen
}

// Match applies mode to text and pattern. The pattern is folded before use.
func Match(mode Mode, text, pattern string) int {
	return mode.matcher()([]rune(text), fold(pattern))
}

func fold(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
