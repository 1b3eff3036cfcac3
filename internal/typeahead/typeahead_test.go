package typeahead

import "testing"

type entry struct {
	text    string
	enabled bool
}

func (e entry) CompareChar(r rune, pos int) bool { return CompareRuneAt(e.text, r, pos) }
func (e entry) IsEnabled() bool                  { return e.enabled }

func entries(texts ...string) []entry {
	out := make([]entry, len(texts))
	for i, text := range texts {
		out[i] = entry{text: text, enabled: true}
	}
	return out
}

func labels(items []entry) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.text
	}
	return out
}

func TestPutCharacterNarrowsFromPreviousSet(t *testing.T) {
	f := New(entries("xterm", "xclock", "xeyes", "firefox"))
	got := labels(f.PutCharacter('X'))
	if len(got) != 3 {
		t.Fatalf("expected three x-prefixed entries, got %v", got)
	}
	got = labels(f.PutCharacter('c'))
	if len(got) != 1 || got[0] != "xclock" {
		t.Fatalf("expected only xclock, got %v", got)
	}
	if f.Typed() != "Xc" {
		t.Fatalf("expected typed string Xc, got %q", f.Typed())
	}
	if f.Depth() != 2 {
		t.Fatalf("expected two narrowed sets, got %d", f.Depth())
	}
}

func TestRejectedCharacterKeepsState(t *testing.T) {
	f := New(entries("alpha", "beta"))
	f.PutCharacter('a')
	got := labels(f.PutCharacter('z'))
	if len(got) != 1 || got[0] != "alpha" {
		t.Fatalf("expected alpha to remain after rejected rune, got %v", got)
	}
	if f.Typed() != "a" {
		t.Fatalf("expected rejected rune not to be recorded, got %q", f.Typed())
	}
}

func TestBackspacePopsOneLevel(t *testing.T) {
	f := New(entries("term", "terminal", "top"))
	f.PutCharacter('t')
	f.PutCharacter('e')
	f.PutCharacter('r')
	f.PutCharacter('m')
	f.PutCharacter('i')
	if got := labels(f.Matched()); len(got) != 1 || got[0] != "terminal" {
		t.Fatalf("expected terminal, got %v", got)
	}
	f.PutBackspace()
	if got := labels(f.Matched()); len(got) != 2 {
		t.Fatalf("expected term and terminal after backspace, got %v", got)
	}
	if f.Typed() != "term" {
		t.Fatalf("expected typed string term, got %q", f.Typed())
	}
	for i := 0; i < 10; i++ {
		f.PutBackspace()
	}
	if got := f.Matched(); len(got) != 3 {
		t.Fatalf("expected full list after popping everything, got %v", labels(got))
	}
	if f.Typed() != "" {
		t.Fatalf("expected typed string cleared, got %q", f.Typed())
	}
}

func TestDisabledEntriesNeverMatch(t *testing.T) {
	items := entries("reboot", "restart")
	items[0].enabled = false
	f := New(items)
	got := labels(f.PutCharacter('r'))
	if len(got) != 1 || got[0] != "restart" {
		t.Fatalf("expected disabled reboot to be filtered, got %v", got)
	}
}

func TestNonPrintableIgnored(t *testing.T) {
	f := New(entries("a"))
	f.PutCharacter('\t')
	if f.Depth() != 0 {
		t.Fatalf("expected control rune to be ignored")
	}
}

func TestInitResets(t *testing.T) {
	f := New(entries("a", "b"))
	f.PutCharacter('a')
	f.Init(entries("c"))
	if f.Depth() != 0 || f.Typed() != "" {
		t.Fatalf("expected init to reset state")
	}
	if got := labels(f.Matched()); len(got) != 1 || got[0] != "c" {
		t.Fatalf("expected new base list, got %v", got)
	}
}
