package table

import (
	"reflect"
	"testing"
)

func TestFormatPadsColumns(t *testing.T) {
	got := Format([][]string{
		{"s:0: vim", "(3 minutes ago)"},
		{"s:10: logs", "(now)"},
	}, nil)
	want := []string{
		"s:0: vim    (3 minutes ago)",
		"s:10: logs  (now)",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatDropsEmptyTrailingCells(t *testing.T) {
	got := Format([][]string{
		{"editor", "(1 hour ago)"},
		{"sh", ""},
	}, nil)
	if got[1] != "sh" {
		t.Fatalf("expected bare label, got %q", got[1])
	}
}

func TestFormatRightAlignAndWideRunes(t *testing.T) {
	got := Format([][]string{
		{"日本", "1"},
		{"a", "100"},
	}, []Alignment{AlignLeft, AlignRight})
	want := []string{
		"日本    1",
		"a     100",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil, nil); got != nil {
		t.Fatalf("expected nil, got %q", got)
	}
}
