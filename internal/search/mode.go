package search

import "strings"

// Mode selects how a pattern is matched against item labels.
type Mode int

const (
	// Nowhere disables searching; nothing ever matches.
	Nowhere Mode = iota
	// ItemStart requires the pattern to be a prefix of the label.
	ItemStart
	// Somewhere accepts the pattern anywhere in the label.
	Somewhere

	DefaultMode = ItemStart
)

// ModeNames lists the accepted configuration spellings.
var ModeNames = []string{"nowhere", "itemstart", "somewhere"}

func (m Mode) String() string {
	switch m {
	case Nowhere:
		return "nowhere"
	case Somewhere:
		return "somewhere"
	default:
		return "itemstart"
	}
}

// ParseMode converts a configuration value into a Mode. Unknown values fall
// back to DefaultMode and report ok=false.
func ParseMode(value string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "nowhere":
		return Nowhere, true
	case "somewhere":
		return Somewhere, true
	case "itemstart":
		return ItemStart, true
	default:
		return DefaultMode, false
	}
}

// matcher returns the match function for the mode.
func (m Mode) matcher() matchFunc {
	switch m {
	case Nowhere:
		return matchNowhere
	case Somewhere:
		return matchSomewhere
	default:
		return matchItemStart
	}
}
