package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"github.com/atomicstack/nestmenu/internal/imagecache"
	"github.com/atomicstack/nestmenu/internal/search"
	"github.com/atomicstack/nestmenu/internal/theme"
)

// Duration is a time.Duration read from strings like "150ms" or "1s", or
// from integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '150ms', '1s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// File is the on-disk theme configuration.
type File struct {
	Theme  ThemeConfig  `toml:"theme"`
	Menu   MenuConfig   `toml:"menu"`
	Search SearchConfig `toml:"search"`
}

// TextureConfig describes one background.
type TextureConfig struct {
	Texture string `toml:"texture"` // "flat", "gradient", "vertical gradient", "parentrelative"
	Color   string `toml:"color"`
	ColorTo string `toml:"color_to"`
}

// ThemeConfig holds the colours of the menu parts.
type ThemeConfig struct {
	Title  TextureConfig `toml:"title"`
	Frame  TextureConfig `toml:"frame"`
	Hilite TextureConfig `toml:"hilite"`

	TitleText      string `toml:"title_text"`
	FrameText      string `toml:"frame_text"`
	HiliteText     string `toml:"hilite_text"`
	DisabledText   string `toml:"disabled_text"`
	UnderlineColor string `toml:"underline_color"`
	BorderColor    string `toml:"border_color"`

	TitleBold *bool `toml:"title_bold"`
	FrameBold *bool `toml:"frame_bold"`
}

// MenuConfig holds geometry and behaviour.
type MenuConfig struct {
	OpenDelay  *Duration `toml:"open_delay"`
	CloseDelay *Duration `toml:"close_delay"`

	Bullet         string `toml:"bullet"`          // "empty", "square", "triangle", "diamond"
	BulletPosition string `toml:"bullet_position"` // "left", "right"
	TitleJustify   string `toml:"title_justify"`
	FrameJustify   string `toml:"frame_justify"`

	BevelWidth  *int `toml:"bevel_width"`
	IconWidth   *int `toml:"icon_width"`
	ItemHeight  *int `toml:"item_height"`
	TitleHeight *int `toml:"title_height"`
	BorderWidth *int `toml:"border_width"`
}

// SearchConfig selects the type-ahead mode.
type SearchConfig struct {
	Mode string `toml:"mode"`
}

var (
	bulletNames  = []string{"empty", "square", "triangle", "diamond"}
	justifyNames = []string{"left", "center", "right"}
)

// ReadFile loads and decodes path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return f, nil
}

// ParseFile decodes TOML; unknown keys are rejected.
func ParseFile(data []byte) (*File, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return nil, err
	}
	return &f, nil
}

// Apply overlays the file onto base and returns the resulting theme and
// search mode.
func (f *File) Apply(base theme.Menu) (theme.Menu, search.Mode, error) {
	out := base
	var err error

	if out.Title, err = applyTexture("theme.title", base.Title, f.Theme.Title); err != nil {
		return base, 0, err
	}
	if out.Frame, err = applyTexture("theme.frame", base.Frame, f.Theme.Frame); err != nil {
		return base, 0, err
	}
	if out.Hilite, err = applyTexture("theme.hilite", base.Hilite, f.Theme.Hilite); err != nil {
		return base, 0, err
	}

	colors := []struct {
		name  string
		value string
		dst   *lipgloss.Color
	}{
		{"theme.title_text", f.Theme.TitleText, &out.TitleText},
		{"theme.frame_text", f.Theme.FrameText, &out.FrameText},
		{"theme.hilite_text", f.Theme.HiliteText, &out.HiliteText},
		{"theme.disabled_text", f.Theme.DisabledText, &out.DisabledText},
		{"theme.underline_color", f.Theme.UnderlineColor, &out.UnderlineColor},
		{"theme.border_color", f.Theme.BorderColor, &out.BorderColor},
	}
	for _, c := range colors {
		if c.value == "" {
			continue
		}
		if err := checkColor(c.name, c.value); err != nil {
			return base, 0, err
		}
		*c.dst = lipgloss.Color(c.value)
	}
	if f.Theme.TitleBold != nil {
		out.TitleFont.Bold = *f.Theme.TitleBold
	}
	if f.Theme.FrameBold != nil {
		out.FrameFont.Bold = *f.Theme.FrameBold
	}

	m := f.Menu
	if m.OpenDelay != nil {
		out.OpenDelay = time.Duration(*m.OpenDelay)
	}
	if m.CloseDelay != nil {
		out.CloseDelay = time.Duration(*m.CloseDelay)
	}
	if out.OpenDelay < 0 || out.CloseDelay < 0 {
		return base, 0, fmt.Errorf("menu delays must be >= 0")
	}

	if m.Bullet != "" {
		if !known(m.Bullet, bulletNames) {
			return base, 0, unknownValue("menu.bullet", m.Bullet, bulletNames)
		}
		out.Bullet = theme.ParseBullet(m.Bullet)
	}
	justify := []struct {
		name  string
		value string
		dst   *theme.Justify
	}{
		{"menu.bullet_position", m.BulletPosition, &out.BulletPos},
		{"menu.title_justify", m.TitleJustify, &out.TitleJustify},
		{"menu.frame_justify", m.FrameJustify, &out.FrameJustify},
	}
	for _, j := range justify {
		if j.value == "" {
			continue
		}
		if !known(j.value, justifyNames) && !strings.EqualFold(j.value, "centre") {
			return base, 0, unknownValue(j.name, j.value, justifyNames)
		}
		*j.dst = theme.ParseJustify(j.value)
	}

	sizes := []struct {
		name string
		v    *int
		dst  *int
		min  int
	}{
		{"menu.bevel_width", m.BevelWidth, &out.BevelWidth, 0},
		{"menu.icon_width", m.IconWidth, &out.IconWidth, 0},
		{"menu.item_height", m.ItemHeight, &out.ItemHeight, 1},
		{"menu.title_height", m.TitleHeight, &out.TitleHeight, 1},
		{"menu.border_width", m.BorderWidth, &out.BorderWidth, 0},
	}
	for _, s := range sizes {
		if s.v == nil {
			continue
		}
		if *s.v < s.min {
			return base, 0, fmt.Errorf("%s must be >= %d (got %d)", s.name, s.min, *s.v)
		}
		*s.dst = *s.v
	}

	mode := search.DefaultMode
	if v := strings.TrimSpace(f.Search.Mode); v != "" {
		var ok bool
		if mode, ok = search.ParseMode(v); !ok {
			return base, 0, unknownValue("search.mode", v, search.ModeNames)
		}
	}
	return out, mode, nil
}

func applyTexture(name string, base imagecache.Texture, tc TextureConfig) (imagecache.Texture, error) {
	color, colorTo := base.Color, base.ColorTo
	if tc.Color != "" {
		if err := checkColor(name+".color", tc.Color); err != nil {
			return base, err
		}
		color = lipgloss.Color(tc.Color)
	}
	if tc.ColorTo != "" {
		if err := checkColor(name+".color_to", tc.ColorTo); err != nil {
			return base, err
		}
		colorTo = lipgloss.Color(tc.ColorTo)
	}
	if tc.Texture == "" {
		base.Color, base.ColorTo = color, colorTo
		return base, nil
	}
	return imagecache.ParseTexture(tc.Texture, color, colorTo), nil
}

// checkColor accepts "#rrggbb" values, the only form gradients can blend.
func checkColor(name, value string) error {
	if _, err := colorful.Hex(value); err != nil {
		return fmt.Errorf("%s: invalid colour %q (want #rrggbb)", name, value)
	}
	return nil
}

func known(value string, names []string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(value), n) {
			return true
		}
	}
	return false
}

// UnknownValueError reports a setting outside its accepted set, with the
// closest accepted spelling when one is near enough.
type UnknownValueError struct {
	Field      string
	Value      string
	Suggestion string
}

func (e *UnknownValueError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("unknown %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("unknown %s %q (did you mean %q?)", e.Field, e.Value, e.Suggestion)
}

func unknownValue(field, value string, choices []string) error {
	return &UnknownValueError{Field: field, Value: value, Suggestion: suggest(value, choices)}
}

// suggest picks the choice closest to value: the best fuzzy subsequence
// match first, then the smallest edit distance within three edits.
func suggest(value string, choices []string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	if ranks := fuzzy.RankFindNormalizedFold(value, choices); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", 4
	for _, c := range choices {
		if d := fuzzy.LevenshteinDistance(value, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
