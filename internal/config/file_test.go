package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/nestmenu/internal/imagecache"
	"github.com/atomicstack/nestmenu/internal/search"
	"github.com/atomicstack/nestmenu/internal/theme"
)

func TestParseFileRejectsUnknownKeys(t *testing.T) {
	_, err := ParseFile([]byte("[menu]\nopen_dealy = \"1s\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
}

func TestApplyEmptyFileKeepsBase(t *testing.T) {
	f, err := ParseFile(nil)
	require.NoError(t, err)
	out, mode, err := f.Apply(theme.DefaultMenu())
	require.NoError(t, err)
	assert.Equal(t, theme.DefaultMenu(), out)
	assert.Equal(t, search.DefaultMode, mode)
}

func TestApplyTextures(t *testing.T) {
	f, err := ParseFile([]byte(`
[theme.title]
texture = "vertical gradient"
color = "#000000"
color_to = "#ffffff"

[theme.hilite]
texture = "parentrelative"

[theme.frame]
color = "#101010"
`))
	require.NoError(t, err)
	base := theme.DefaultMenu()
	out, _, err := f.Apply(base)
	require.NoError(t, err)

	assert.Equal(t, imagecache.Texture{Kind: imagecache.Gradient, Vertical: true, Color: "#000000", ColorTo: "#ffffff"}, out.Title)
	assert.Equal(t, imagecache.ParentRelative, out.Hilite.Kind)
	assert.Equal(t, base.Frame.Kind, out.Frame.Kind)
	assert.EqualValues(t, "#101010", out.Frame.Color)
}

func TestApplyRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"colour", "[theme]\ntitle_text = \"blue\"\n", "theme.title_text"},
		{"texture colour", "[theme.frame]\ncolor = \"#zzz\"\n", "theme.frame.color"},
		{"bullet", "[menu]\nbullet = \"triangel\"\n", `did you mean "triangle"`},
		{"justify", "[menu]\ntitle_justify = \"rihgt\"\n", "menu.title_justify"},
		{"size", "[menu]\nitem_height = 0\n", "menu.item_height must be >= 1"},
		{"delay", "[menu]\nopen_delay = \"-1s\"\n", "delays must be >= 0"},
		{"mode", "[search]\nmode = \"itemstrat\"\n", `did you mean "itemstart"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := ParseFile([]byte(tc.body))
			require.NoError(t, err)
			_, _, err = f.Apply(theme.DefaultMenu())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestApplyJustifyAndFonts(t *testing.T) {
	f, err := ParseFile([]byte(`
[theme]
title_bold = false
frame_bold = true

[menu]
bullet_position = "left"
title_justify = "centre"
frame_justify = "right"
`))
	require.NoError(t, err)
	out, _, err := f.Apply(theme.DefaultMenu())
	require.NoError(t, err)
	assert.False(t, out.TitleFont.Bold)
	assert.True(t, out.FrameFont.Bold)
	assert.Equal(t, theme.JustifyLeft, out.BulletPos)
	assert.Equal(t, theme.JustifyCenter, out.TitleJustify)
	assert.Equal(t, theme.JustifyRight, out.FrameJustify)
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "somewhere", suggest("SOMEWH", search.ModeNames))
	assert.Equal(t, "nowhere", suggest("nowher", search.ModeNames))
	assert.Equal(t, "", suggest("completely-different", search.ModeNames))
	assert.Equal(t, "", suggest("", search.ModeNames))
}
