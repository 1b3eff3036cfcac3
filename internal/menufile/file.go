// Package menufile reads the YAML description of a menu tree and builds the
// live menus from it.
package menufile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/atomicstack/nestmenu/internal/search"
)

//go:embed default.yaml
var defaultMenu []byte

// File is a whole menu file: the root menu plus named menus that entries
// can share by reference.
type File struct {
	Title   string          `yaml:"title"`
	Columns int             `yaml:"columns"`
	Align   string          `yaml:"align"`
	Items   []Entry         `yaml:"items"`
	Menus   map[string]Node `yaml:"menus"`
}

// Node is one menu. In YAML it is either a mapping with title, columns,
// align and items, or a bare list of items.
type Node struct {
	Title   string `yaml:"title"`
	Columns int    `yaml:"columns"`
	// Align places this menu's submenus: "top", "bottom" or empty.
	Align string  `yaml:"align"`
	Items []Entry `yaml:"items"`
}

// UnmarshalYAML accepts the list shorthand.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		return value.Decode(&n.Items)
	}
	type plain Node
	return value.Decode((*plain)(n))
}

// Entry is one menu item. Exactly one action field must be set.
type Entry struct {
	Label     string `yaml:"label"`
	Exec      string `yaml:"exec"`
	Tmux      string `yaml:"tmux"`
	Builtin   string `yaml:"builtin"`
	Toggle    string `yaml:"toggle"`
	Checked   bool   `yaml:"checked"`
	Submenu   *Node  `yaml:"submenu"`
	Ref       string `yaml:"ref"`
	Windows   bool   `yaml:"windows"`
	Separator bool   `yaml:"separator"`
	Enabled   *bool  `yaml:"enabled"`
}

// IsEnabled defaults to true when enabled is absent.
func (e Entry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

func (e Entry) actions() []string {
	var set []string
	if e.Exec != "" {
		set = append(set, "exec")
	}
	if e.Tmux != "" {
		set = append(set, "tmux")
	}
	if e.Builtin != "" {
		set = append(set, "builtin")
	}
	if e.Toggle != "" {
		set = append(set, "toggle")
	}
	if e.Submenu != nil {
		set = append(set, "submenu")
	}
	if e.Ref != "" {
		set = append(set, "ref")
	}
	if e.Windows {
		set = append(set, "windows")
	}
	if e.Separator {
		set = append(set, "separator")
	}
	return set
}

// Builtin names.
const (
	BuiltinExit        = "exit"
	BuiltinReconfigure = "reconfigure"
	// BuiltinSearchMode takes a mode name: "search-mode:somewhere".
	BuiltinSearchMode = "search-mode"
)

// ParseBuiltin splits a builtin into its name and argument and checks it.
func ParseBuiltin(s string) (name, arg string, err error) {
	switch {
	case s == BuiltinExit, s == BuiltinReconfigure:
		return s, "", nil
	case strings.HasPrefix(s, BuiltinSearchMode+":"):
		arg = strings.TrimPrefix(s, BuiltinSearchMode+":")
		if _, ok := search.ParseMode(arg); !ok {
			return "", "", fmt.Errorf("unknown search mode %q (want one of %s)", arg, strings.Join(search.ModeNames, ", "))
		}
		return BuiltinSearchMode, arg, nil
	default:
		return "", "", fmt.Errorf("unknown builtin %q", s)
	}
}

// FieldError locates a problem in the file.
type FieldError struct {
	Path string
	Err  error
}

func (e *FieldError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// ErrRefCycle is wrapped by errors for menus that reference themselves.
var ErrRefCycle = errors.New("menu reference cycle")

// Parse decodes and validates data.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads path and parses it.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Default is the built-in menu tree.
func Default() *File {
	f, err := Parse(defaultMenu)
	if err != nil {
		panic(fmt.Sprintf("built-in menu: %v", err))
	}
	return f
}

// Validate checks every entry and the reference graph. All problems are
// reported together.
func (f *File) Validate() error {
	var errs []error
	if len(f.Items) == 0 {
		errs = append(errs, errors.New("root menu has no items"))
	}
	if err := checkAlign("align", f.Align); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, f.validateItems("items", f.Items)...)
	for _, name := range f.menuNames() {
		node := f.Menus[name]
		if err := checkAlign("menus."+name+".align", node.Align); err != nil {
			errs = append(errs, err)
		}
		errs = append(errs, f.validateItems("menus."+name+".items", node.Items)...)
	}
	if err := f.checkCycles(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (f *File) menuNames() []string {
	names := make([]string, 0, len(f.Menus))
	for name := range f.Menus {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *File) validateItems(path string, items []Entry) []error {
	var errs []error
	for i, e := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		fail := func(format string, args ...any) {
			errs = append(errs, &FieldError{Path: p, Err: fmt.Errorf(format, args...)})
		}
		acts := e.actions()
		switch len(acts) {
		case 0:
			fail("no action (want one of exec, tmux, builtin, toggle, submenu, ref, windows, separator)")
			continue
		case 1:
		default:
			fail("more than one action: %s", strings.Join(acts, ", "))
			continue
		}
		if !e.Separator && strings.TrimSpace(e.Label) == "" {
			fail("missing label")
		}
		if e.Checked && e.Toggle == "" {
			fail("checked is only valid on toggles")
		}
		switch {
		case e.Builtin != "":
			if _, _, err := ParseBuiltin(e.Builtin); err != nil {
				fail("%v", err)
			}
		case e.Ref != "":
			if _, ok := f.Menus[e.Ref]; !ok {
				fail("unknown menu %q", e.Ref)
			}
		case e.Submenu != nil:
			if len(e.Submenu.Items) == 0 {
				fail("empty submenu")
			}
			if err := checkAlign(p+".submenu.align", e.Submenu.Align); err != nil {
				errs = append(errs, err)
			}
			errs = append(errs, f.validateItems(p+".submenu.items", e.Submenu.Items)...)
		}
	}
	return errs
}

func checkAlign(path, value string) error {
	if _, ok := parseAlign(value); !ok {
		return &FieldError{Path: path, Err: fmt.Errorf("unknown alignment %q (want top or bottom)", value)}
	}
	return nil
}

// checkCycles walks the reference graph between named menus.
func (f *File) checkCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(f.Menus))
	var visit func(name string, trail []string) error
	visit = func(name string, trail []string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("%w: %s", ErrRefCycle, strings.Join(append(trail, name), " -> "))
		case done:
			return nil
		}
		state[name] = visiting
		for _, ref := range refsOf(f.Menus[name].Items) {
			if _, ok := f.Menus[ref]; !ok {
				continue
			}
			if err := visit(ref, append(trail, name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}
	for _, name := range f.menuNames() {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

func refsOf(items []Entry) []string {
	var refs []string
	for _, e := range items {
		if e.Ref != "" {
			refs = append(refs, e.Ref)
		}
		if e.Submenu != nil {
			refs = append(refs, refsOf(e.Submenu.Items)...)
		}
	}
	return refs
}
