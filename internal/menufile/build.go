package menufile

import (
	"fmt"
	"strings"

	"github.com/atomicstack/nestmenu/internal/menu"
)

// Actions are the callbacks entries are bound to. Nil callbacks leave the
// matching items without a command.
type Actions struct {
	Exec    func(command string)
	Tmux    func(line string)
	Builtin func(name, arg string)
	Toggle  func(name string, on bool)
}

// Tree is the built menu hierarchy.
type Tree struct {
	Root *menu.Menu
	// Windows is the dynamic window list every `windows: true` entry opens,
	// nil when the file has none. Its items are owned by whoever refreshes it.
	Windows *menu.Menu
	// Shared are the named menus, built once however often they are
	// referenced.
	Shared map[string]*menu.Menu
}

// Destroy releases every menu of the tree.
func (t *Tree) Destroy() {
	if t.Root != nil {
		t.Root.Destroy()
	}
	for _, m := range t.Shared {
		m.Destroy()
	}
	if t.Windows != nil {
		t.Windows.Destroy()
	}
}

type builder struct {
	coord   *menu.Coordinator
	file    *File
	actions Actions
	tree    *Tree
}

// Build creates the menus described by f on coord. f must have passed
// Validate.
func Build(coord *menu.Coordinator, f *File, actions Actions) (*Tree, error) {
	b := &builder{
		coord:   coord,
		file:    f,
		actions: actions,
		tree:    &Tree{Shared: make(map[string]*menu.Menu)},
	}
	root, err := b.menu("items", f.Title, Node{Columns: f.Columns, Align: f.Align, Items: f.Items})
	if err != nil {
		b.tree.Destroy()
		return nil, err
	}
	b.tree.Root = root
	return b.tree, nil
}

func (b *builder) menu(path, title string, node Node) (*menu.Menu, error) {
	m := menu.New(b.coord)
	m.SetLabel(title)
	if title == "" {
		m.DisableTitle()
	}
	if node.Columns > 0 {
		m.SetMinimumColumns(node.Columns)
	}
	if align, ok := parseAlign(node.Align); ok {
		m.SetAlignment(align)
	}
	for i, e := range node.Items {
		item, err := b.item(fmt.Sprintf("%s[%d]", path, i), e)
		if err != nil {
			m.Destroy()
			return nil, err
		}
		if !e.IsEnabled() {
			item.Enabled = false
		}
		m.Add(item)
	}
	return m, nil
}

func (b *builder) item(path string, e Entry) (*menu.Item, error) {
	switch {
	case e.Separator:
		return menu.NewSeparator(), nil
	case e.Exec != "":
		return menu.NewCommand(e.Label, func() {
			if b.actions.Exec != nil {
				b.actions.Exec(e.Exec)
			}
		}), nil
	case e.Tmux != "":
		return menu.NewCommand(e.Label, func() {
			if b.actions.Tmux != nil {
				b.actions.Tmux(e.Tmux)
			}
		}), nil
	case e.Builtin != "":
		name, arg, err := ParseBuiltin(e.Builtin)
		if err != nil {
			return nil, &FieldError{Path: path, Err: err}
		}
		return menu.NewCommand(e.Label, func() {
			if b.actions.Builtin != nil {
				b.actions.Builtin(name, arg)
			}
		}), nil
	case e.Toggle != "":
		it := menu.NewToggle(e.Label, e.Checked, nil)
		it.Command = func() {
			if b.actions.Toggle != nil {
				b.actions.Toggle(e.Toggle, it.Selected)
			}
		}
		return it, nil
	case e.Submenu != nil:
		title := e.Submenu.Title
		if title == "" {
			title = e.Label
		}
		sub, err := b.menu(path+".submenu.items", title, *e.Submenu)
		if err != nil {
			return nil, err
		}
		return menu.NewSubmenu(e.Label, sub), nil
	case e.Ref != "":
		sub, err := b.shared(e.Ref)
		if err != nil {
			return nil, &FieldError{Path: path, Err: err}
		}
		return menu.NewSharedSubmenu(e.Label, sub), nil
	case e.Windows:
		if b.tree.Windows == nil {
			b.tree.Windows = menu.New(b.coord)
			b.tree.Windows.SetLabel(e.Label)
		}
		return menu.NewSharedSubmenu(e.Label, b.tree.Windows), nil
	default:
		return nil, &FieldError{Path: path, Err: fmt.Errorf("no action")}
	}
}

func (b *builder) shared(name string) (*menu.Menu, error) {
	if m, ok := b.tree.Shared[name]; ok {
		return m, nil
	}
	node, ok := b.file.Menus[name]
	if !ok {
		return nil, fmt.Errorf("unknown menu %q", name)
	}
	title := node.Title
	if title == "" {
		title = name
	}
	m, err := b.menu("menus."+name+".items", title, node)
	if err != nil {
		return nil, err
	}
	b.tree.Shared[name] = m
	return m, nil
}

func parseAlign(s string) (menu.Alignment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return menu.AlignDontCare, true
	case "top":
		return menu.AlignTop, true
	case "bottom":
		return menu.AlignBottom, true
	default:
		return menu.AlignDontCare, false
	}
}
