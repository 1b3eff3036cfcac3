package menu

// Kind tags what an item does when activated.
type Kind int

const (
	KindCommand Kind = iota
	KindSubmenu
	KindToggle
	KindSeparator
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindSubmenu:
		return "submenu"
	case KindToggle:
		return "toggle"
	case KindSeparator:
		return "separator"
	default:
		return "unknown"
	}
}

// Ownership decides what happens to a submenu when its item goes away.
type Ownership int

const (
	// Owned submenus are destroyed together with the item.
	Owned Ownership = iota
	// Shared submenus belong to someone else and are only ever hidden.
	Shared
)

// Command runs when an item is activated.
type Command func()

// Item is one entry of a Menu.
type Item struct {
	Label     string
	Kind      Kind
	Command   Command
	Submenu   *Menu
	Ownership Ownership
	Enabled   bool
	Selected  bool
	// CloseOnClick hides the menu chain before running Command unless the
	// click carries the control modifier.
	CloseOnClick bool

	menu *Menu
}

// NewCommand builds a plain command item.
func NewCommand(label string, cmd Command) *Item {
	return &Item{Label: label, Kind: KindCommand, Command: cmd, Enabled: true, CloseOnClick: true}
}

// NewSubmenu builds an item that owns sub.
func NewSubmenu(label string, sub *Menu) *Item {
	return &Item{Label: label, Kind: KindSubmenu, Submenu: sub, Ownership: Owned, Enabled: true}
}

// NewSharedSubmenu builds an item that opens sub without owning it.
func NewSharedSubmenu(label string, sub *Menu) *Item {
	return &Item{Label: label, Kind: KindSubmenu, Submenu: sub, Ownership: Shared, Enabled: true}
}

// NewToggle builds an item whose Selected flag flips on every click. cmd
// runs after the flip and may be nil.
func NewToggle(label string, selected bool, cmd Command) *Item {
	return &Item{Label: label, Kind: KindToggle, Command: cmd, Enabled: true, Selected: selected}
}

// NewSeparator builds a non-selectable divider.
func NewSeparator() *Item {
	return &Item{Kind: KindSeparator}
}

// SearchText is what type-ahead matches against.
func (it *Item) SearchText() string {
	if it.Kind == KindSeparator {
		return ""
	}
	return it.Label
}

// IsEnabled reports whether the item can be activated or matched.
func (it *Item) IsEnabled() bool {
	return it.Enabled && it.Kind != KindSeparator
}

// Menu is the menu the item is inserted in, if any.
func (it *Item) Menu() *Menu {
	return it.menu
}

// Click activates the item with the given button. Toggles flip first.
func (it *Item) Click(button int, mods Modifier) {
	switch it.Kind {
	case KindSeparator:
		return
	case KindToggle:
		it.Selected = !it.Selected
	case KindCommand, KindSubmenu:
	}
	if it.Command == nil {
		return
	}
	if it.menu != nil && it.CloseOnClick && mods&ModControl == 0 {
		it.menu.Hide()
	}
	cmd := it.Command
	cmd()
}
