package components

import tea "github.com/charmbracelet/bubbletea"

// Key represents a key binding.
type Key struct {
	Key  string
	Help string
}

// Keymap contains all key bindings for the application.
type Keymap struct {
	// Day navigation (arrow keys always work, these are the Vim keys)
	Up    Key
	Down  Key
	Left  Key
	Right Key

	// Month navigation
	PrevMonth  Key
	NextMonth  Key
	FirstMonth Key
	LastMonth  Key
	Today      Key

	// Actions
	Select     Key
	ToggleView Key
	Annotate   Key
	Unannotate Key
	ClearMonth Key
	Back       Key
	Quit       Key
	Help       Key
}

// DefaultKeymap returns the default Vim-style key bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Up:    Key{Key: "k", Help: "previous week"},
		Down:  Key{Key: "j", Help: "next week"},
		Left:  Key{Key: "h", Help: "previous day"},
		Right: Key{Key: "l", Help: "next day"},

		PrevMonth:  Key{Key: "[", Help: "previous month"},
		NextMonth:  Key{Key: "]", Help: "next month"},
		FirstMonth: Key{Key: "g", Help: "first month (gg)"},
		LastMonth:  Key{Key: "G", Help: "last month"},
		Today:      Key{Key: "t", Help: "today"},

		Select:     Key{Key: "enter", Help: "click date"},
		ToggleView: Key{Key: "v", Help: "switch calendar view"},
		Annotate:   Key{Key: "a", Help: "edit annotation"},
		Unannotate: Key{Key: "x", Help: "remove annotation"},
		ClearMonth: Key{Key: "X", Help: "clear month annotations"},
		Back:       Key{Key: "esc", Help: "back"},
		Quit:       Key{Key: "q", Help: "quit"},
		Help:       Key{Key: "?", Help: "help"},
	}
}

// KeyState tracks multi-key sequences (like 'gg').
type KeyState struct {
	WaitingG bool // Waiting for second 'g' in 'gg'
}

// HandleKey processes a key press and returns the action to take.
// Returns the action name and whether the key was consumed. Without
// vimMode the h/j/k/l keys are not bound.
func (ks *KeyState) HandleKey(msg tea.KeyMsg, keymap Keymap, vimMode bool) (string, bool) {
	key := msg.String()

	// Handle 'gg' sequence (first month)
	if ks.WaitingG {
		ks.WaitingG = false
		if key == keymap.FirstMonth.Key {
			return "first_month", true
		}
		// If not 'g', reset and process normally
	}

	if key == keymap.FirstMonth.Key {
		ks.WaitingG = true
		return "", true // Key consumed, waiting for next
	}

	switch key {
	case "up":
		return "up", true
	case "down":
		return "down", true
	case "left":
		return "left", true
	case "right":
		return "right", true
	case "pgup":
		return "prev_month", true
	case "pgdown":
		return "next_month", true
	case " ":
		return "select", true
	}

	if vimMode {
		switch key {
		case keymap.Up.Key:
			return "up", true
		case keymap.Down.Key:
			return "down", true
		case keymap.Left.Key:
			return "left", true
		case keymap.Right.Key:
			return "right", true
		}
	}

	switch key {
	case keymap.PrevMonth.Key:
		return "prev_month", true
	case keymap.NextMonth.Key:
		return "next_month", true
	case keymap.LastMonth.Key:
		return "last_month", true
	case keymap.Today.Key:
		return "today", true
	case keymap.Select.Key:
		return "select", true
	case keymap.ToggleView.Key:
		return "toggle_view", true
	case keymap.Annotate.Key:
		return "annotate", true
	case keymap.Unannotate.Key:
		return "unannotate", true
	case keymap.ClearMonth.Key:
		return "clear_month", true
	case keymap.Back.Key:
		return "back", true
	case keymap.Quit.Key:
		return "quit", true
	case keymap.Help.Key:
		return "help", true
	}

	return "", false
}

// Reset clears any pending multi-key sequences.
func (ks *KeyState) Reset() {
	ks.WaitingG = false
}

// HelpItems returns a slice of key-description pairs for the help view.
func (k Keymap) HelpItems(vimMode bool) [][]string {
	days := "←/→/↑/↓"
	if vimMode {
		days = k.Left.Key + "/" + k.Right.Key + "/" + k.Up.Key + "/" + k.Down.Key + " " + days
	}

	return [][]string{
		{"Navigation", ""},
		{days, "Move by day/week"},
		{k.PrevMonth.Key + "/" + k.NextMonth.Key, "Previous/next month"},
		{"gg/" + k.LastMonth.Key, "First/last month"},
		{k.Today.Key, "Go to today"},
		{"", ""},
		{"Calendar", ""},
		{k.Select.Key + "/space", "Click date"},
		{k.ToggleView.Key, "Switch calendar view"},
		{"", ""},
		{"Annotations", ""},
		{k.Annotate.Key, "Add/edit annotation"},
		{k.Unannotate.Key, "Remove annotation"},
		{k.ClearMonth.Key, "Clear month"},
		{"", ""},
		{"General", ""},
		{k.Help.Key, "Toggle help"},
		{k.Back.Key, "Go back / Cancel"},
		{k.Quit.Key, "Quit"},
	}
}
