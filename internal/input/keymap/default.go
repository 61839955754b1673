package keymap

// Built-in action names understood by the keychord binary.
const (
	ActionQuit  = "quit"
	ActionEcho  = "echo"
	ActionClear = "clear"
)

// DefaultKeymap returns the bindings used when no bindings file is configured.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name:   "default",
		Source: "default",
		Bindings: []Binding{
			{Keys: "control+c|control+q|escape", Action: ActionQuit, PreventDefault: true, Description: "Quit"},
			{Keys: "control+l", Action: ActionClear, PreventDefault: true, Description: "Clear the screen"},
			{Keys: "control+s|meta+s", Action: ActionEcho, PreventDefault: true, Description: "Save (echo)"},
			{Keys: "control+z|meta+z", Action: ActionEcho, Description: "Undo (echo)"},
			{Keys: "control+shift+z|meta+shift+z|control+y", Action: ActionEcho, Description: "Redo (echo)"},
			{Keys: "f1", Action: ActionEcho, Description: "Help (echo)"},
			{Keys: "alt+arrowleft|alt+arrowright", Action: ActionEcho, Description: "History (echo)"},
		},
	}
}
