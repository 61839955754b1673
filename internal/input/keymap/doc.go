// Package keymap holds shortcut registrations and bindings files.
//
// # Registry
//
// A Registry maps combination patterns to ordered entry lists. Patterns keep
// their insertion order, which is the order a dispatch pass visits them.
// Registering with Once replaces the whole entry list for the pattern while
// keeping the pattern's position; OffAll removes the pattern, so a later
// registration appends it at the end.
//
//	reg := keymap.NewRegistry()
//	entry := reg.On("control+s|meta+s", dispatch.Sync(save), keymap.PreventDefault())
//	reg.OffID("control+s|meta+s", entry.ID)
//
// # Bindings Files
//
// A bindings file declares registrations by name instead of code. JSON, YAML
// and TOML are accepted, selected by extension:
//
//	{
//	  "name": "editor",
//	  "bindings": [
//	    {"keys": "control+s|meta+s", "action": "save", "preventDefault": true},
//	    {"keys": "f1", "script": "log('help')"}
//	  ]
//	}
//
// Actions are resolved by the host through a Resolver; scripts are compiled by
// a Resolver from the script package.
package keymap
