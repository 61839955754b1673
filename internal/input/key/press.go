package key

// Press returns the signal sequence a keyboard produces for one chord:
// modifier downs, the key down, the key up and the modifier ups in reverse
// order. Each signal carries the modifiers held at that moment. Sources that
// only learn about whole chords, like terminals or global hotkeys, replay
// presses through it.
func Press(id string, mods Modifier) (downs, ups []*Event) {
	names := mods.Keys()

	var held Modifier
	for _, name := range names {
		held |= ModifierFromName(name)
		downs = append(downs, NewKeyDown(name, CodeFor(name), held))
	}

	// Identifiers outside the code table keep the identifier as their code.
	code := CodeFor(id)
	downs = append(downs, NewKeyDown(id, code, mods))
	ups = append(ups, NewKeyUp(id, code, mods))

	for i := len(names) - 1; i >= 0; i-- {
		held &^= ModifierFromName(names[i])
		ups = append(ups, NewKeyUp(names[i], CodeFor(names[i]), held))
	}
	return downs, ups
}
