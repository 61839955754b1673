// Package key provides the key signal type and the small helpers shared by
// the matcher, the tracker and the signal sources.
//
// This package defines:
//
//   - Event: a key-down or key-up signal as reported by the host platform
//   - Modifier: the modifier flags carried by a signal (Ctrl, Alt, Shift, Meta)
//   - Set: an insertion-ordered set of normalised identifiers
//   - Normalize: the case folding applied to identifiers, codes and patterns
//
// # Identifiers and Codes
//
// Every signal carries two names for the same key: the logical identifier
// ("Control", "a", "Enter") and the physical code ("ControlLeft", "KeyA",
// "Enter"). Both are passed through exactly as the platform reports them and
// only lower-cased for comparison. Sources that only know logical keys (such
// as a terminal) synthesise a code with CodeFor.
package key
