package key

import (
	"strings"
	"unicode/utf8"
)

// namedCodes maps lower-cased logical identifiers to the physical code a
// standard US keyboard reports for them. Modifiers map to their left variant.
var namedCodes = map[string]string{
	"control":    "ControlLeft",
	"shift":      "ShiftLeft",
	"alt":        "AltLeft",
	"meta":       "MetaLeft",
	"enter":      "Enter",
	"escape":     "Escape",
	"tab":        "Tab",
	"backspace":  "Backspace",
	"delete":     "Delete",
	"insert":     "Insert",
	"home":       "Home",
	"end":        "End",
	"pageup":     "PageUp",
	"pagedown":   "PageDown",
	"arrowup":    "ArrowUp",
	"arrowdown":  "ArrowDown",
	"arrowleft":  "ArrowLeft",
	"arrowright": "ArrowRight",
	" ":          "Space",
	"space":      "Space",
	"capslock":   "CapsLock",
	"-":          "Minus",
	"=":          "Equal",
	"[":          "BracketLeft",
	"]":          "BracketRight",
	"\\":         "Backslash",
	";":          "Semicolon",
	"'":          "Quote",
	"`":          "Backquote",
	",":          "Comma",
	".":          "Period",
	"/":          "Slash",
}

// CodeFor returns the physical code a standard keyboard reports for a
// logical identifier: "a" -> "KeyA", "7" -> "Digit7", "control" ->
// "ControlLeft", "f5" -> "F5". Unknown identifiers are returned unchanged.
func CodeFor(id string) string {
	lower := Normalize(id)
	if code, ok := namedCodes[lower]; ok {
		return code
	}
	if utf8.RuneCountInString(lower) == 1 {
		r, _ := utf8.DecodeRuneInString(lower)
		switch {
		case 'a' <= r && r <= 'z':
			return "Key" + strings.ToUpper(lower)
		case '0' <= r && r <= '9':
			return "Digit" + lower
		}
	}
	if len(lower) >= 2 && lower[0] == 'f' && isDigits(lower[1:]) {
		return "F" + lower[1:]
	}
	return id
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
