package input

// keyInfo maps a host key name to its DOM code and legacy key code.
type keyInfo struct {
	code    string
	keyCode int
}

var namedKeys = map[string]keyInfo{
	"Left":        {"ArrowLeft", 37},
	"Up":          {"ArrowUp", 38},
	"Right":       {"ArrowRight", 39},
	"Down":        {"ArrowDown", 40},
	"Escape":      {"Escape", 27},
	"Space":       {"Space", 32},
	"Return":      {"Enter", 13},
	"Backspace":   {"Backspace", 8},
	"Tab":         {"Tab", 9},
	"Left Shift":  {"ShiftLeft", 16},
	"Right Shift": {"ShiftRight", 16},
	"Left Ctrl":   {"ControlLeft", 17},
	"Right Ctrl":  {"ControlRight", 17},
	"Left Alt":    {"AltLeft", 18},
	"Right Alt":   {"AltRight", 18},
}

// KeyboardEvent builds a keyboard event from a host scancode name such as
// "Left", "A" or "7". Unknown names keep the raw name as Code and a zero
// key code.
func KeyboardEvent(t EventType, name string) *Event {
	ev := &Event{Type: t, Code: name}
	if info, ok := namedKeys[name]; ok {
		ev.Code, ev.Which, ev.KeyCode = info.code, info.keyCode, info.keyCode
		return ev
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'A' && c <= 'Z':
			ev.Code = "Key" + name
			ev.Which, ev.KeyCode = int(c), int(c)
		case c >= 'a' && c <= 'z':
			upper := c - 'a' + 'A'
			ev.Code = "Key" + string(rune(upper))
			ev.Which, ev.KeyCode = int(upper), int(upper)
		case c >= '0' && c <= '9':
			ev.Code = "Digit" + name
			ev.Which, ev.KeyCode = int(c), int(c)
		}
	}
	return ev
}
