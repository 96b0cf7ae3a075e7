package executor

import (
	"fmt"
	"strings"

	"github.com/micmonay/keybd_event"
)

// stroke is one resolved key press with its modifier flags.
type stroke struct {
	code  int
	ctrl  bool
	shift bool
	alt   bool
}

var namedKeys = map[string]int{
	"enter":    keybd_event.VK_ENTER,
	"esc":      keybd_event.VK_ESC,
	"escape":   keybd_event.VK_ESC,
	"tab":      keybd_event.VK_TAB,
	"space":    keybd_event.VK_SPACE,
	"home":     keybd_event.VK_HOME,
	"end":      keybd_event.VK_END,
	"pageup":   keybd_event.VK_PAGEUP,
	"pagedown": keybd_event.VK_PAGEDOWN,
	"minus":    keybd_event.VK_MINUS,
	"up":       keybd_event.VK_UP,
	"down":     keybd_event.VK_DOWN,
	"left":     keybd_event.VK_LEFT,
	"right":    keybd_event.VK_RIGHT,
	"f1":       keybd_event.VK_F1,
	"f2":       keybd_event.VK_F2,
	"f3":       keybd_event.VK_F3,
	"f4":       keybd_event.VK_F4,
	"f5":       keybd_event.VK_F5,
	"f6":       keybd_event.VK_F6,
	"f7":       keybd_event.VK_F7,
	"f8":       keybd_event.VK_F8,
	"f9":       keybd_event.VK_F9,
	"f10":      keybd_event.VK_F10,
	"f11":      keybd_event.VK_F11,
	"f12":      keybd_event.VK_F12,
}

var digitKeys = [...]int{
	keybd_event.VK_0,
	keybd_event.VK_1,
	keybd_event.VK_2,
	keybd_event.VK_3,
	keybd_event.VK_4,
	keybd_event.VK_5,
	keybd_event.VK_6,
	keybd_event.VK_7,
	keybd_event.VK_8,
	keybd_event.VK_9,
}

var letterKeys = map[byte]int{
	'a': keybd_event.VK_A, 'b': keybd_event.VK_B, 'c': keybd_event.VK_C,
	'd': keybd_event.VK_D, 'e': keybd_event.VK_E, 'f': keybd_event.VK_F,
	'g': keybd_event.VK_G, 'h': keybd_event.VK_H, 'i': keybd_event.VK_I,
	'j': keybd_event.VK_J, 'k': keybd_event.VK_K, 'l': keybd_event.VK_L,
	'm': keybd_event.VK_M, 'n': keybd_event.VK_N, 'o': keybd_event.VK_O,
	'p': keybd_event.VK_P, 'q': keybd_event.VK_Q, 'r': keybd_event.VK_R,
	's': keybd_event.VK_S, 't': keybd_event.VK_T, 'u': keybd_event.VK_U,
	'v': keybd_event.VK_V, 'w': keybd_event.VK_W, 'x': keybd_event.VK_X,
	'y': keybd_event.VK_Y, 'z': keybd_event.VK_Z,
}

// keyCode resolves a single key name to its virtual key code.
func keyCode(name string) (int, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("empty key name")
	}
	if code, ok := namedKeys[name]; ok {
		return code, nil
	}
	if len(name) == 1 {
		ch := name[0]
		if ch >= '0' && ch <= '9' {
			return digitKeys[ch-'0'], nil
		}
		if code, ok := letterKeys[ch]; ok {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// parseStroke resolves a key or "mod+key" combo like "ctrl+s" or
// "ctrl+shift+z" to a stroke.
func parseStroke(value string) (stroke, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(value)), "+")
	if len(parts) == 0 {
		return stroke{}, fmt.Errorf("empty keystroke %q", value)
	}

	var s stroke
	for _, part := range parts[:len(parts)-1] {
		switch strings.TrimSpace(part) {
		case "ctrl", "control":
			s.ctrl = true
		case "shift":
			s.shift = true
		case "alt":
			s.alt = true
		default:
			return stroke{}, fmt.Errorf("unknown modifier %q in %q", part, value)
		}
	}

	code, err := keyCode(parts[len(parts)-1])
	if err != nil {
		return stroke{}, err
	}
	s.code = code
	return s, nil
}

// textStrokes expands literal text into per-character strokes.
func textStrokes(text string) ([]stroke, error) {
	strokes := make([]stroke, 0, len(text))
	for i := 0; i < len(text); i++ {
		code, err := keyCode(string(text[i]))
		if err != nil {
			return nil, fmt.Errorf("untypeable text %q: %w", text, err)
		}
		strokes = append(strokes, stroke{code: code})
	}
	return strokes, nil
}
