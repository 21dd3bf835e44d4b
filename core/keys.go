package core

import "strings"

// Key codes are GLFW key tokens. They are plain ints here so packages that
// only reason about keys do not link against GLFW.
const (
	KeyK      = 75
	KeyL      = 76
	KeyO      = 79
	KeyT      = 84
	KeyEscape = 256
	KeyRight  = 262
	KeyLeft   = 263
	KeyDown   = 264
	KeyUp     = 265
)

var keyNames = map[string]int{
	"k":      KeyK,
	"l":      KeyL,
	"o":      KeyO,
	"t":      KeyT,
	"escape": KeyEscape,
	"esc":    KeyEscape,
	"right":  KeyRight,
	"left":   KeyLeft,
	"down":   KeyDown,
	"up":     KeyUp,
}

// KeyByName resolves a key name such as "up" or "K". Unknown names report
// false.
func KeyByName(name string) (int, bool) {
	code, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

func KeyName(code int) string {
	for name, c := range keyNames {
		if c == code && name != "esc" {
			return name
		}
	}
	return "unknown"
}
