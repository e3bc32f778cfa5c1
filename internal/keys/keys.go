// Package keys turns terminal input into a binary key-down/key-up signal.
package keys

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Kind distinguishes presses from releases.
type Kind int

// Key event kinds.
const (
	Press Kind = iota
	Release
)

func (k Kind) String() string {
	if k == Release {
		return "release"
	}
	return "press"
}

// Event is a press or release of the response key.
type Event struct {
	Kind Kind
	At   time.Time
}

const (
	enableKitty  = "\x1b[>15u"
	disableKitty = "\x1b[<u"
)

// ParseKey resolves a key name to the code point the terminal reports for it.
func ParseKey(name string) (rune, error) {
	if name == " " {
		return ' ', nil
	}
	trimmed := strings.TrimSpace(name)
	switch strings.ToLower(trimmed) {
	case "space":
		return ' ', nil
	case "enter", "return":
		return '\r', nil
	case "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(trimmed) != 1 {
		return 0, fmt.Errorf("unsupported key %q (use \"space\" or a single character)", name)
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	if !unicode.IsPrint(r) {
		return 0, fmt.Errorf("unsupported key %q (not printable)", name)
	}
	return unicode.ToLower(r), nil
}

// KeyName renders a key code the way ParseKey accepts it.
func KeyName(code rune) string {
	switch code {
	case ' ':
		return "space"
	case '\r':
		return "enter"
	case '\t':
		return "tab"
	default:
		return string(code)
	}
}

// EnableKitty asks the terminal to report key releases using the kitty
// keyboard protocol (disambiguate, event types, alternate keys, all keys
// as escapes).
func EnableKitty(w io.Writer) error {
	_, err := io.WriteString(w, enableKitty)
	return err
}

// DisableKitty pops the flags pushed by EnableKitty.
func DisableKitty(w io.Writer) error {
	_, err := io.WriteString(w, disableKitty)
	return err
}
