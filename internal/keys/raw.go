package keys

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// MakeRaw switches the terminal behind f to raw mode and returns a function
// restoring the previous state.
func MakeRaw(f *os.File) (func() error, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", f.Name())
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return func() error {
		return term.Restore(fd, state)
	}, nil
}
