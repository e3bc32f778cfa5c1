package keys

import (
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	kittyPress   = 1
	kittyRepeat  = 2
	kittyRelease = 3

	modShift = 1
	modAlt   = 2
	modCtrl  = 4
	modLocks = 64 | 128

	// Kitty reports modifier-only and keypad keys in the private use area.
	kittyFunctionalBase = 0xE000

	// Longest escape sequence held back while waiting for its final byte.
	maxPending = 64
)

// Filter reads terminal input encoded with the kitty keyboard protocol.
// Press and release reports of the response key are delivered to emit and
// removed from the stream; every other key is rewritten to its legacy bytes
// so a conventional terminal input parser can consume the output.
type Filter struct {
	r    io.Reader
	code rune
	emit func(Event)
	now  func() time.Time

	buf     []byte
	pending []byte
	out     []byte
	err     error
}

// NewFilter wraps r and reports the response key through emit.
func NewFilter(r io.Reader, code rune, emit func(Event)) *Filter {
	return &Filter{
		r:    r,
		code: code,
		emit: emit,
		now:  time.Now,
		buf:  make([]byte, 256),
	}
}

// Read implements io.Reader.
func (f *Filter) Read(p []byte) (int, error) {
	for len(f.out) == 0 {
		if f.err != nil {
			if len(f.pending) > 0 {
				f.out = append(f.out, f.pending...)
				f.pending = nil
				break
			}
			return 0, f.err
		}
		n, err := f.r.Read(f.buf)
		if n > 0 {
			f.feed(f.buf[:n], f.now())
		}
		if err != nil {
			f.err = err
		}
	}
	n := copy(p, f.out)
	f.out = f.out[n:]
	return n, nil
}

func (f *Filter) feed(chunk []byte, at time.Time) {
	data := append(f.pending, chunk...)
	f.pending = nil
	i := 0
	for i < len(data) {
		if data[i] != 0x1b {
			f.out = append(f.out, data[i])
			i++
			continue
		}
		if i+1 >= len(data) {
			// A read holding only ESC is the Esc key itself.
			if len(data) == 1 {
				f.out = append(f.out, data[i])
				return
			}
			f.pending = append([]byte(nil), data[i:]...)
			return
		}
		if data[i+1] != '[' {
			f.out = append(f.out, data[i])
			i++
			continue
		}
		j := i + 2
		for j < len(data) && data[j] >= 0x20 && data[j] <= 0x3f {
			j++
		}
		if j >= len(data) {
			if len(data)-i > maxPending {
				f.out = append(f.out, data[i:]...)
				return
			}
			f.pending = append([]byte(nil), data[i:]...)
			return
		}
		f.handleCSI(data[j], string(data[i+2:j]), data[i:j+1], at)
		i = j + 1
	}
}

func (f *Filter) handleCSI(final byte, params string, seq []byte, at time.Time) {
	if final != 'u' {
		f.out = append(f.out, legacyCSI(final, params, seq)...)
		return
	}
	key, ok := parseKittyKey(params)
	if !ok {
		f.out = append(f.out, seq...)
		return
	}
	if key.code == f.code {
		switch key.event {
		case kittyPress:
			f.emit(Event{Kind: Press, At: at})
		case kittyRelease:
			f.emit(Event{Kind: Release, At: at})
		}
		return
	}
	if key.event == kittyRelease {
		return
	}
	f.out = append(f.out, key.legacy()...)
}

type kittyKey struct {
	code    rune
	shifted rune
	mods    int
	event   int
}

// parseKittyKey parses "code[:shifted[:base]][;mods[:event][;text]]".
func parseKittyKey(params string) (kittyKey, bool) {
	fields := strings.Split(params, ";")
	keyParts := strings.Split(fields[0], ":")
	code, err := strconv.Atoi(keyParts[0])
	if err != nil || code < 0 {
		return kittyKey{}, false
	}
	key := kittyKey{code: rune(code), event: kittyPress}
	if len(keyParts) > 1 && keyParts[1] != "" {
		shifted, err := strconv.Atoi(keyParts[1])
		if err != nil {
			return kittyKey{}, false
		}
		key.shifted = rune(shifted)
	}
	if len(fields) > 1 && fields[1] != "" {
		modParts := strings.Split(fields[1], ":")
		if modParts[0] != "" {
			mods, err := strconv.Atoi(modParts[0])
			if err != nil || mods < 1 {
				return kittyKey{}, false
			}
			key.mods = (mods - 1) &^ modLocks
		}
		if len(modParts) > 1 && modParts[1] != "" {
			event, err := strconv.Atoi(modParts[1])
			if err != nil {
				return kittyKey{}, false
			}
			key.event = event
		}
	}
	return key, true
}

func (k kittyKey) legacy() []byte {
	var out []byte
	if k.mods&modAlt != 0 {
		out = append(out, 0x1b)
	}
	switch {
	case k.code >= kittyFunctionalBase:
		return nil
	case k.code == 27, k.code == 13, k.code == 0:
		return append(out, byte(k.code))
	case k.code == 9:
		if k.mods&modShift != 0 {
			return append(out, "\x1b[Z"...)
		}
		return append(out, '\t')
	case k.code == 127:
		if k.mods&modCtrl != 0 {
			return append(out, 0x08)
		}
		return append(out, 0x7f)
	case k.mods&modCtrl != 0 && k.code >= 'a' && k.code <= 'z':
		return append(out, byte(k.code-'a'+1))
	case k.mods&modCtrl != 0 && k.code == ' ':
		return append(out, 0x00)
	}
	r := k.code
	if k.mods&modShift != 0 {
		switch {
		case k.shifted != 0:
			r = k.shifted
		case r >= 'a' && r <= 'z':
			r -= 'a' - 'A'
		}
	}
	return utf8.AppendRune(out, r)
}

// legacyCSI strips kitty event types from cursor and tilde key reports.
// Releases are dropped; presses and repeats are rewritten without the
// event field so they match the legacy encoding.
func legacyCSI(final byte, params string, seq []byte) []byte {
	if !strings.Contains(params, ":") {
		return seq
	}
	fields := strings.Split(params, ";")
	if len(fields) < 2 {
		return seq
	}
	modParts := strings.Split(fields[1], ":")
	if len(modParts) < 2 {
		return seq
	}
	if modParts[1] == strconv.Itoa(kittyRelease) {
		return nil
	}
	fields[1] = modParts[0]
	if fields[1] == "1" && len(fields) == 2 {
		fields = fields[:1]
		if fields[0] == "1" && final != '~' {
			fields = nil
		}
	}
	out := []byte("\x1b[")
	out = append(out, strings.Join(fields, ";")...)
	return append(out, final)
}
