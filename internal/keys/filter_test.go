package keys

import (
	"bytes"
	"io"
	"testing"
	"time"
)

// chunkReader returns one chunk per Read call.
type chunkReader struct {
	chunks []string
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	c.chunks = c.chunks[1:]
	return n, nil
}

func newTestFilter(r io.Reader, code rune) (*Filter, *[]Event) {
	var events []Event
	f := NewFilter(r, code, func(ev Event) {
		events = append(events, ev)
	})
	at := time.Unix(50, 0)
	f.now = func() time.Time { return at }
	return f, &events
}

func readAllFiltered(t *testing.T, f *Filter) string {
	t.Helper()
	out, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(out)
}

func TestFilterEmitsResponseKeyEvents(t *testing.T) {
	input := "\x1b[32u" + "\x1b[32;1:2u" + "\x1b[32;1:3u"
	f, events := newTestFilter(bytes.NewReader([]byte(input)), ' ')
	if out := readAllFiltered(t, f); out != "" {
		t.Fatalf("expected response key to be removed from the stream, got %q", out)
	}
	if len(*events) != 2 {
		t.Fatalf("expected press and release, got %+v", *events)
	}
	if (*events)[0].Kind != Press || (*events)[1].Kind != Release {
		t.Fatalf("unexpected event kinds: %+v", *events)
	}
	if !(*events)[1].At.Equal(time.Unix(50, 0)) {
		t.Fatalf("unexpected event time: %v", (*events)[1].At)
	}
}

func TestFilterTranslatesOtherKeys(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "ctrl+c", input: "\x1b[99;5u", want: "\x03"},
		{name: "escape", input: "\x1b[27u", want: "\x1b"},
		{name: "letter", input: "\x1b[113u", want: "q"},
		{name: "shifted letter", input: "\x1b[97;2u", want: "A"},
		{name: "shifted digit", input: "\x1b[49:33;2u", want: "!"},
		{name: "alt letter", input: "\x1b[120;3u", want: "\x1bx"},
		{name: "enter", input: "\x1b[13u", want: "\r"},
		{name: "shift tab", input: "\x1b[9;2u", want: "\x1b[Z"},
		{name: "release dropped", input: "\x1b[113;1:3u", want: ""},
		{name: "repeat kept", input: "\x1b[113;1:2u", want: "q"},
		{name: "modifier key dropped", input: "\x1b[57441;2u", want: ""},
		{name: "caps lock ignored", input: "\x1b[99;69u", want: "\x03"},
		{name: "plain bytes", input: "hi", want: "hi"},
		{name: "legacy arrow", input: "\x1b[A", want: "\x1b[A"},
		{name: "arrow press with event", input: "\x1b[1;1:1A", want: "\x1b[A"},
		{name: "arrow release", input: "\x1b[1;1:3A", want: ""},
		{name: "shift arrow", input: "\x1b[1;2:1A", want: "\x1b[1;2A"},
		{name: "delete repeat", input: "\x1b[3;1:2~", want: "\x1b[3~"},
		{name: "protocol reply", input: "\x1b[?15u", want: "\x1b[?15u"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, events := newTestFilter(bytes.NewReader([]byte(tc.input)), ' ')
			if out := readAllFiltered(t, f); out != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, out)
			}
			if len(*events) != 0 {
				t.Fatalf("expected no response key events, got %+v", *events)
			}
		})
	}
}

func TestFilterHoldsSplitSequences(t *testing.T) {
	r := &chunkReader{chunks: []string{"a\x1b", "[32", ";1:3u", "b"}}
	f, events := newTestFilter(r, ' ')
	if out := readAllFiltered(t, f); out != "ab" {
		t.Fatalf("expected surrounding bytes to survive, got %q", out)
	}
	if len(*events) != 1 || (*events)[0].Kind != Release {
		t.Fatalf("expected one release, got %+v", *events)
	}
}

func TestFilterPassesLoneEscapeWithoutBlocking(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	f, _ := newTestFilter(pr, ' ')

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		buf := make([]byte, 16)
		n, err := f.Read(buf)
		done <- result{out: string(buf[:n]), err: err}
	}()
	if _, err := pw.Write([]byte("\x1b")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("read: %v", res.err)
		}
		if res.out != "\x1b" {
			t.Fatalf("expected lone escape, got %q", res.out)
		}
	case <-time.After(time.Second):
		t.Fatalf("read still blocked after a lone escape")
	}
}

func TestFilterFlushesIncompleteSequenceAtEOF(t *testing.T) {
	f, _ := newTestFilter(bytes.NewReader([]byte("x\x1b[12")), ' ')
	if out := readAllFiltered(t, f); out != "x\x1b[12" {
		t.Fatalf("expected incomplete sequence to be flushed, got %q", out)
	}
}

func TestParseKey(t *testing.T) {
	cases := map[string]rune{
		"space": ' ',
		"SPACE": ' ',
		" ":     ' ',
		"enter": '\r',
		"j":     'j',
		"J":     'j',
	}
	for name, want := range cases {
		got, err := ParseKey(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %q, got %q", name, want, got)
		}
	}
	if _, err := ParseKey("ctrl+x"); err == nil {
		t.Fatalf("expected error for multi-character key")
	}
	if _, err := ParseKey(""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestKittyToggleSequences(t *testing.T) {
	var buf bytes.Buffer
	if err := EnableKitty(&buf); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := DisableKitty(&buf); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if buf.String() != "\x1b[>15u\x1b[<u" {
		t.Fatalf("unexpected sequences: %q", buf.String())
	}
}
