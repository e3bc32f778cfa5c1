package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Trial", "Appear (s)", "Note"}
	rows := [][]string{
		{"1", "0.512", "ok"},
		{"10", "1.004", "slow"},
	}
	rightAlign := map[int]bool{0: true, 1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Trial Appear (s) Note" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "    1      0.512 ok  " {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "   10      1.004 slow" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"A"}, [][]string{{"円円"}}, nil)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "A   " {
		t.Fatalf("expected header padded to display width 4, got %q", lines[0])
	}
}
