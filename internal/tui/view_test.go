package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/reactime/internal/model"
)

func TestRenderStimulusShape(t *testing.T) {
	out := renderStimulus(3)
	lines := strings.Split(out, "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(lines))
	}
	middle := strings.Count(lines[3], stimulusGlyph)
	top := strings.Count(lines[0], stimulusGlyph)
	if middle == 0 || top == 0 {
		t.Fatalf("expected glyphs on every row:\n%s", out)
	}
	if top >= middle {
		t.Fatalf("expected the middle row to be wider than the top row:\n%s", out)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m, _ := newTestModel(t, 5, 2*time.Second, Options{ReleaseMode: model.ReleaseKitty})
	out := m.renderFooter()
	for _, want := range []string{"Trial 1/5", "Wait for the circle", "esc quit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestResultsTableRows(t *testing.T) {
	res := model.Result{
		Appear:    []time.Duration{250 * time.Millisecond, 410 * time.Millisecond},
		Disappear: []time.Duration{180 * time.Millisecond, 220 * time.Millisecond},
	}
	tbl := buildResultsTable(res)
	rows := tbl.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "2" || rows[1][1] != "0.410" || rows[1][2] != "0.220" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
	view := tbl.View()
	for _, want := range []string{"0.250", "0.410", "0.220"} {
		if !strings.Contains(view, want) {
			t.Fatalf("table view missing %q:\n%s", want, view)
		}
	}
}
