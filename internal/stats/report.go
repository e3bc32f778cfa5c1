package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/reactime/internal/model"
)

// RenderReport prints per-trial samples and averages for a completed session.
func RenderReport(w io.Writer, res model.Result) error {
	if res.Trials() == 0 {
		_, err := fmt.Fprintln(w, "No trials recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Trial Reaction Times"); err != nil {
		return err
	}
	headers := []string{"Trial", "Appear (s)", "Disappear (s)"}
	rows := make([][]string, 0, res.Trials())
	for i, appear := range res.Appear {
		disappear := "-"
		if i < len(res.Disappear) {
			disappear = FormatSeconds(res.Disappear[i])
		}
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), FormatSeconds(appear), disappear})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	appear := Summarize(res.Appear)
	disappear := Summarize(res.Disappear)
	lines := []string{
		fmt.Sprintf("Average reaction time to appearance: %s seconds", FormatSeconds(appear.Mean)),
		fmt.Sprintf("Average reaction time to disappearance: %s seconds", FormatSeconds(disappear.Mean)),
		fmt.Sprintf("Appearance range: %s-%s seconds", FormatSeconds(appear.Min), FormatSeconds(appear.Max)),
		fmt.Sprintf("Disappearance range: %s-%s seconds", FormatSeconds(disappear.Min), FormatSeconds(disappear.Max)),
	}
	if res.Misses > 0 {
		lines = append(lines, fmt.Sprintf("Missed stimuli: %d", res.Misses))
	}
	if res.Trials() > 1 {
		lines = append(lines,
			fmt.Sprintf("Appearance trend:    [%s]", Sparkline(Seconds(res.Appear))),
			fmt.Sprintf("Disappearance trend: [%s]", Sparkline(Seconds(res.Disappear))),
		)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatSeconds renders a duration as seconds with millisecond precision.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
