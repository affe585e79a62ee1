package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func monoMeasure(s string) float64 { return float64(len(s)) }

func contents(lines []TextLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}

func TestGreedyWrap(t *testing.T) {
	cases := []struct {
		name    string
		content string
		width   float64
		wrap    string
		want    []string
	}{
		{"fits", "hello world", 20, "", []string{"hello world"}},
		{"breaks at space", "hello world again", 11, "", []string{"hello world", "again"}},
		{"newlines kept", "foo\n\nbar", 20, "", []string{"foo", "", "bar"}},
		{"long word split", "abcdefghij", 4, "", []string{"abcd", "efgh", "ij"}},
		{"nowrap", "a very long line\nnext", 3, "nowrap", []string{"a very long line", "next"}},
		{"empty", "", 10, "", []string{""}},
	}
	for _, c := range cases {
		got := contents(GreedyWrap(c.content, c.width, monoMeasure, c.wrap))
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", c.name, diff)
		}
	}
}

func TestGreedyWrapWidthsWithinLimit(t *testing.T) {
	content := strings.Repeat("insurance cover ", 30)
	for _, ln := range GreedyWrap(content, 25, monoMeasure, "") {
		if ln.Width > 25 {
			t.Fatalf("line %q exceeds limit: %g", ln.Content, ln.Width)
		}
		if ln.Width != monoMeasure(ln.Content) {
			t.Fatalf("line width should match its trimmed content")
		}
	}
}
