package canvasrenderer

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/quotedoc/layout"
)

var bodyFont = layout.FontResource{Name: "Body", Src: "embed:goregular"}

func TestLayoutLinesGreedyWrapsText(t *testing.T) {
	r := NewRenderer()
	// 这里的宽度/字号/行高均为 mm
	fontSizeMM := 12 * layout.PtToMm
	lineHeightMM := fontSizeMM * 1.2

	lines, err := r.LayoutLines("hello world again", 10, bodyFont, fontSizeMM, lineHeightMM, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if strings.HasSuffix(ln.Content, " ") || strings.HasPrefix(ln.Content, " ") {
			t.Fatalf("line %d keeps surrounding spaces: %q", i, ln.Content)
		}
	}
}

func TestGreedyWrapHonorsNewlines(t *testing.T) {
	r := NewRenderer()
	fontSizeMM := 12 * layout.PtToMm

	lines, err := r.LayoutLines("foo\n\nbar", 100, bodyFont, fontSizeMM, fontSizeMM*1.2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(lines))
	}
	if lines[1].Content != "" {
		t.Fatalf("expected middle line to be blank, got %q", lines[1].Content)
	}
}

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	r := NewRenderer()
	fontSizeMM := 12 * layout.PtToMm
	lineHeightMM := fontSizeMM * 1.2

	first := "SAMPLE-A"
	measured, err := r.LayoutLines(first, 1e6, bodyFont, fontSizeMM, lineHeightMM, "")
	if err != nil {
		t.Fatalf("measure error: %v", err)
	}
	if len(measured) != 1 || measured[0].Width <= 0 {
		t.Fatalf("unexpected measurement: %#v", measured)
	}
	limit := measured[0].Width

	lines, err := r.LayoutLines(first+"\nSAMPLE-B", limit, bodyFont, fontSizeMM, lineHeightMM, "")
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if got := len(lines); got != 2 {
		t.Fatalf("expected 2 lines without blank, got %d", got)
	}
	if lines[0].Content != first || lines[1].Content != "SAMPLE-B" {
		t.Fatalf("unexpected lines: %q / %q", lines[0].Content, lines[1].Content)
	}
}

// TestLineHeightsInvariant 验证首行 GapBefore 为 0，其余行 GapBefore ≈ max(lineHeight - textHeight, 0)。
func TestLineHeightsInvariant(t *testing.T) {
	r := NewRenderer()
	fontSizeMM := 12 * layout.PtToMm
	lineHeightMM := fontSizeMM * 1.3

	content := "longlonglong longlonglong longlonglong longlonglong longlonglong"
	lines, err := r.LayoutLines(content, 40, bodyFont, fontSizeMM, lineHeightMM, "")
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines, got %d", len(lines))
	}
	textHeight := lines[0].Height
	if textHeight <= 0 {
		t.Fatalf("invalid text height: %g", textHeight)
	}
	wantLeading := math.Max(lineHeightMM-textHeight, 0)
	if lines[0].GapBefore != 0 {
		t.Fatalf("first line GapBefore must be 0, got %g", lines[0].GapBefore)
	}
	for i := 1; i < len(lines); i++ {
		if diff := math.Abs(lines[i].GapBefore - wantLeading); diff > 1e-6 {
			t.Fatalf("line %d GapBefore mismatch: got=%g want=%g", i, lines[i].GapBefore, wantLeading)
		}
	}
}

// TestGreedyWrapWidthLimit 验证超长单词被拆分后每行宽度不超过限制（mm）。
func TestGreedyWrapWidthLimit(t *testing.T) {
	r := NewRenderer()
	fontSizeMM := 12 * layout.PtToMm
	limit := 30.0
	lines, err := r.LayoutLines(strings.Repeat("a", 60), limit, bodyFont, fontSizeMM, fontSizeMM*1.2, "")
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected the long token to be split, got %d lines", len(lines))
	}
	for i, ln := range lines {
		if ln.Width-limit > 1e-6 {
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, ln.Width, limit)
		}
	}
}

func TestUnknownFontFallsBack(t *testing.T) {
	r := NewRenderer()
	lines, err := r.LayoutLines("fallback", 100, layout.FontResource{Name: "X", Src: "custom:missing"}, 3, 4, "")
	if err != nil {
		t.Fatalf("fallback font should be used, got %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer()
	records := []layout.Record{
		{Label: "Reference", Value: "CAR-2026-001"},
		{Label: "Premium", Value: "AED 57,800/- including policy fees", Emphasized: []string{"AED 57,800/-"}},
	}
	for i := 0; i < 60; i++ {
		records = append(records, layout.Record{Label: "Warranty", Value: strings.Repeat("Hot works permit required. ", 4)})
	}
	res, err := layout.Build(&layout.Document{Records: records, Meta: layout.DocumentMeta{Title: "Quote"}}, layout.BuildOptions{
		Typesetter: r,
		Chrome: layout.Chrome{
			Letterhead: layout.Letterhead{CompanyName: "Acme Brokers", Title: "CONTRACTORS ALL RISKS QUOTATION"},
			Footer:     layout.FooterText{Show: true, Paragraphs: []string{"Subject to policy terms."}},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Pages) < 2 {
		t.Fatalf("expected several pages, got %d", len(res.Pages))
	}
	data, err := r.Render(res)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for result without pages")
	}
}
