// Package fpdfrenderer 使用 go-pdf/fpdf 的核心字体（Helvetica）输出 PDF。
// 不需要嵌入字体文件，但只支持 cp1252 可表示的字符。
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ByLCY/quotedoc/layout"
	"github.com/ByLCY/quotedoc/renderer"
)

const (
	family      = "Helvetica"
	borderWidth = 0.2
	// Helvetica 的上升部约为字号的 0.718，用于由行顶推算基线。
	ascentRatio = 0.718
)

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options configures the fpdf renderer.
type Options struct {
	// CreationDate 固定 PDF 的创建时间；为零值时由 fpdf 取当前时间。
	CreationDate time.Time
}

// Renderer draws layout results via github.com/go-pdf/fpdf.
type Renderer struct {
	opts Options

	// 测量用的文档实例，fpdf 非并发安全。
	measureMu sync.Mutex
	measure   *fpdf.Fpdf
	translate func(string) string
}

// NewRenderer creates an fpdf-based renderer.
func NewRenderer(opts Options) *Renderer {
	m := fpdf.New("P", "mm", "A4", "")
	return &Renderer{
		opts:      opts,
		measure:   m,
		translate: m.UnicodeTranslatorFromDescriptor(""),
	}
}

// LayoutLines 实现 layout.Typesetter：使用核心字体的字宽表测量并贪心折行。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	r.measureMu.Lock()
	defer r.measureMu.Unlock()

	r.measure.SetFont(family, fontStyle(font.Style), fontSize*layout.MmToPt)
	if r.measure.Err() {
		return nil, fmt.Errorf("设置测量字体失败: %w", r.measure.Error())
	}
	measure := func(s string) float64 {
		return r.measure.GetStringWidth(r.translate(s))
	}
	if wrap == "" {
		wrap = "anywhere"
	}
	lines := layout.GreedyWrap(content, width, measure, wrap)
	leading := math.Max(lineHeight-fontSize, 0)
	for i := range lines {
		lines[i].Height = fontSize
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, renderer.ErrEmptyResult
	}
	if len(result.Pages) == 0 {
		return nil, renderer.ErrNoPages
	}
	first := result.Pages[0]
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetCatalogSort(true)
	if !r.opts.CreationDate.IsZero() {
		doc.SetCreationDate(r.opts.CreationDate)
	}
	meta := result.Meta
	doc.SetTitle(meta.Title, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetCreator(meta.Creator, true)
	if len(meta.Keywords) > 0 {
		doc.SetKeywords(strings.Join(meta.Keywords, ", "), true)
	}

	p := &painter{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	for _, page := range result.Pages {
		doc.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		p.chrome(page.Header)
		p.rows(page.Rows)
		p.chrome(page.Footer)
		if doc.Err() {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", page.Number, doc.Error())
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

type painter struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

func (p *painter) chrome(hf layout.HeaderFooter) {
	for _, rc := range hf.Rects {
		style := ""
		if rc.FillColor != nil {
			p.doc.SetFillColor(rc.FillColor.R, rc.FillColor.G, rc.FillColor.B)
			style += "F"
		}
		if rc.StrokeColor != nil {
			p.doc.SetDrawColor(rc.StrokeColor.R, rc.StrokeColor.G, rc.StrokeColor.B)
			p.doc.SetLineWidth(widthOr(rc.StrokeWidth))
			style = "D" + style
		}
		if style != "" {
			p.doc.Rect(rc.X, rc.Y, rc.Width, rc.Height, style)
		}
	}
	for _, ln := range hf.Lines {
		p.line(ln)
	}
	for _, tb := range hf.Texts {
		p.text(tb)
	}
}

func (p *painter) rows(rows []layout.TableRow) {
	for _, row := range rows {
		fill := layout.Color{R: 255, G: 255, B: 255}
		if row.Fill != nil {
			fill = *row.Fill
		}
		p.doc.SetFillColor(fill.R, fill.G, fill.B)
		p.doc.SetDrawColor(row.BorderColor.R, row.BorderColor.G, row.BorderColor.B)
		p.doc.SetLineWidth(borderWidth)
		p.doc.Rect(row.X, row.Y, row.Width, row.Height, "DF")
		p.line(layout.Line{X1: row.Divider, Y1: row.Y, X2: row.Divider, Y2: row.Y + row.Height, Color: row.BorderColor})
		for _, cell := range row.Cells {
			p.text(cell.Text)
		}
	}
}

func (p *painter) line(ln layout.Line) {
	p.doc.SetDrawColor(ln.Color.R, ln.Color.G, ln.Color.B)
	p.doc.SetLineWidth(widthOr(ln.Width))
	p.doc.Line(ln.X1, ln.Y1, ln.X2, ln.Y2)
}

func (p *painter) text(tb layout.TextBox) {
	size := tb.FontSize * layout.MmToPt
	base := "B"
	if tb.Font != layout.FontBold {
		base = ""
	}
	p.doc.SetTextColor(tb.Color.R, tb.Color.G, tb.Color.B)

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Height: tb.LineHeight}}
	}
	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		baseline := cursorY + tb.FontSize*ascentRatio

		spans := line.Spans
		if len(spans) == 0 {
			spans = []layout.Span{{Text: line.Content, Bold: base == "B"}}
		}
		total := 0.0
		for _, s := range spans {
			p.doc.SetFont(family, boldStyle(s.Bold), size)
			total += p.doc.GetStringWidth(p.tr(s.Text))
		}
		x := tb.X
		switch strings.ToLower(tb.Align) {
		case "center":
			x = tb.X + (tb.Width-total)/2
		case "right", "end":
			x = tb.X + tb.Width - total
		}
		for _, s := range spans {
			p.doc.SetFont(family, boldStyle(s.Bold), size)
			txt := p.tr(s.Text)
			p.doc.Text(x, baseline, txt)
			x += p.doc.GetStringWidth(txt)
		}

		lh := line.Height
		if lh <= 0 {
			lh = tb.LineHeight
		}
		cursorY += lh
	}
}

func fontStyle(style string) string {
	return boldStyle(strings.Contains(strings.ToLower(style), "bold"))
}

func boldStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

func widthOr(w float64) float64 {
	if w <= 0 {
		return borderWidth
	}
	return w
}
