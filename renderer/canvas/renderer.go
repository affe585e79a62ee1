package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/quotedoc/layout"
	"github.com/ByLCY/quotedoc/renderer"
)

const borderWidth = 0.2

var transparent = color.RGBA{}

// Renderer draws layout results via github.com/tdewolff/canvas.
// 同一个 Renderer 可被多个生成任务并发使用，字体缓存由 fontCache 加锁保护。
type Renderer struct {
	fonts *fontCache
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	// Fonts 以 "custom:<name>" 的 src 暴露给排版结果，值为 TTF/OTF 字节。
	Fonts map[string][]byte
}

// NewRenderer creates a canvas-based renderer using the bundled Go fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected font resources.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{fonts: newFontCache(opts.Fonts)}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, renderer.ErrEmptyResult
	}
	if len(result.Pages) == 0 {
		return nil, renderer.ErrNoPages
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	keywords := strings.Join(result.Meta.Keywords, ", ")
	writer.SetInfo(result.Meta.Title, result.Meta.Subject, keywords, result.Meta.Author, result.Meta.Creator)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版结果一致：左上角为原点

		if err := r.drawPage(ctx, page, result.Resources); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", page.Number, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：fontSize/lineHeight 入参均为毫米（mm）。与字体系统交互使用 pt，在边界做 mm↔pt 换算。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Color{R: 30, G: 30, B: 30})
	if err != nil {
		return nil, err
	}
	if wrap == "" {
		wrap = "anywhere"
	}
	lines := layout.GreedyWrap(content, width, face.TextWidth, wrap)
	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []layout.TextLine{{Height: textHeight}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	// 页眉：先背景形状再文本
	if err := r.drawChrome(ctx, page.Header, resources); err != nil {
		return err
	}
	if err := r.drawRows(ctx, page.Rows, resources); err != nil {
		return err
	}
	return r.drawChrome(ctx, page.Footer, resources)
}

func (r *Renderer) drawChrome(ctx *canvas.Context, hf layout.HeaderFooter, resources layout.ResourceSet) error {
	r.drawRects(ctx, hf.Rects)
	r.drawLines(ctx, hf.Lines)
	for _, tb := range hf.Texts {
		if err := r.drawTextBox(ctx, tb, resources.Fonts); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawRows(ctx *canvas.Context, rows []layout.TableRow, resources layout.ResourceSet) error {
	for _, row := range rows {
		var fill color.Color = canvas.White
		if row.Fill != nil {
			fill = colorFromLayout(*row.Fill)
		}
		border := colorFromLayout(row.BorderColor)
		ctx.SetFillColor(fill)
		ctx.SetStrokeColor(border)
		ctx.SetStrokeWidth(borderWidth)
		ctx.DrawPath(row.X, row.Y, canvas.Rectangle(row.Width, row.Height))

		r.drawLines(ctx, []layout.Line{{X1: row.Divider, Y1: row.Y, X2: row.Divider, Y2: row.Y + row.Height, Color: row.BorderColor}})
		for _, cell := range row.Cells {
			if err := r.drawTextBox(ctx, cell.Text, resources.Fonts); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontSet map[string]layout.FontResource) error {
	// TextBox 的坐标/字号/行高均为 mm；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(resolveFontResource(tb.Font, fontSet), toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	var bold *canvas.FontFace
	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		baseline := cursorY + face.Metrics().Ascent

		if len(line.Spans) > 0 {
			if bold == nil {
				if bold, err = r.fontFace(resolveFontResource(layout.FontBold, fontSet), toPt(tb.FontSize), tb.Color); err != nil {
					return err
				}
			}
			drawSpans(ctx, tb, line.Spans, baseline, face, bold)
		} else {
			textAlign, anchorX := alignAnchor(tb)
			ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line.Content, textAlign))
		}

		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.LineHeight
		}
		cursorY += lineHeight
	}
	return nil
}

// drawSpans 依次绘制常规/粗体片段，每段的起点由前面片段的实际宽度推进。
func drawSpans(ctx *canvas.Context, tb layout.TextBox, spans []layout.Span, baseline float64, regular, bold *canvas.FontFace) {
	pick := func(s layout.Span) *canvas.FontFace {
		if s.Bold {
			return bold
		}
		return regular
	}
	total := 0.0
	for _, s := range spans {
		total += pick(s).TextWidth(s.Text)
	}
	x := tb.X
	switch strings.ToLower(tb.Align) {
	case "center":
		x = tb.X + (tb.Width-total)/2
	case "right", "end":
		x = tb.X + tb.Width - total
	}
	for _, s := range spans {
		f := pick(s)
		ctx.DrawText(x, baseline, canvas.NewTextLine(f, s.Text, canvas.Left))
		x += f.TextWidth(s.Text)
	}
}

func alignAnchor(tb layout.TextBox) (canvas.TextAlign, float64) {
	switch strings.ToLower(tb.Align) {
	case "center":
		return canvas.Center, tb.X + tb.Width/2
	case "right", "end":
		return canvas.Right, tb.X + tb.Width
	default:
		return canvas.Left, tb.X
	}
}

func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		setStroke(ctx, &ln.Color, ln.Width)
		seg := &canvas.Path{}
		seg.MoveTo(0, 0)
		seg.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, seg)
	}
}

func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		if rc.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*rc.FillColor))
		} else {
			ctx.SetFillColor(transparent)
		}
		setStroke(ctx, rc.StrokeColor, rc.StrokeWidth)
		ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
	}
}

// setStroke 设置描边；c 为空表示不描边，宽度 <=0 时取 borderWidth。
func setStroke(ctx *canvas.Context, c *layout.Color, width float64) {
	if c == nil {
		ctx.SetStrokeColor(transparent)
		ctx.SetStrokeWidth(0)
		return
	}
	if width <= 0 {
		width = borderWidth
	}
	ctx.SetStrokeColor(colorFromLayout(*c))
	ctx.SetStrokeWidth(width)
}

func (r *Renderer) fontFace(font layout.FontResource, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.fonts.family(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func resolveFontResource(name string, fontSet map[string]layout.FontResource) layout.FontResource {
	if font, ok := fontSet[name]; ok {
		return font
	}
	if font, ok := fontSet[layout.FontBody]; ok {
		return font
	}
	return layout.DefaultFonts()[layout.FontBody]
}

func colorFromLayout(c layout.Color) color.Color {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 0xff}
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
