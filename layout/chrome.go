package layout

import (
	"fmt"
	"strings"
)

// Chrome 汇总页面装饰：第一页的公司抬头与每页的页脚。
type Chrome struct {
	Letterhead Letterhead
	Footer     FooterText
}

// Letterhead 是第一页顶部的公司抬头与文档标题。
type Letterhead struct {
	Background  Color
	TextColor   Color
	CompanyName string
	Address     string
	Contact     []string
	Align       string // 公司信息对齐方式：left/center/right
	Title       string
	Subtitle    string // 标题下方右对齐的一行，例如出具日期
}

// FooterText 是页脚的原始配置，Paragraphs 尚未折行。
type FooterText struct {
	Show       bool
	Background Color
	TextColor  Color
	Paragraphs []string
}

// FooterSpec 是折行完成后的页脚内容，RenderFooters 只依赖它与页码。
type FooterSpec struct {
	Height     float64
	Margin     float64
	Background Color
	TextColor  Color
	FontSize   float64
	LineHeight float64
	Lines      []TextLine
}

const (
	letterheadBand   = 28.0
	companyFontSize  = 14 * PtToMm
	detailFontSize   = 8 * PtToMm
	titleFontSize    = 12 * PtToMm
	footerFontSize   = 6.5 * PtToMm
	footerLineHeight = 2.8
	footerPadding    = 2.0
	footerGap        = 0.5
)

// buildLetterhead 排版第一页的抬头：背景色带、公司名、地址、联系方式、标题。
func buildLetterhead(lh Letterhead, geom Geometry, fonts map[string]FontResource, ts Typesetter) (HeaderFooter, error) {
	hf := HeaderFooter{Height: geom.HeaderHeight}
	if geom.HeaderHeight <= 0 {
		return hf, nil
	}
	bg := lh.Background
	hf.Rects = append(hf.Rects, Rect{
		X: 0, Y: 0,
		Width:     geom.PageWidth,
		Height:    geom.Margin + letterheadBand - 4,
		FillColor: &bg,
	})

	width := geom.ContentWidth()
	align := normalizeAlign(lh.Align)
	cursorY := geom.Margin - 6

	add := func(content, font string, size, lineHeight float64, color Color, align string) error {
		if strings.TrimSpace(content) == "" {
			return nil
		}
		lines, err := ts.LayoutLines(content, width, fonts[font], size, lineHeight, "anywhere")
		if err != nil {
			return fmt.Errorf("抬头文本 %q 排版失败: %w", content, err)
		}
		for i := range lines {
			lines[i].Height = lineHeight
			lines[i].GapBefore = 0
		}
		height := float64(len(lines)) * lineHeight
		hf.Texts = append(hf.Texts, TextBox{
			Content:    content,
			X:          geom.Margin,
			Y:          cursorY,
			Width:      width,
			LineHeight: lineHeight,
			Font:       font,
			FontSize:   size,
			Color:      color,
			Lines:      lines,
			Height:     height,
			Align:      align,
		})
		cursorY += height + 1
		return nil
	}

	if err := add(lh.CompanyName, FontBold, companyFontSize, companyFontSize*1.3, lh.TextColor, align); err != nil {
		return hf, err
	}
	if err := add(lh.Address, FontBody, detailFontSize, detailFontSize*1.4, lh.TextColor, align); err != nil {
		return hf, err
	}
	if err := add(strings.Join(nonEmpty(lh.Contact), "  |  "), FontBody, detailFontSize, detailFontSize*1.4, lh.TextColor, align); err != nil {
		return hf, err
	}

	cursorY = geom.Margin + letterheadBand
	if err := add(lh.Title, FontBold, titleFontSize, titleFontSize*1.3, lh.Background, "center"); err != nil {
		return hf, err
	}
	if err := add(lh.Subtitle, FontBody, detailFontSize, detailFontSize*1.4, Color{R: 80, G: 80, B: 80}, "right"); err != nil {
		return hf, err
	}
	return hf, nil
}

// BuildFooterSpec 将页脚段落按内容宽度折行。未启用页脚时返回 nil。
// 返回的 Height 不小于 geom.FooterHeight，并保证文本不与页码重叠。
func BuildFooterSpec(ft FooterText, geom Geometry, fonts map[string]FontResource, ts Typesetter) (*FooterSpec, error) {
	if !ft.Show || geom.FooterHeight <= 0 {
		return nil, nil
	}
	spec := &FooterSpec{
		Height:     geom.FooterHeight,
		Margin:     geom.Margin,
		Background: ft.Background,
		TextColor:  ft.TextColor,
		FontSize:   footerFontSize,
		LineHeight: footerLineHeight,
	}
	for _, p := range ft.Paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		lines, err := ts.LayoutLines(p, geom.ContentWidth(), fonts[FontBody], footerFontSize, footerLineHeight, "anywhere")
		if err != nil {
			return nil, fmt.Errorf("页脚文本排版失败: %w", err)
		}
		for i := range lines {
			lines[i].Height = footerLineHeight
			lines[i].GapBefore = 0
		}
		spec.Lines = append(spec.Lines, lines...)
	}
	// 文本与页码各占一段，页脚高度不足时向上扩展，分页时预留的空间随之增加。
	if need := footerHeightFor(len(spec.Lines), spec.LineHeight); need > spec.Height {
		spec.Height = need
	}
	return spec, nil
}

// footerHeightFor 返回容纳 n 行页脚文本与一行页码所需的高度。
func footerHeightFor(n int, lineHeight float64) float64 {
	h := 2*footerPadding + lineHeight
	if n > 0 {
		h += float64(n)*lineHeight + footerGap
	}
	return h
}

// RenderFooters 在所有页面排版完成后写入页脚：背景色带、免责声明与 "Page X of Y"。
// 结果只取决于页序号与总页数，重复调用得到相同的页脚。
func RenderFooters(pages []Page, spec *FooterSpec) []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	if spec == nil {
		return out
	}
	total := len(out)
	for i := range out {
		out[i].Footer = footerFor(out[i], i+1, total, *spec)
	}
	return out
}

func footerFor(page Page, number, total int, spec FooterSpec) HeaderFooter {
	top := page.Height - spec.Height
	bg := spec.Background
	hf := HeaderFooter{
		Height: spec.Height,
		Rects: []Rect{{
			X: 0, Y: top,
			Width:     page.Width,
			Height:    spec.Height,
			FillColor: &bg,
		}},
	}
	width := page.Width - 2*spec.Margin
	if len(spec.Lines) > 0 {
		hf.Texts = append(hf.Texts, TextBox{
			X:          spec.Margin,
			Y:          top + footerPadding,
			Width:      width,
			LineHeight: spec.LineHeight,
			Font:       FontBody,
			FontSize:   spec.FontSize,
			Color:      spec.TextColor,
			Lines:      append([]TextLine(nil), spec.Lines...),
			Height:     float64(len(spec.Lines)) * spec.LineHeight,
		})
	}
	indicator := PageIndicator(number, total)
	hf.Texts = append(hf.Texts, TextBox{
		Content:    indicator,
		X:          spec.Margin,
		Y:          page.Height - footerPadding - spec.LineHeight,
		Width:      width,
		LineHeight: spec.LineHeight,
		Font:       FontBody,
		FontSize:   spec.FontSize,
		Color:      spec.TextColor,
		Lines:      []TextLine{{Content: indicator, Height: spec.LineHeight}},
		Height:     spec.LineHeight,
		Align:      "right",
	})
	return hf
}

// PageIndicator 返回 "Page X of Y"。
func PageIndicator(number, total int) string {
	return fmt.Sprintf("Page %d of %d", number, total)
}

func normalizeAlign(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return "center"
	case "right", "end":
		return "right"
	default:
		return "left"
	}
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
