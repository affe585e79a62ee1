package layout

import (
	"fmt"
	"math"
	"strings"
)

// TableMetrics 描述表格行的固定排版常量（mm）。
type TableMetrics struct {
	LabelRatio   float64 `json:"labelRatio"` // 标签列占内容宽度的比例
	MinRowHeight float64 `json:"minRowHeight"`
	LineHeight   float64 `json:"lineHeight"`
	RowPadding   float64 `json:"rowPadding"` // 行高中额外的上下留白总和
	CellPadding  float64 `json:"cellPadding"`
	FontSize     float64 `json:"fontSize"`
	BorderColor  Color   `json:"borderColor"`
	ZebraColor   Color   `json:"zebraColor"`
	TextColor    Color   `json:"textColor"`
}

// DefaultTableMetrics 返回默认表格常量：8pt 字号、3.5mm 行高。
func DefaultTableMetrics() TableMetrics {
	return TableMetrics{
		LabelRatio:   0.3,
		MinRowHeight: 8,
		LineHeight:   3.5,
		RowPadding:   2,
		CellPadding:  2,
		FontSize:     8 * PtToMm,
		BorderColor:  Color{R: 180, G: 180, B: 180},
		ZebraColor:   Color{R: 245, G: 247, B: 250},
		TextColor:    Color{R: 30, G: 30, B: 30},
	}
}

func (m TableMetrics) withDefaults() TableMetrics {
	d := DefaultTableMetrics()
	if m.LabelRatio <= 0 || m.LabelRatio >= 1 {
		m.LabelRatio = d.LabelRatio
	}
	if m.MinRowHeight <= 0 {
		m.MinRowHeight = d.MinRowHeight
	}
	if m.LineHeight <= 0 {
		m.LineHeight = d.LineHeight
	}
	if m.RowPadding < 0 {
		m.RowPadding = 0
	}
	if m.CellPadding <= 0 {
		m.CellPadding = d.CellPadding
	}
	if m.FontSize <= 0 {
		m.FontSize = d.FontSize
	}
	if m.BorderColor == (Color{}) {
		m.BorderColor = d.BorderColor
	}
	if m.ZebraColor == (Color{}) {
		m.ZebraColor = d.ZebraColor
	}
	if m.TextColor == (Color{}) {
		m.TextColor = d.TextColor
	}
	return m
}

// RowHeight = max(MinRowHeight, lines*LineHeight + RowPadding)。
func RowHeight(lines int, m TableMetrics) float64 {
	return math.Max(m.MinRowHeight, float64(lines)*m.LineHeight+m.RowPadding)
}

// MeasureRow 按列宽分别折行标签与值，得到一行的高度与单元格内容。
// 行的纵坐标为 0，由 PlaceRow 在分页时确定。index 是 Record 在文档中的序号，用于斑马纹。
func MeasureRow(index int, rec Record, x, width float64, m TableMetrics, fonts map[string]FontResource, ts Typesetter) (TableRow, error) {
	if ts == nil {
		return TableRow{}, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	labelWidth := width * m.LabelRatio
	valueWidth := width - labelWidth

	labelLines, err := wrapCell(rec.Label, labelWidth, fonts[FontBold], m, ts)
	if err != nil {
		return TableRow{}, fmt.Errorf("标签 %q 排版失败: %w", rec.Label, err)
	}
	valueLines, err := wrapCell(rec.Value, valueWidth, fonts[FontBody], m, ts)
	if err != nil {
		return TableRow{}, fmt.Errorf("字段 %q 的值排版失败: %w", rec.Label, err)
	}
	if len(rec.Emphasized) > 0 {
		EmphasizeLines(rec.Value, valueLines, rec.Emphasized)
	}

	maxLines := len(labelLines)
	if len(valueLines) > maxLines {
		maxLines = len(valueLines)
	}
	height := RowHeight(maxLines, m)

	row := TableRow{
		Record:      index,
		X:           x,
		Width:       width,
		Height:      height,
		Divider:     x + labelWidth,
		Lines:       maxLines,
		BorderColor: m.BorderColor,
		Cells: []TableCell{
			{Text: cellBox(rec.Label, labelLines, x, labelWidth, FontBold, m)},
			{Text: cellBox(rec.Value, valueLines, x+labelWidth, valueWidth, FontBody, m)},
		},
	}
	if index%2 == 1 {
		fill := m.ZebraColor
		row.Fill = &fill
	}
	return row, nil
}

func wrapCell(content string, width float64, font FontResource, m TableMetrics, ts Typesetter) ([]TextLine, error) {
	inner := width - 2*m.CellPadding
	if inner <= 0 {
		inner = width
	}
	lines, err := ts.LayoutLines(content, inner, font, m.FontSize, m.LineHeight, "anywhere")
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: ""}}
	}
	// 单元格内逐行按固定行高推进，保证行高只取决于行数。
	for i := range lines {
		lines[i].Height = m.LineHeight
		lines[i].GapBefore = 0
	}
	return lines, nil
}

func cellBox(content string, lines []TextLine, x, width float64, font string, m TableMetrics) TextBox {
	return TextBox{
		Content:    content,
		X:          x + m.CellPadding,
		Y:          m.RowPadding / 2,
		Width:      width - 2*m.CellPadding,
		LineHeight: m.LineHeight,
		Font:       font,
		FontSize:   m.FontSize,
		Color:      m.TextColor,
		Lines:      lines,
		Height:     float64(len(lines)) * m.LineHeight,
	}
}

// PlaceRow 把行放到页面的 cursor 位置，返回推进后的 cursor。
func PlaceRow(page *Page, row TableRow, cursor float64) float64 {
	row.Y = cursor
	cells := make([]TableCell, len(row.Cells))
	for i, c := range row.Cells {
		c.Text.Y += cursor
		cells[i] = c
	}
	row.Cells = cells
	page.Rows = append(page.Rows, row)
	return cursor + row.Height
}

// Emphasize 从左到右扫描一行文本，把每一处强调子串切成粗体片段。
// 同一位置有多个候选时取最长者；匹配后从其末尾继续扫描，因此重叠部分只计一次。
// 没有任何匹配时返回 nil。
func Emphasize(line string, subs []string) []Span {
	var spans []Span
	matched := false
	rest := line
	for rest != "" {
		idx, sub := firstMatch(rest, subs)
		if idx < 0 {
			spans = append(spans, Span{Text: rest})
			break
		}
		if idx > 0 {
			spans = append(spans, Span{Text: rest[:idx]})
		}
		spans = append(spans, Span{Text: sub, Bold: true})
		matched = true
		rest = rest[idx+len(sub):]
	}
	if !matched {
		return nil
	}
	return spans
}

// EmphasizeLines 在完整的值上匹配强调子串，再把粗体区间投影到折行后的各行，
// 因此被折行拆开的强调子串两侧仍为粗体。折行内容无法在原值中定位时退回逐行匹配。
func EmphasizeLines(value string, lines []TextLine, subs []string) {
	spans := Emphasize(value, subs)
	if spans == nil {
		return
	}
	bold := make([]bool, 0, len(value))
	for _, sp := range spans {
		for k := 0; k < len(sp.Text); k++ {
			bold = append(bold, sp.Bold)
		}
	}
	offset := 0
	for i := range lines {
		content := lines[i].Content
		if content == "" {
			continue
		}
		at := strings.Index(value[offset:], content)
		if at < 0 {
			lines[i].Spans = Emphasize(content, subs)
			continue
		}
		start := offset + at
		lines[i].Spans = maskSpans(content, bold[start:start+len(content)])
		offset = start + len(content)
	}
}

// maskSpans 按逐字节的粗体标记切分 s；没有粗体时返回 nil。
func maskSpans(s string, bold []bool) []Span {
	var spans []Span
	hasBold := false
	begin := 0
	for k := 1; k <= len(s); k++ {
		if k < len(s) && bold[k] == bold[begin] {
			continue
		}
		spans = append(spans, Span{Text: s[begin:k], Bold: bold[begin]})
		hasBold = hasBold || bold[begin]
		begin = k
	}
	if !hasBold {
		return nil
	}
	return spans
}

func firstMatch(s string, subs []string) (int, string) {
	best, bestSub := -1, ""
	for _, sub := range subs {
		if sub == "" {
			continue
		}
		i := strings.Index(s, sub)
		if i < 0 {
			continue
		}
		if best < 0 || i < best || (i == best && len(sub) > len(bestSub)) {
			best, bestSub = i, sub
		}
	}
	return best, bestSub
}
