package layout

// 该文件定义排版结果，供分页、渲染与调试 JSON 共用。所有坐标与尺寸单位均为 mm。

// Result 保存排版后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录渲染时需要的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体资源。Src 形如 "embed:goregular"；Style 供不支持嵌入字体的后端选择字重。
type FontResource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Style string `json:"style"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 是一页的最终绘制内容。
// Header 只在第一页存在（公司抬头），Footer 由 RenderFooters 在全部分页完成后统一写入。
type Page struct {
	Number int          `json:"number"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Header HeaderFooter `json:"header"`
	Rows   []TableRow   `json:"rows"`
	Footer HeaderFooter `json:"footer"`
}

// HeaderFooter 描述页眉/页脚区域的高度与元素集合（页面坐标）。
type HeaderFooter struct {
	Height float64   `json:"height"`
	Rects  []Rect    `json:"rects,omitempty"`
	Lines  []Line    `json:"lines,omitempty"`
	Texts  []TextBox `json:"texts,omitempty"`
}

// TextBox 表示一个已经排好坐标的文本块。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      string     `json:"align,omitempty"` // left（默认）/center/right
}

// TextLine 表示排版后的一行文本内容及其宽高。
// Spans 非空时按片段绘制（粗体片段使用 Bold 字体），否则直接绘制 Content。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
	Spans     []Span  `json:"spans,omitempty"`
}

// Span 是一行中字重一致的连续片段。
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// TableRow 是一条 Record 排版后的表格行：外框 + 标签/值分隔线 + 两个单元格。
type TableRow struct {
	Record      int         `json:"record"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Divider     float64     `json:"divider"`
	Lines       int         `json:"lines"`
	Fill        *Color      `json:"fill,omitempty"`
	BorderColor Color       `json:"borderColor"`
	Cells       []TableCell `json:"cells"`
}

// TableCell 复用 TextBox 作为单元格内容，坐标相对于页面。
type TableCell struct {
	Text TextBox `json:"text"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // <=0 时由渲染器给默认值
}

// Rect 表示一个矩形。StrokeColor 为空时不描边，FillColor 为空时不填充。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor *Color  `json:"strokeColor,omitempty"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
