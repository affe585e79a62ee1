package layout

// Geometry 是一份文档固定的页面几何参数（mm）。
// 零值字段取 DefaultGeometry 中的值；HeaderHeight/FooterHeight 取负值表示不绘制抬头或页脚。
type Geometry struct {
	PageWidth    float64 `json:"pageWidth"`
	PageHeight   float64 `json:"pageHeight"`
	Margin       float64 `json:"margin"`
	HeaderHeight float64 `json:"headerHeight"`
	FooterHeight float64 `json:"footerHeight"`
}

var pagePresets = map[string][2]float64{
	"A4": {210, 297},
	"A5": {148, 210},
}

// PageSize 返回预设纸张尺寸（竖版），未知尺寸返回 ok=false。
func PageSize(name string) (width, height float64, ok bool) {
	size, ok := pagePresets[name]
	if !ok {
		return 0, 0, false
	}
	return size[0], size[1], true
}

// DefaultGeometry 为 A4 竖版、15mm 边距。
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:    210,
		PageHeight:   297,
		Margin:       15,
		HeaderHeight: 42,
		FooterHeight: 22,
	}
}

func (g Geometry) withDefaults() Geometry {
	d := DefaultGeometry()
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		g.PageWidth, g.PageHeight = d.PageWidth, d.PageHeight
	}
	if g.Margin <= 0 {
		g.Margin = d.Margin
	}
	g.HeaderHeight = chromeHeight(g.HeaderHeight, d.HeaderHeight)
	g.FooterHeight = chromeHeight(g.FooterHeight, d.FooterHeight)
	return g
}

func chromeHeight(v, def float64) float64 {
	switch {
	case v < 0:
		return 0
	case v == 0:
		return def
	default:
		return v
	}
}

// ContentWidth 是左右边距之间的宽度。
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// ContentTop 返回某页内容的起始纵坐标：第一页需让出抬头区域。
func (g Geometry) ContentTop(first bool) float64 {
	if first {
		return g.Margin + g.HeaderHeight
	}
	return g.Margin
}

// ContentBottom 返回内容可用区域的底部，footerReserve 为页脚占用高度。
func (g Geometry) ContentBottom(footerReserve float64) float64 {
	return g.PageHeight - g.Margin - footerReserve
}
