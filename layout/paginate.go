package layout

// pageCollector 负责分配页面并跟踪当前页与光标。
type pageCollector struct {
	geom          Geometry
	footerReserve float64
	pages         []Page
	cursor        float64
}

func newPageCollector(geom Geometry, footerReserve float64) *pageCollector {
	pc := &pageCollector{geom: geom, footerReserve: footerReserve}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *Page {
	first := len(pc.pages) == 0
	pc.pages = append(pc.pages, Page{
		Number: len(pc.pages) + 1,
		Width:  pc.geom.PageWidth,
		Height: pc.geom.PageHeight,
	})
	// 只有第一页留出抬头区域，之后的页从上边距开始。
	pc.cursor = pc.geom.ContentTop(first)
	return pc.curr()
}

func (pc *pageCollector) curr() *Page {
	return &pc.pages[len(pc.pages)-1]
}

// ensureSpace 在绘制高度为 height 的行之前检查剩余空间，不足时换页。
// 空页上放不下的超高行不再换页，直接溢出绘制。
func (pc *pageCollector) ensureSpace(height float64) {
	if pc.cursor+height <= pc.geom.ContentBottom(pc.footerReserve) {
		return
	}
	if len(pc.curr().Rows) == 0 {
		return
	}
	pc.newPage()
}

// Paginate 把已测量的行依次放入页面，返回全部页面与最终光标位置。
// 行高在测量阶段已确定，因此相同输入总是得到相同的分页结果。
func Paginate(rows []TableRow, geom Geometry, footerReserve float64) ([]Page, float64) {
	pc := newPageCollector(geom, footerReserve)
	for _, row := range rows {
		pc.ensureSpace(row.Height)
		pc.cursor = PlaceRow(pc.curr(), row, pc.cursor)
	}
	return pc.pages, pc.cursor
}

// FlattenRecords 按页序拼接每页绘制的行，返回其对应的 Record 序号。
func FlattenRecords(pages []Page) []int {
	var out []int
	for _, p := range pages {
		for _, r := range p.Rows {
			out = append(out, r.Record)
		}
	}
	return out
}
