package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DebugReport 是调试输出的顶层结构：先给出逐页摘要，再附完整的排版结果。
type DebugReport struct {
	Pages  []PageSummary `json:"pages"`
	Result *Result       `json:"result"`
}

// PageSummary 概括一页的行分布，Used 为表格行占用的总高度。
type PageSummary struct {
	Number    int          `json:"number"`
	Records   []RowSummary `json:"records"`
	Used      float64      `json:"used"`
	HasHeader bool         `json:"hasHeader"`
	HasFooter bool         `json:"hasFooter"`
}

// RowSummary 记录一行对应的 Record 下标及其纵向位置。
type RowSummary struct {
	Record int     `json:"record"`
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
	Lines  int     `json:"lines"`
}

// Summarize 从排版结果生成调试摘要。
func Summarize(res *Result) DebugReport {
	report := DebugReport{Result: res}
	if res == nil {
		return report
	}
	report.Pages = make([]PageSummary, 0, len(res.Pages))
	for _, page := range res.Pages {
		sum := PageSummary{
			Number:    page.Number,
			Records:   make([]RowSummary, 0, len(page.Rows)),
			HasHeader: page.Header.Height > 0,
			HasFooter: page.Footer.Height > 0,
		}
		for _, row := range page.Rows {
			sum.Records = append(sum.Records, RowSummary{Record: row.Record, Y: row.Y, Height: row.Height, Lines: row.Lines})
			sum.Used += row.Height
		}
		report.Pages = append(report.Pages, sum)
	}
	return report
}

// WriteDebugJSON 把排版摘要与结果写入 path，必要时创建目录。res 为空时不写文件。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}
	data, err := json.MarshalIndent(Summarize(res), "", "  ")
	if err != nil {
		return fmt.Errorf("序列化排版结果失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
