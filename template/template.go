// Package template 把 dsl 模板解析结果转换为样式配置、页面几何与表格参数。
package template

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ByLCY/quotedoc/branding"
	"github.com/ByLCY/quotedoc/dsl"
	"github.com/ByLCY/quotedoc/layout"
)

// Template 是一份可复用的报价单模板。
type Template struct {
	Name     string
	Version  string
	Branding branding.Config
	Geometry layout.Geometry
	Table    layout.TableMetrics
	Meta     layout.DocumentMeta
}

// Default 返回不依赖模板文件的默认模板。
func Default() *Template {
	return &Template{
		Name:     "default",
		Version:  "v1",
		Branding: branding.Defaults(),
		Geometry: layout.DefaultGeometry(),
		Table:    layout.DefaultTableMetrics(),
		Meta:     layout.DocumentMeta{Title: "Contractors All Risks Quotation"},
	}
}

// Load 读取并解析模板文件。
func Load(path string) (*Template, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开模板文件 %s: %w", path, err)
	}
	defer file.Close()
	tpl, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tpl, nil
}

// Parse 解析模板文本。
func Parse(r io.Reader) (*Template, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析模板失败: %w", err)
	}
	return FromDocument(doc)
}

// ParseString 解析模板字符串。
func ParseString(input string) (*Template, error) {
	doc, err := dsl.ParseString(input)
	if err != nil {
		return nil, fmt.Errorf("解析模板失败: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument 在默认模板之上应用 AST 中的各个段落。
func FromDocument(doc *dsl.Document) (*Template, error) {
	if doc == nil {
		return nil, fmt.Errorf("模板为空")
	}
	tpl := Default()
	tpl.Name = doc.Name
	tpl.Version = doc.Version
	for _, section := range doc.Sections {
		var err error
		switch {
		case section.Meta != nil:
			applyMeta(&tpl.Meta, section.Meta.Block)
		case section.Branding != nil:
			tpl.Branding, err = brandingFrom(section.Branding.Block)
		case section.Page != nil:
			err = applyPage(tpl, section.Page)
		}
		if err != nil {
			return nil, fmt.Errorf("%s 段: %w", section.Kind(), err)
		}
	}
	return tpl, nil
}

func applyMeta(meta *layout.DocumentMeta, block *dsl.Block) {
	for key, val := range block.Assignments() {
		switch key {
		case "title":
			meta.Title = fmt.Sprint(val)
		case "author":
			meta.Author = fmt.Sprint(val)
		case "subject":
			meta.Subject = fmt.Sprint(val)
		case "keywords":
			meta.Keywords = stringList(val)
		}
	}
}

// brandingFrom 合并 key: value 选项与 disclaimer/regulatory 文本命令。
func brandingFrom(block *dsl.Block) (branding.Config, error) {
	values := block.Assignments()
	for _, st := range block.Statements {
		if st.Command == nil || st.Command.Block == nil {
			continue
		}
		var textKey, showKey string
		switch st.Command.Name {
		case "disclaimer":
			textKey, showKey = "general_disclaimer_text", "show_general_disclaimer"
		case "regulatory":
			textKey, showKey = "regulatory_info_text", "show_regulatory_info"
		default:
			continue
		}
		var parts []string
		for _, inner := range st.Command.Block.Statements {
			if inner.Text != nil {
				parts = append(parts, string(inner.Text.Value))
			}
		}
		values[textKey] = strings.Join(parts, " ")
		if _, ok := values[showKey]; !ok {
			values[showKey] = true
		}
	}
	return branding.FromMap(values)
}

func applyPage(tpl *Template, page *dsl.PageSection) error {
	width, height, ok := layout.PageSize(strings.ToUpper(page.Spec.Size))
	if !ok {
		return fmt.Errorf("暂不支持的纸张尺寸：%s", page.Spec.Size)
	}
	params := page.Spec.Params
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case "landscape":
			width, height = height, width
		case "portrait":
		case "margin":
			if i+1 >= len(params) {
				return fmt.Errorf("margin 缺少数值")
			}
			i++
			mm, err := lengthMM(params[i])
			if err != nil {
				return err
			}
			tpl.Geometry.Margin = mm
		default:
			return fmt.Errorf("未知的页面参数 %s", params[i])
		}
	}
	tpl.Geometry.PageWidth, tpl.Geometry.PageHeight = width, height

	values := page.Block.Assignments()
	fontSize := layout.Length{Value: tpl.Table.FontSize, Unit: layout.UnitMM}
	if raw, ok := values["font_size"]; ok {
		l, ok := layout.ParseLength(fmt.Sprint(raw))
		if !ok || l.Value <= 0 {
			return fmt.Errorf("font_size 无法解析: %v", raw)
		}
		if l.Unit == layout.UnitNone {
			l.Unit = layout.UnitPT
		}
		fontSize = l
		tpl.Table.FontSize = l.ToMM()
	}
	lengths := map[string]*float64{
		"header_height":  &tpl.Geometry.HeaderHeight,
		"footer_height":  &tpl.Geometry.FooterHeight,
		"min_row_height": &tpl.Table.MinRowHeight,
		"row_padding":    &tpl.Table.RowPadding,
		"cell_padding":   &tpl.Table.CellPadding,
	}
	for key, raw := range values {
		switch key {
		case "font_size":
		case "line_height":
			spec, ok := layout.ParseLineHeight(fmt.Sprint(raw))
			if !ok {
				return fmt.Errorf("line_height 无法解析: %v", raw)
			}
			tpl.Table.LineHeight = spec.ResolveMM(fontSize)
		case "label_ratio":
			ratio, err := parseRatio(fmt.Sprint(raw))
			if err != nil {
				return err
			}
			tpl.Table.LabelRatio = ratio
		default:
			dst, ok := lengths[key]
			if !ok {
				continue
			}
			if raw == "none" && (key == "header_height" || key == "footer_height") {
				*dst = -1
				continue
			}
			mm, err := lengthMM(fmt.Sprint(raw))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = mm
		}
	}
	return nil
}

func lengthMM(raw string) (float64, error) {
	l, ok := layout.ParseLength(raw)
	if !ok || l.Value < 0 {
		return 0, fmt.Errorf("长度 %q 无法解析", raw)
	}
	return l.ToMM(), nil
}

// parseRatio 接受 "30%" 或 0.3。
func parseRatio(raw string) (float64, error) {
	v := strings.TrimSpace(raw)
	pct := strings.HasSuffix(v, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("比例 %q 无法解析", raw)
	}
	if pct {
		f /= 100
	}
	if f <= 0 || f >= 1 {
		return 0, fmt.Errorf("比例 %q 超出范围", raw)
	}
	return f, nil
}

func stringList(val any) []string {
	switch v := val.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(v)}
	}
}
