package layout

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoTypesetter 表示调用方没有提供排版后端。
var ErrNoTypesetter = errors.New("layout: 缺少排版后端 Typesetter")

// Build 对文档执行两遍排版：先测量并分页全部 Record，再根据总页数写入页脚。
func Build(doc *Document, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Typesetter == nil {
		return nil, ErrNoTypesetter
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	geom := opts.Geometry.withDefaults()
	metrics := opts.Table.withDefaults()
	fonts := DefaultFonts()

	footer, err := BuildFooterSpec(opts.Chrome.Footer, geom, fonts, opts.Typesetter)
	if err != nil {
		return nil, err
	}
	footerReserve := 0.0
	if footer != nil {
		footerReserve = footer.Height
	}

	rows := make([]TableRow, 0, len(doc.Records))
	for i, rec := range doc.Records {
		row, err := MeasureRow(i, rec, geom.Margin, geom.ContentWidth(), metrics, fonts, opts.Typesetter)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	pages, cursor := Paginate(rows, geom, footerReserve)

	header, err := buildLetterhead(opts.Chrome.Letterhead, geom, fonts, opts.Typesetter)
	if err != nil {
		return nil, err
	}
	pages[0].Header = header

	pages = RenderFooters(pages, footer)
	logger.Debug("layout finished",
		zap.Int("records", len(doc.Records)),
		zap.Int("pages", len(pages)),
		zap.Float64("cursor", cursor),
	)

	meta := doc.Meta
	if meta.Creator == "" {
		meta.Creator = "quotedoc"
	}
	return &Result{
		Pages:     pages,
		Resources: ResourceSet{Fonts: fonts},
		Meta:      meta,
	}, nil
}
