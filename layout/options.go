package layout

import "go.uber.org/zap"

// BuildOptions 配置排版阶段所需的依赖与参数。零值字段使用默认值。
type BuildOptions struct {
	Typesetter Typesetter
	Geometry   Geometry
	Table      TableMetrics
	Chrome     Chrome
	Logger     *zap.Logger
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// fontSize 与 lineHeight 均为 mm；wrap 取 anywhere/break-word/nowrap。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

// 默认字体名。Build 在 ResourceSet 缺少时补齐。
const (
	FontBody = "Body"
	FontBold = "Bold"
)

// DefaultFonts 返回默认的常规/粗体字体资源。
func DefaultFonts() map[string]FontResource {
	return map[string]FontResource{
		FontBody: {Name: FontBody, Src: "embed:goregular", Style: "regular"},
		FontBold: {Name: FontBold, Src: "embed:gobold", Style: "bold"},
	}
}
