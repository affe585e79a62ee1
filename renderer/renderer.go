package renderer

import (
	"errors"

	"github.com/ByLCY/quotedoc/layout"
)

// Renderer 将排版结果输出为最终文件（PDF）。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Backend 同时负责排版测量与输出：折行必须与最终绘制使用同一套字体度量。
type Backend interface {
	Renderer
	layout.Typesetter
}

var (
	ErrEmptyResult = errors.New("渲染结果为空")
	ErrNoPages     = errors.New("缺少可渲染的页面")
)
