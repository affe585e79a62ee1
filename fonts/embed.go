package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:gobold" 或直接 "gobold"。
func Load(name string) ([]byte, error) {
	key := strings.TrimPrefix(strings.ToLower(name), "embed:")
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字体", name)
	}
	return data, nil
}
