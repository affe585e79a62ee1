// Package binding 把快照中的值插入页脚与免责声明文本，语法为 ${path.to.value}。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolator 控制占位符的替换方式。
type Interpolator struct {
	// Missing 非空时替换无法解析的路径；为空则保留原占位符。
	Missing string
	// Format 把解析到的值转为文本，默认 fmt.Sprint。
	Format func(any) string
}

// Interpolate 使用默认 Interpolator 替换占位符。
func Interpolate(text string, data any) string {
	return Interpolator{}.Interpolate(text, data)
}

// Interpolate 将文本中的 ${path} 替换为 data 中的值。
func (in Interpolator) Interpolate(text string, data any) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		path := ""
		if len(groups) > 1 {
			path = strings.TrimSpace(groups[1])
		}
		if path != "" {
			if val, ok := Lookup(data, path); ok && val != nil {
				return in.format(val)
			}
		}
		if in.Missing != "" {
			return in.Missing
		}
		return match
	})
}

// InterpolateAll 逐段替换，返回新切片。
func (in Interpolator) InterpolateAll(texts []string, data any) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = in.Interpolate(t, data)
	}
	return out
}

func (in Interpolator) format(v any) string {
	if in.Format != nil {
		return in.Format(v)
	}
	return fmt.Sprint(v)
}

// Lookup 按 a.b[0].c 形式的路径在 map/slice 树中取值。
func Lookup(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	var indexes []string
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 && rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[any]any:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
