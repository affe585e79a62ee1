package dsl

import (
	"strconv"
	"strings"
)

// Interface 把 Value 转为普通 Go 值：字符串、数字、布尔、切片或 map。
// 带单位的数字（15mm、30%）保留为字符串，交由调用方解析；标识符路径以 "." 连接。
func (v *Value) Interface() any {
	switch {
	case v == nil:
		return nil
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return numberValue(*v.Number)
	case v.Color != nil:
		return *v.Color
	case v.Array != nil:
		out := make([]any, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			out = append(out, item.Interface())
		}
		return out
	case v.Bool != nil:
		return bool(*v.Bool)
	case v.Object != nil:
		return v.Object.Map()
	case len(v.Path) > 0:
		return strings.Join(v.Path, ".")
	default:
		return nil
	}
}

// Map 返回内联对象的键值。
func (o *InlineObject) Map() map[string]any {
	out := make(map[string]any, len(o.Entries))
	for _, entry := range o.Entries {
		out[entry.Key] = entry.Value.Interface()
	}
	return out
}

// Assignments 把块中的 key: value 语句收集为 map，忽略命令与纯文本。
func (b *Block) Assignments() map[string]any {
	out := map[string]any{}
	if b == nil {
		return out
	}
	for _, st := range b.Statements {
		if st.Assignment == nil {
			continue
		}
		out[st.Assignment.Key] = st.Assignment.Value.Interface()
	}
	return out
}

func numberValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return int(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
