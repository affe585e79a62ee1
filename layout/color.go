package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColor 解析 #RGB / #RRGGBB / #RRGGBBAA，透明度被忽略。
func ParseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(hex) {
	case 3:
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var c Color
	for i, dst := range []*int{&c.R, &c.G, &c.B} {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
		}
		*dst = int(v)
	}
	return c, nil
}

// MustColor 同 ParseColor，解析失败时返回 fallback。
func MustColor(value string, fallback Color) Color {
	c, err := ParseColor(value)
	if err != nil {
		return fallback
	}
	return c
}
