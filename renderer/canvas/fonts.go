package canvasrenderer

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/quotedoc/fonts"
	"github.com/ByLCY/quotedoc/layout"
)

type cachedFamily struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// fontCache 按 src+style 缓存已加载的字体族；加载失败的字体退回 goregular。
type fontCache struct {
	mu       sync.Mutex
	custom   map[string][]byte
	families map[string]cachedFamily
	fallback *canvas.FontFamily
}

func newFontCache(custom map[string][]byte) *fontCache {
	c := &fontCache{custom: map[string][]byte{}, families: map[string]cachedFamily{}}
	for name, data := range custom {
		if name != "" && len(data) > 0 {
			c.custom[name] = data
		}
	}
	return c
}

func (c *fontCache) family(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := font.Src + "|" + font.Style
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit, ok := c.families[key]; ok {
		return hit.family, hit.style, nil
	}

	style := canvas.FontRegular
	if strings.Contains(strings.ToLower(font.Style), "bold") {
		style = canvas.FontBold
	}
	name := font.Name
	if name == "" {
		name = layout.FontBody
	}
	family := canvas.NewFontFamily(name)
	data, err := c.bytes(font.Src)
	if err == nil {
		err = family.LoadFont(data, 0, style)
	}
	if err != nil {
		fb, fbErr := c.loadFallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", font.Src, err)
		}
		family, style = fb, canvas.FontRegular
	}
	c.families[key] = cachedFamily{family: family, style: style}
	return family, style, nil
}

// bytes 解析 src：embed:<go 字体>、custom:<注入名> 或文件路径。
func (c *fontCache) bytes(src string) ([]byte, error) {
	switch {
	case src == "":
		return nil, fmt.Errorf("字体缺少 src")
	case strings.HasPrefix(src, "embed:"):
		return fonts.Load(src)
	case strings.HasPrefix(src, "custom:"):
		name := strings.TrimPrefix(src, "custom:")
		if data, ok := c.custom[name]; ok {
			return data, nil
		}
		return nil, fmt.Errorf("未注入字体 %s", name)
	default:
		return os.ReadFile(src)
	}
}

// loadFallback 要求调用方已持有 mu。
func (c *fontCache) loadFallback() (*canvas.FontFamily, error) {
	if c.fallback != nil {
		return c.fallback, nil
	}
	data, err := fonts.Load("goregular")
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	c.fallback = family
	return family, nil
}
