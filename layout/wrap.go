package layout

import (
	"math"
	"strings"
	"unicode"
)

// GreedyWrap 按 measure 给出的宽度（mm）贪心折行：优先在空白处断行，单词超宽时在词内拆分。
// wrap 为 nowrap 时只按显式换行划分。各后端的 Typesetter 共用此算法，只替换字体度量。
func GreedyWrap(content string, width float64, measure func(string) float64, wrap string) []TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	// nowrap：仅按显式换行划分，不基于宽度折行
	if wrap == "nowrap" {
		parts := strings.Split(content, "\n")
		lines := make([]TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, TextLine{Content: p, Width: measure(p)})
		}
		return lines
	}

	// 默认：优先在空白处分割，单词超过限制时在词内拆分
	tokens := tokenizeContent(content)
	var lines []TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, TextLine{})
			}
			return
		}
		text := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		lines = append(lines, TextLine{Content: text, Width: measure(text)})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		// 行首的空白不占位
		if builder.Len() == 0 && strings.TrimSpace(token) == "" {
			return
		}
		builder.WriteString(token)
		currentWidth += measure(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := measure(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit && strings.TrimSpace(token) != "" {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, measure) {
			chunkWidth := measure(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
		}
	}

	emit(true)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, measure func(string) float64) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if measure(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
