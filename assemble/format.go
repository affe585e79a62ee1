package assemble

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultCurrency   = "AED"
	DefaultDateLayout = "02/01/2006"
)

// Formatter 把原始值转换为表格中显示的文本。所有方法都是纯函数。
type Formatter struct {
	Currency   string
	DateLayout string
	Lang       language.Tag

	printer *message.Printer
}

// NewFormatter 创建格式化器；空参数使用默认货币与日期格式。
func NewFormatter(currency, dateLayout string) Formatter {
	f := Formatter{Currency: currency, DateLayout: dateLayout, Lang: language.English}
	return f.withDefaults()
}

func (f Formatter) withDefaults() Formatter {
	if strings.TrimSpace(f.Currency) == "" {
		f.Currency = DefaultCurrency
	}
	if f.DateLayout == "" {
		f.DateLayout = DefaultDateLayout
	}
	if f.Lang == language.Und {
		f.Lang = language.English
	}
	if f.printer == nil {
		f.printer = message.NewPrinter(f.Lang)
	}
	return f
}

// Number 按语言习惯分组千分位；整数不带小数位。
func (f Formatter) Number(v float64) string {
	f = f.withDefaults()
	if v == math.Trunc(v) {
		return f.printer.Sprintf("%d", int64(v))
	}
	return f.printer.Sprintf("%.2f", v)
}

// Money 返回 "<货币> 1,234,567"。
func (f Formatter) Money(v float64) string {
	f = f.withDefaults()
	return f.Currency + " " + f.Number(v)
}

// Enum 把枚举代码转换为可读标签：residential_building -> Residential Building。
func (f Formatter) Enum(code string) string {
	f = f.withDefaults()
	words := strings.FieldsFunc(code, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(words) == 0 {
		return ""
	}
	// Caser 有内部状态，不能在 goroutine 之间共享。
	return cases.Title(f.Lang).String(strings.Join(words, " "))
}

// Date 按 DateLayout 格式化日期。
func (f Formatter) Date(t time.Time) string {
	f = f.withDefaults()
	return t.Format(f.DateLayout)
}

// Bool 返回 Yes/No。
func (f Formatter) Bool(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
