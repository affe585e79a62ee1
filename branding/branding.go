// Package branding 保存报价单的样式与公司信息配置。
// 未识别的选项被忽略，缺失的选项使用硬编码默认值。
package branding

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/quotedoc/layout"
)

// 默认颜色。
const (
	DefaultHeaderBg     = "#004080"
	DefaultHeaderText   = "#FFFFFF"
	DefaultFooterBg     = "#F2F2F2"
	DefaultFooterText   = "#404040"
	DefaultValidity     = 30
	DefaultLogoPosition = "left"
)

// Config 对应报价单的 style/branding 配置。
type Config struct {
	HeaderBgColor         string      `yaml:"header_bg_color"`
	HeaderTextColor       string      `yaml:"header_text_color"`
	CompanyName           string      `yaml:"company_name"`
	CompanyAddress        string      `yaml:"company_address"`
	ContactInfo           ContactInfo `yaml:"contact_info"`
	LogoPosition          string      `yaml:"logo_position"`
	ShowFooter            bool        `yaml:"show_footer"`
	FooterBgColor         string      `yaml:"footer_bg_color"`
	FooterTextColor       string      `yaml:"footer_text_color"`
	ShowGeneralDisclaimer bool        `yaml:"show_general_disclaimer"`
	GeneralDisclaimerText string      `yaml:"general_disclaimer_text"`
	ShowRegulatoryInfo    bool        `yaml:"show_regulatory_info"`
	RegulatoryInfoText    string      `yaml:"regulatory_info_text"`
	ValidityDays          int         `yaml:"validity_days"`
}

// ContactInfo 是抬头中的联系方式。
type ContactInfo struct {
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Website string `yaml:"website"`
}

// Defaults 返回全部使用默认值的配置。
func Defaults() Config {
	return Config{
		HeaderBgColor:   DefaultHeaderBg,
		HeaderTextColor: DefaultHeaderText,
		LogoPosition:    DefaultLogoPosition,
		ShowFooter:      true,
		FooterBgColor:   DefaultFooterBg,
		FooterTextColor: DefaultFooterText,
		ValidityDays:    DefaultValidity,
	}
}

// Parse 在默认值之上解码 YAML/JSON 配置。
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("解析样式配置失败: %w", err)
	}
	return cfg.Normalize(), nil
}

// Load 读取样式配置文件。
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("读取样式配置 %s 失败: %w", path, err)
	}
	return Parse(data)
}

// FromMap 把松散的键值对（例如模板中的 branding 块）应用到默认值上。
func FromMap(values map[string]any) (Config, error) {
	data, err := yaml.Marshal(values)
	if err != nil {
		return Config{}, fmt.Errorf("编码样式配置失败: %w", err)
	}
	return Parse(data)
}

// Normalize 把空值与非法值替换为默认值。
func (c Config) Normalize() Config {
	d := Defaults()
	c.HeaderBgColor = validColor(c.HeaderBgColor, d.HeaderBgColor)
	c.HeaderTextColor = validColor(c.HeaderTextColor, d.HeaderTextColor)
	c.FooterBgColor = validColor(c.FooterBgColor, d.FooterBgColor)
	c.FooterTextColor = validColor(c.FooterTextColor, d.FooterTextColor)
	switch strings.ToLower(strings.TrimSpace(c.LogoPosition)) {
	case "left", "center", "right":
		c.LogoPosition = strings.ToLower(strings.TrimSpace(c.LogoPosition))
	default:
		c.LogoPosition = d.LogoPosition
	}
	if c.ValidityDays <= 0 {
		c.ValidityDays = d.ValidityDays
	}
	return c
}

func validColor(v, fallback string) string {
	if _, err := layout.ParseColor(v); err != nil {
		return fallback
	}
	return v
}

// ContactLine 返回非空联系方式，按 email/phone/website 顺序。
func (c Config) ContactLine() []string {
	var out []string
	if s := strings.TrimSpace(c.ContactInfo.Email); s != "" {
		out = append(out, "Email: "+s)
	}
	if s := strings.TrimSpace(c.ContactInfo.Phone); s != "" {
		out = append(out, "Tel: "+s)
	}
	if s := strings.TrimSpace(c.ContactInfo.Website); s != "" {
		out = append(out, s)
	}
	return out
}

// FooterParagraphs 返回启用的免责声明与监管信息文本。
func (c Config) FooterParagraphs() []string {
	var out []string
	if c.ShowGeneralDisclaimer && strings.TrimSpace(c.GeneralDisclaimerText) != "" {
		out = append(out, strings.TrimSpace(c.GeneralDisclaimerText))
	}
	if c.ShowRegulatoryInfo && strings.TrimSpace(c.RegulatoryInfoText) != "" {
		out = append(out, strings.TrimSpace(c.RegulatoryInfoText))
	}
	return out
}

// Chrome 把配置转换为排版用的页面装饰。paragraphs 为插值后的页脚文本。
func (c Config) Chrome(title, subtitle string, paragraphs []string) layout.Chrome {
	c = c.Normalize()
	white := layout.Color{R: 255, G: 255, B: 255}
	return layout.Chrome{
		Letterhead: layout.Letterhead{
			Background:  layout.MustColor(c.HeaderBgColor, layout.Color{R: 0, G: 64, B: 128}),
			TextColor:   layout.MustColor(c.HeaderTextColor, white),
			CompanyName: c.CompanyName,
			Address:     c.CompanyAddress,
			Contact:     c.ContactLine(),
			Align:       c.LogoPosition,
			Title:       title,
			Subtitle:    subtitle,
		},
		Footer: layout.FooterText{
			Show:       c.ShowFooter,
			Background: layout.MustColor(c.FooterBgColor, layout.Color{R: 242, G: 242, B: 242}),
			TextColor:  layout.MustColor(c.FooterTextColor, layout.Color{R: 64, G: 64, B: 64}),
			Paragraphs: paragraphs,
		},
	}
}
