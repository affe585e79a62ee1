// Package config 读取命令行工具的 YAML 配置文件。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// 可选的渲染后端。
const (
	BackendCanvas = "canvas"
	BackendFPDF   = "fpdf"
)

// Config 是 quotedoc 的运行配置，命令行参数优先于文件中的值。
type Config struct {
	Backend    string `yaml:"backend"`     // canvas 或 fpdf
	OutputDir  string `yaml:"output_dir"`  // PDF 输出目录
	Template   string `yaml:"template"`    // 模板文件路径，可为空
	Branding   string `yaml:"branding"`    // 独立的样式配置文件（YAML/JSON），可为空
	DateLayout string `yaml:"date_layout"` // Go 时间格式
	Currency   string `yaml:"currency"`    // 快照未指定货币时使用
	LogLevel   string `yaml:"log_level"`   // debug/info/warn/error
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Backend:    BackendCanvas,
		OutputDir:  "output",
		DateLayout: "02/01/2006",
		Currency:   "AED",
		LogLevel:   "info",
	}
}

// Load 读取配置文件；文件不存在时返回默认配置。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置 %s 失败: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查取值范围。
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "":
		c.Backend = BackendCanvas
	case BackendCanvas, BackendFPDF:
	default:
		return fmt.Errorf("未知的渲染后端 %q", c.Backend)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("未知的日志级别 %q", c.LogLevel)
	}
	return nil
}

// Save 把配置写回 YAML 文件。
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("编码配置失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入配置 %s 失败: %w", path, err)
	}
	return nil
}
