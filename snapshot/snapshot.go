// Package snapshot 定义报价快照的可选字段结构，并负责从 JSON/YAML 读取。
// 所有字段都可能缺失，文档组装阶段会逐一检查并替换为占位文本。
package snapshot

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Snapshot 是生成报价单时的业务数据快照。
type Snapshot struct {
	QuoteID           string             `yaml:"quote_id" json:"quote_id"`
	ProjectID         string             `yaml:"project_id" json:"project_id"`
	Currency          string             `yaml:"currency" json:"currency"`
	IssuedAt          *Date              `yaml:"issued_at" json:"issued_at"`
	Project           *Project           `yaml:"project" json:"project"`
	ContractStructure *ContractStructure `yaml:"contract_structure" json:"contract_structure"`
	Cover             *Cover             `yaml:"cover_requirements" json:"cover_requirements"`
	Claims            []Claim            `yaml:"claims_history" json:"claims_history"`
	Extensions        []Extension        `yaml:"selected_extensions" json:"selected_extensions"`
	Premium           *Amount            `yaml:"premium" json:"premium"`
	Exclusions        []string           `yaml:"exclusions" json:"exclusions"`
	Subjectivities    []string           `yaml:"subjectivities" json:"subjectivities"`
	Warranties        []string           `yaml:"warranties" json:"warranties"`
	ValidityDays      *int               `yaml:"validity_days" json:"validity_days"`

	// Raw 保留原始的键值树，供 ${path} 插值使用。
	Raw map[string]any `yaml:"-" json:"-"`
}

// Project 描述工程本身。
type Project struct {
	Name              string  `yaml:"name" json:"name"`
	Type              string  `yaml:"project_type" json:"project_type"`
	ConstructionType  string  `yaml:"construction_type" json:"construction_type"`
	Description       string  `yaml:"description" json:"description"`
	Location          string  `yaml:"location" json:"location"`
	Address           string  `yaml:"address" json:"address"`
	StartDate         *Date   `yaml:"start_date" json:"start_date"`
	EndDate           *Date   `yaml:"end_date" json:"end_date"`
	MaintenanceMonths *int    `yaml:"maintenance_period_months" json:"maintenance_period_months"`
	ContractValue     *Amount `yaml:"contract_value" json:"contract_value"`
}

// ContractStructure 列出业主、总包与分包方。
type ContractStructure struct {
	PrincipalOwner string   `yaml:"principal_owner" json:"principal_owner"`
	MainContractor string   `yaml:"main_contractor" json:"main_contractor"`
	SubContractors []string `yaml:"sub_contractors" json:"sub_contractors"`
}

// Cover 是保障需求：保额、第三者责任限额与免赔额。
type Cover struct {
	SumInsured     *Amount `yaml:"sum_insured" json:"sum_insured"`
	TPLLimit       *Amount `yaml:"tpl_limit" json:"tpl_limit"`
	Deductible     *Amount `yaml:"deductible" json:"deductible"`
	CrossLiability *bool   `yaml:"cross_liability" json:"cross_liability"`
}

// Claim 是一条历史赔案记录。
type Claim struct {
	Year        int     `yaml:"year" json:"year"`
	Count       int     `yaml:"count" json:"count"`
	Amount      *Amount `yaml:"amount" json:"amount"`
	Description string  `yaml:"description" json:"description"`
}

// Extension 是选中的附加保障。Label 为空时使用 Code。
type Extension struct {
	Code  string  `yaml:"code" json:"code"`
	Label string  `yaml:"label" json:"label"`
	Limit *Amount `yaml:"limit" json:"limit"`
}

// Amount 接受数字或带千分位的数字字符串（"57,800"）。
// 空串或无法解析的值不报错，Valid 为 false，组装阶段按未提供处理。
type Amount struct {
	Value float64
	Valid bool
}

// NewAmount 返回一个有效金额。
func NewAmount(v float64) *Amount {
	return &Amount{Value: v, Valid: true}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	*a = Amount{}
	var f float64
	if node.Kind == yaml.ScalarNode && node.Decode(&f) == nil {
		*a = Amount{Value: f, Valid: true}
		return nil
	}
	raw := strings.TrimSpace(strings.ReplaceAll(node.Value, ",", ""))
	if f, err := strconv.ParseFloat(raw, 64); err == nil && raw != "" {
		*a = Amount{Value: f, Valid: true}
	}
	return nil
}

// Float 返回金额数值；nil 或无效值视为未提供。
func (a *Amount) Float() (float64, bool) {
	if a == nil || !a.Valid {
		return 0, false
	}
	return a.Value, true
}

// dateLayouts 依次尝试的日期格式。
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// Date 是只关心日期部分的时间值，可从多种常见格式解析。
type Date struct {
	time.Time
}

// UnmarshalYAML implements yaml.Unmarshaler. 无法识别的日期保留为零值，Value 报告未提供。
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	d.Time = time.Time{}
	if t, err := ParseDate(strings.TrimSpace(node.Value)); err == nil {
		d.Time = t
	}
	return nil
}

// ParseDate 按 dateLayouts 解析日期字符串。
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期 %q", raw)
}

// Value 返回日期；nil 或零值视为未提供。
func (d *Date) Value() (time.Time, bool) {
	if d == nil || d.IsZero() {
		return time.Time{}, false
	}
	return d.Time, true
}

// Parse 从 JSON 或 YAML 文本解析快照。JSON 是 YAML 的子集，因此共用一个解码器。
func Parse(data []byte) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := yaml.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("解析快照失败: %w", err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析快照失败: %w", err)
	}
	snap.Raw = raw
	return snap, nil
}

// Load 读取并解析快照文件。
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取快照 %s 失败: %w", path, err)
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
