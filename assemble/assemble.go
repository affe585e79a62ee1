// Package assemble 把报价快照转换为按固定顺序排列的表格记录。
// 缺失的可选字段一律替换为占位文本，不返回错误。
package assemble

import (
	"fmt"
	"strings"
	"time"

	"github.com/ByLCY/quotedoc/layout"
	"github.com/ByLCY/quotedoc/snapshot"
)

// 固定的行标签，顺序即输出顺序。
const (
	LabelReference    = "Reference"
	LabelProposer     = "Proposer"
	LabelScope        = "Scope"
	LabelPeriod       = "Period of Insurance"
	LabelSite         = "Project Site"
	LabelInterest     = "Interest Insured"
	LabelSumInsured   = "Sum Insured"
	LabelLiability    = "Liability Limit"
	LabelDeductible   = "Deductible"
	LabelPremium      = "Premium"
	LabelCover        = "Cover"
	LabelExclusions   = "Exclusions"
	LabelSubjectivity = "Subjectivity"
	LabelValidity     = "Validity"
	LabelWarranties   = "Warranties"
)

const (
	// NameBlank 用于缺失的业主/承包商名称，留给人工填写。
	NameBlank     = "________________"
	NotApplicable = "N/A"
	ToBeAdvised   = "To be advised"

	DefaultValidityDays = 30

	premiumSuffix = "/- including policy fees"
	interestText  = "The permanent and temporary works including materials for incorporation therein, " +
		"constructional plant and equipment as declared"
)

// Options 控制组装时使用的格式化器与报价有效期。
type Options struct {
	Formatter    Formatter
	ValidityDays int
	// IssueDate 为零值时有效期写作 "from date of issue"。
	IssueDate time.Time
}

// ResolveCurrency 决定货币标签：快照自带的货币优先，其次是配置值，最后是 DefaultCurrency。
func ResolveCurrency(fromSnapshot, configured string) string {
	for _, c := range []string{fromSnapshot, configured} {
		if c = strings.TrimSpace(c); c != "" {
			return strings.ToUpper(c)
		}
	}
	return DefaultCurrency
}

// Assemble 按固定顺序生成全部记录。snap 为 nil 时所有字段使用占位文本。
func Assemble(snap *snapshot.Snapshot, opts Options) []layout.Record {
	if snap == nil {
		snap = &snapshot.Snapshot{}
	}
	f := opts.Formatter
	f.Currency = ResolveCurrency(snap.Currency, f.Currency)
	f = f.withDefaults()

	a := assembler{snap: snap, f: f, opts: opts}
	return []layout.Record{
		a.reference(),
		a.proposer(),
		a.scope(),
		a.period(),
		a.site(),
		a.interest(),
		a.amountRecord(LabelSumInsured, a.cover().SumInsured, ""),
		a.liability(),
		a.amountRecord(LabelDeductible, a.cover().Deductible, " each and every loss"),
		a.premium(),
		a.coverRecord(),
		a.listRecord(LabelExclusions, snap.Exclusions, "No specific exclusions applicable"),
		a.subjectivity(),
		a.validity(),
		a.listRecord(LabelWarranties, snap.Warranties, "No specific warranties applicable"),
	}
}

type assembler struct {
	snap *snapshot.Snapshot
	f    Formatter
	opts Options
}

func (a assembler) project() snapshot.Project {
	if a.snap.Project == nil {
		return snapshot.Project{}
	}
	return *a.snap.Project
}

func (a assembler) cover() snapshot.Cover {
	if a.snap.Cover == nil {
		return snapshot.Cover{}
	}
	return *a.snap.Cover
}

func (a assembler) reference() layout.Record {
	ref := firstNonEmpty(a.snap.QuoteID, a.snap.ProjectID, NotApplicable)
	lines := []string{ref}
	if a.snap.QuoteID != "" && a.snap.ProjectID != "" {
		lines = append(lines, "Project ID: "+a.snap.ProjectID)
	}
	return layout.Record{Label: LabelReference, Value: strings.Join(lines, "\n")}
}

func (a assembler) proposer() layout.Record {
	cs := snapshot.ContractStructure{}
	if a.snap.ContractStructure != nil {
		cs = *a.snap.ContractStructure
	}
	lines := []string{
		"Principal: " + firstNonEmpty(cs.PrincipalOwner, NameBlank),
		"Main Contractor: " + firstNonEmpty(cs.MainContractor, NameBlank),
	}
	subs := nonBlank(cs.SubContractors)
	if len(subs) == 0 {
		lines = append(lines, "Sub-Contractors: "+NotApplicable)
	} else {
		lines = append(lines, "Sub-Contractors:")
		lines = append(lines, numbered(subs)...)
	}
	return layout.Record{Label: LabelProposer, Value: strings.Join(lines, "\n")}
}

func (a assembler) scope() layout.Record {
	p := a.project()
	var lines []string
	if p.Name != "" {
		lines = append(lines, p.Name)
	}
	if p.Type != "" {
		lines = append(lines, "Project Type: "+a.f.Enum(p.Type))
	}
	if p.ConstructionType != "" {
		lines = append(lines, "Construction: "+a.f.Enum(p.ConstructionType))
	}
	if strings.TrimSpace(p.Description) != "" {
		lines = append(lines, strings.TrimSpace(p.Description))
	}
	if len(lines) == 0 {
		return layout.Record{Label: LabelScope, Value: NotApplicable}
	}
	return layout.Record{Label: LabelScope, Value: strings.Join(lines, "\n")}
}

func (a assembler) period() layout.Record {
	p := a.project()
	start, hasStart := p.StartDate.Value()
	end, hasEnd := p.EndDate.Value()
	var value string
	switch {
	case hasStart && hasEnd:
		value = fmt.Sprintf("From %s to %s", a.f.Date(start), a.f.Date(end))
	case hasStart:
		value = fmt.Sprintf("From %s, end date %s", a.f.Date(start), strings.ToLower(ToBeAdvised))
	default:
		value = ToBeAdvised
	}
	if p.MaintenanceMonths != nil && *p.MaintenanceMonths > 0 {
		value += fmt.Sprintf("\nPlus %d months maintenance period", *p.MaintenanceMonths)
	}
	return layout.Record{Label: LabelPeriod, Value: value}
}

func (a assembler) site() layout.Record {
	p := a.project()
	var lines []string
	for _, s := range []string{p.Location, p.Address} {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return layout.Record{Label: LabelSite, Value: NotApplicable}
	}
	return layout.Record{Label: LabelSite, Value: strings.Join(lines, "\n")}
}

func (a assembler) interest() layout.Record {
	rec := layout.Record{Label: LabelInterest, Value: interestText}
	if v, ok := a.project().ContractValue.Float(); ok {
		amount := a.f.Money(v)
		rec.Value += "\nContract Value: " + amount
		rec.Emphasized = []string{amount}
	}
	return rec
}

// amountRecord 生成单一金额行，金额部分加粗；缺失时写 N/A。
func (a assembler) amountRecord(label string, amt *snapshot.Amount, suffix string) layout.Record {
	v, ok := amt.Float()
	if !ok {
		return layout.Record{Label: label, Value: NotApplicable}
	}
	amount := a.f.Money(v)
	return layout.Record{Label: label, Value: amount + suffix, Emphasized: []string{amount}}
}

func (a assembler) liability() layout.Record {
	c := a.cover()
	rec := a.amountRecord(LabelLiability, c.TPLLimit, " any one occurrence")
	if c.CrossLiability != nil {
		rec.Value += "\nCross Liability: " + a.f.Bool(*c.CrossLiability)
	}
	return rec
}

func (a assembler) premium() layout.Record {
	v, ok := a.snap.Premium.Float()
	if !ok {
		return layout.Record{Label: LabelPremium, Value: ToBeAdvised}
	}
	amount := a.f.Money(v) + "/-"
	return layout.Record{
		Label:      LabelPremium,
		Value:      a.f.Money(v) + premiumSuffix,
		Emphasized: []string{amount},
	}
}

func (a assembler) coverRecord() layout.Record {
	lines := []string{
		"Section I: Material Damage to the Contract Works",
		"Section II: Third Party Liability",
	}
	var items []string
	for _, ext := range a.snap.Extensions {
		name := strings.TrimSpace(ext.Label)
		if name == "" {
			name = a.f.Enum(ext.Code)
		}
		if name == "" {
			continue
		}
		if v, ok := ext.Limit.Float(); ok {
			name += " (limit " + a.f.Money(v) + ")"
		}
		items = append(items, name)
	}
	if len(items) == 0 {
		lines = append(lines, "Extensions: No specific extensions applicable")
	} else {
		lines = append(lines, "Extensions:")
		lines = append(lines, numbered(items)...)
	}
	return layout.Record{Label: LabelCover, Value: strings.Join(lines, "\n")}
}

func (a assembler) listRecord(label string, items []string, placeholder string) layout.Record {
	items = nonBlank(items)
	if len(items) == 0 {
		return layout.Record{Label: label, Value: placeholder}
	}
	return layout.Record{Label: label, Value: strings.Join(numbered(items), "\n")}
}

func (a assembler) subjectivity() layout.Record {
	items := nonBlank(a.snap.Subjectivities)
	var claims []string
	for _, c := range a.snap.Claims {
		claims = append(claims, a.claimLine(c))
	}
	if len(items) == 0 && len(claims) == 0 {
		return layout.Record{Label: LabelSubjectivity, Value: "No specific subjectivities applicable"}
	}
	lines := numbered(items)
	if len(claims) > 0 {
		lines = append(lines, "Claims history:")
		for _, c := range claims {
			lines = append(lines, "- "+c)
		}
	}
	return layout.Record{Label: LabelSubjectivity, Value: strings.Join(lines, "\n")}
}

func (a assembler) claimLine(c snapshot.Claim) string {
	var parts []string
	if c.Year > 0 {
		parts = append(parts, fmt.Sprint(c.Year))
	}
	switch {
	case c.Count == 1:
		parts = append(parts, "1 claim")
	case c.Count > 1:
		parts = append(parts, fmt.Sprintf("%d claims", c.Count))
	}
	if v, ok := c.Amount.Float(); ok {
		parts = append(parts, a.f.Money(v))
	}
	if d := strings.TrimSpace(c.Description); d != "" {
		parts = append(parts, d)
	}
	if len(parts) == 0 {
		return NotApplicable
	}
	return strings.Join(parts, ", ")
}

func (a assembler) validity() layout.Record {
	days := a.opts.ValidityDays
	if a.snap.ValidityDays != nil && *a.snap.ValidityDays > 0 {
		days = *a.snap.ValidityDays
	}
	if days <= 0 {
		days = DefaultValidityDays
	}
	issued := a.opts.IssueDate
	if t, ok := a.snap.IssuedAt.Value(); ok {
		issued = t
	}
	from := "date of issue"
	if !issued.IsZero() {
		from = a.f.Date(issued)
	}
	return layout.Record{Label: LabelValidity, Value: fmt.Sprintf("%d days from %s", days, from)}
}

// numbered 生成 "1. xxx" 形式的子行。
func numbered(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return out
}

func nonBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
