// Package quote 串联文档组装、排版与渲染，生成带规范文件名的报价单。
package quote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ByLCY/quotedoc/assemble"
	"github.com/ByLCY/quotedoc/binding"
	"github.com/ByLCY/quotedoc/branding"
	"github.com/ByLCY/quotedoc/layout"
	"github.com/ByLCY/quotedoc/renderer"
	"github.com/ByLCY/quotedoc/snapshot"
	"github.com/ByLCY/quotedoc/template"
)

const (
	filenamePrefix   = "Contractors_All_Risks_Quote_"
	defaultProjectID = "CAR"
	fileExt          = ".pdf"
)

// ErrNoBackend 表示未提供渲染后端。
var ErrNoBackend = errors.New("quote: 缺少渲染后端")

// Options 配置生成器。零值字段使用默认值。
type Options struct {
	Template  *template.Template
	Formatter assemble.Formatter
	Logger    *zap.Logger
	// Now 提供出具日期与文件名中的日期，测试中可固定。
	Now func() time.Time
}

// Generator 生成报价单。Generate 不修改 Generator，可被并发调用。
type Generator struct {
	backend   renderer.Backend
	tpl       *template.Template
	formatter assemble.Formatter
	logger    *zap.Logger
	now       func() time.Time
}

// Artifact 是一次生成的产物。
type Artifact struct {
	ID       string
	Filename string
	Data     []byte
	Records  []layout.Record
	Result   *layout.Result
}

// NewGenerator 使用给定后端创建生成器。
func NewGenerator(backend renderer.Backend, opts Options) *Generator {
	g := &Generator{
		backend:   backend,
		tpl:       opts.Template,
		formatter: opts.Formatter,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if g.tpl == nil {
		g.tpl = template.Default()
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.formatter.Currency == "" && g.formatter.DateLayout == "" {
		g.formatter = assemble.NewFormatter("", "")
	}
	return g
}

// Records 只执行文档组装。
func (g *Generator) Records(snap *snapshot.Snapshot, brand *branding.Config) []layout.Record {
	b := g.branding(brand)
	return assemble.Assemble(snap, assemble.Options{
		Formatter:    g.formatter,
		ValidityDays: b.ValidityDays,
		IssueDate:    g.now(),
	})
}

// Layout 组装并排版，不渲染。
func (g *Generator) Layout(snap *snapshot.Snapshot, brand *branding.Config) (*layout.Result, []layout.Record, error) {
	return g.layout(snap, brand, g.now())
}

func (g *Generator) layout(snap *snapshot.Snapshot, brand *branding.Config, issued time.Time) (*layout.Result, []layout.Record, error) {
	if g.backend == nil {
		return nil, nil, ErrNoBackend
	}
	if snap == nil {
		snap = &snapshot.Snapshot{}
	}
	b := g.branding(brand)
	records := assemble.Assemble(snap, assemble.Options{
		Formatter:    g.formatter,
		ValidityDays: b.ValidityDays,
		IssueDate:    issued,
	})

	interp := binding.Interpolator{Missing: assemble.NotApplicable}
	paragraphs := interp.InterpolateAll(b.FooterParagraphs(), snap.Raw)

	meta := g.tpl.Meta
	if meta.Author == "" {
		meta.Author = b.CompanyName
	}
	if meta.Subject == "" {
		meta.Subject = "Quotation " + firstNonEmpty(snap.QuoteID, snap.ProjectID, defaultProjectID)
	}
	chrome := b.Chrome(meta.Title, "Date: "+g.formatter.Date(issued), paragraphs)

	res, err := layout.Build(&layout.Document{Records: records, Meta: meta}, layout.BuildOptions{
		Typesetter: g.backend,
		Geometry:   g.tpl.Geometry,
		Table:      g.tpl.Table,
		Chrome:     chrome,
		Logger:     g.logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("布局计算失败: %w", err)
	}
	return res, records, nil
}

// Generate 执行完整流程：组装、排版、渲染，并按项目编号与日期命名。
func (g *Generator) Generate(snap *snapshot.Snapshot, brand *branding.Config) (*Artifact, error) {
	id := uuid.NewString()
	start := time.Now()
	logger := g.logger.With(zap.String("generation_id", id))
	issued := g.now()

	res, records, err := g.layout(snap, brand, issued)
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
		return nil, err
	}
	data, err := g.backend.Render(res)
	if err != nil {
		logger.Error("render failed", zap.Error(err))
		return nil, fmt.Errorf("渲染 PDF 失败: %w", err)
	}

	projectID := ""
	if snap != nil {
		projectID = snap.ProjectID
	}
	art := &Artifact{
		ID:       id,
		Filename: Filename(projectID, issued),
		Data:     data,
		Records:  records,
		Result:   res,
	}
	logger.Info("quote generated",
		zap.String("filename", art.Filename),
		zap.Int("records", len(records)),
		zap.Int("pages", len(res.Pages)),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return art, nil
}

func (g *Generator) branding(brand *branding.Config) branding.Config {
	if brand != nil {
		return brand.Normalize()
	}
	return g.tpl.Branding.Normalize()
}

// Filename 返回 Contractors_All_Risks_Quote_<项目编号或 CAR>_<YYYY-MM-DD>.pdf。
func Filename(projectID string, at time.Time) string {
	id := sanitize(projectID)
	if id == "" {
		id = defaultProjectID
	}
	return filenamePrefix + id + "_" + at.Format("2006-01-02") + fileExt
}

// sanitize 去掉文件名中不安全的字符。
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r == ' ' || r == '/' || r == '\\':
			return '_'
		default:
			return -1
		}
	}, s)
}

// Save 把产物写入 dir，返回完整路径。
func (a *Artifact) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return path, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
