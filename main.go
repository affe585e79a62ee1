package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ByLCY/quotedoc/assemble"
	"github.com/ByLCY/quotedoc/branding"
	"github.com/ByLCY/quotedoc/config"
	"github.com/ByLCY/quotedoc/layout"
	"github.com/ByLCY/quotedoc/navigation"
	"github.com/ByLCY/quotedoc/quote"
	"github.com/ByLCY/quotedoc/renderer"
	canvasrenderer "github.com/ByLCY/quotedoc/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/quotedoc/renderer/fpdf"
	"github.com/ByLCY/quotedoc/snapshot"
	"github.com/ByLCY/quotedoc/template"
)

// cliOptions 汇总命令行参数；非空参数覆盖配置文件中的值。
type cliOptions struct {
	configPath   string
	logLevel     string
	snapshotPath string
	templatePath string
	brandingPath string
	outDir       string
	backend      string
	debugPath    string
	force        bool
	visits       []string
	current      string
}

type app struct {
	opts   cliOptions
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

func main() {
	if err := newRootCmd(&app{now: time.Now}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "quotedoc",
		Short:         "生成 Contractors All Risks 报价单 PDF",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.opts.configPath, "config", "quotedoc.yaml", "配置文件路径")
	root.PersistentFlags().StringVar(&a.opts.logLevel, "log-level", "", "日志级别 debug/info/warn/error")
	root.PersistentFlags().StringVar(&a.opts.snapshotPath, "snapshot", "", "报价快照文件（JSON/YAML）")
	root.PersistentFlags().StringVar(&a.opts.templatePath, "template", "", "模板文件路径")
	root.PersistentFlags().StringVar(&a.opts.brandingPath, "branding", "", "样式配置文件（YAML/JSON）")
	root.PersistentFlags().StringVar(&a.opts.backend, "backend", "", "渲染后端 canvas|fpdf")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "生成 PDF 报价单",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd)
		},
	}
	generate.Flags().StringVar(&a.opts.outDir, "out", "", "输出目录")
	generate.Flags().StringVar(&a.opts.debugPath, "debug", "", "布局调试 JSON 输出路径")

	records := &cobra.Command{
		Use:   "records",
		Short: "输出组装后的表格记录（JSON）",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRecords(cmd)
		},
	}

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "只做排版并输出分页摘要",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLayout(cmd)
		},
	}
	layoutCmd.Flags().StringVar(&a.opts.debugPath, "debug", "", "布局调试 JSON 输出路径")

	configCmd := &cobra.Command{Use: "config", Short: "配置文件相关操作"}
	configInit := &cobra.Command{
		Use:   "init [path]",
		Short: "写出当前生效的配置（默认值加命令行参数）",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.opts.configPath
			if len(args) == 1 {
				path = args[0]
			}
			return a.runConfigInit(cmd, path)
		},
	}
	configInit.Flags().BoolVar(&a.opts.force, "force", false, "覆盖已存在的配置文件")
	configCmd.AddCommand(configInit)

	back := &cobra.Command{
		Use:   "back",
		Short: "按导航历史计算返回目标页面",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBack(cmd)
		},
	}
	back.Flags().StringSliceVar(&a.opts.visits, "visit", nil, "按时间顺序访问过的页面，第一个作为会话入口")
	back.Flags().StringVar(&a.opts.current, "from", "", "当前页面")

	root.AddCommand(generate, records, layoutCmd, configCmd, back)
	return root
}

// setup 读取配置并初始化日志。
func (a *app) setup() error {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}
	if a.opts.logLevel != "" {
		cfg.LogLevel = a.opts.logLevel
	}
	if a.opts.backend != "" {
		cfg.Backend = a.opts.backend
	}
	if a.opts.templatePath != "" {
		cfg.Template = a.opts.templatePath
	}
	if a.opts.brandingPath != "" {
		cfg.Branding = a.opts.brandingPath
	}
	if a.opts.outDir != "" {
		cfg.OutputDir = a.opts.outDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := buildLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	return nil
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("未知的日志级别 %q: %w", level, err)
		}
	}
	zc := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return logger, nil
}

func newBackend(name string) (renderer.Backend, error) {
	switch name {
	case config.BackendCanvas, "":
		return canvasrenderer.NewRenderer(), nil
	case config.BackendFPDF:
		return fpdfrenderer.NewRenderer(fpdfrenderer.Options{}), nil
	default:
		return nil, fmt.Errorf("未知的渲染后端 %q", name)
	}
}

// generator 按配置装配生成器，并读取快照与样式。
func (a *app) generator() (*quote.Generator, *snapshot.Snapshot, *branding.Config, error) {
	if a.opts.snapshotPath == "" {
		return nil, nil, nil, fmt.Errorf("需要通过 --snapshot 指定快照文件")
	}
	snap, err := snapshot.Load(a.opts.snapshotPath)
	if err != nil {
		return nil, nil, nil, err
	}

	tpl := template.Default()
	if a.cfg.Template != "" {
		if tpl, err = template.Load(a.cfg.Template); err != nil {
			return nil, nil, nil, err
		}
	}
	var brand *branding.Config
	if a.cfg.Branding != "" {
		b, err := branding.Load(a.cfg.Branding)
		if err != nil {
			return nil, nil, nil, err
		}
		brand = &b
	}

	backend, err := newBackend(a.cfg.Backend)
	if err != nil {
		return nil, nil, nil, err
	}
	g := quote.NewGenerator(backend, quote.Options{
		Template:  tpl,
		Formatter: assemble.NewFormatter(a.cfg.Currency, a.cfg.DateLayout),
		Logger:    a.logger,
		Now:       a.now,
	})
	return g, snap, brand, nil
}

func (a *app) runGenerate(cmd *cobra.Command) error {
	g, snap, brand, err := a.generator()
	if err != nil {
		return err
	}
	art, err := g.Generate(snap, brand)
	if err != nil {
		return fmt.Errorf("生成 PDF 失败: %w", err)
	}
	if a.opts.debugPath != "" {
		if err := writeDebug(art.Result, a.opts.debugPath); err != nil {
			return err
		}
	}
	path, err := art.Save(a.cfg.OutputDir)
	if err != nil {
		return err
	}
	a.logger.Info("pdf written", zap.String("path", path), zap.String("generation_id", art.ID))
	fmt.Fprintf(cmd.OutOrStdout(), "已生成 PDF：%s\n", path)
	return nil
}

func (a *app) runRecords(cmd *cobra.Command) error {
	g, snap, brand, err := a.generator()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(g.Records(snap, brand))
}

func (a *app) runLayout(cmd *cobra.Command) error {
	g, snap, brand, err := a.generator()
	if err != nil {
		return err
	}
	res, _, err := g.Layout(snap, brand)
	if err != nil {
		return err
	}
	if a.opts.debugPath != "" {
		if err := writeDebug(res, a.opts.debugPath); err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	for _, page := range res.Pages {
		fmt.Fprintf(out, "page %d: %d rows", page.Number, len(page.Rows))
		for _, row := range page.Rows {
			fmt.Fprintf(out, " [%d %.2fmm]", row.Record, row.Height)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func (a *app) runConfigInit(cmd *cobra.Command, path string) error {
	if _, err := os.Stat(path); err == nil && !a.opts.force {
		return fmt.Errorf("配置文件 %s 已存在，使用 --force 覆盖", path)
	}
	if err := a.cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "已写入配置：%s\n", path)
	return nil
}

// runBack 用 --visit 重放一次会话，再输出从 --from 返回时应跳转的页面。
func (a *app) runBack(cmd *cobra.Command) error {
	session := navigation.NewSession(a.logger)
	defer session.Clear()
	if len(a.opts.visits) > 0 {
		session.Init(a.opts.visits[0])
		for _, path := range a.opts.visits[1:] {
			session.Visit(path)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), session.Back(a.opts.current))
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
