package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/isbalign/internal/cache"
	"github.com/ppiankov/isbalign/internal/convert"
	"github.com/ppiankov/isbalign/internal/model"
	"github.com/ppiankov/isbalign/internal/validate"
	"github.com/ppiankov/isbalign/internal/worker"
	"go.uber.org/zap"
)

// Pipeline orchestrates loading, checking and reporting a record batch
type Pipeline struct {
	engine    *convert.Engine
	validator *validate.Validator
	processor *worker.BatchProcessor
	renderer  *Renderer
	config    *model.Config
	logger    *zap.Logger
}

// NewPipeline creates a new pipeline with the given configuration. Summaries
// are printed to out.
func NewPipeline(cfg *model.Config, logger *zap.Logger, out io.Writer) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := convert.Options{
		RatioTolerance:     cfg.Engine.RatioTolerance,
		SelfCheckTolerance: cfg.Engine.SelfCheckTolerance,
		AllowFullRecompute: cfg.Engine.AllowFullRecompute,
		Logger:             logger,
	}
	if cfg.Cache.Enabled {
		opts.Cache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
		opts.CacheTTL = cfg.Cache.TTL
	}

	engine := convert.NewEngine(opts)
	validator := validate.NewValidator(engine, logger)

	return &Pipeline{
		engine:    engine,
		validator: validator,
		processor: worker.NewBatchProcessor(validator, cfg.Concurrency.Workers),
		renderer:  NewRenderer(out),
		config:    cfg,
		logger:    logger.Named("pipeline"),
	}
}

// Engine returns the strategy engine shared by every record
func (p *Pipeline) Engine() *convert.Engine {
	return p.engine
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// RunFile loads a record file and checks every record
func (p *Pipeline) RunFile(ctx context.Context, path string) (*model.Report, error) {
	records, err := LoadRecords(path)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, path, records)
}

// Run checks records concurrently and builds the report. A rejected record
// never stops the batch; a cancelled context does, and the partial report is
// returned with the error.
func (p *Pipeline) Run(ctx context.Context, input string, records []model.Record) (*model.Report, error) {
	start := time.Now()
	p.logger.Info("checking records",
		zap.String("input", input),
		zap.Int("records", len(records)),
		zap.Int("workers", p.config.Concurrency.Workers))

	results, err := p.processor.ProcessRecords(ctx, records)

	verdicts := make([]model.Verdict, 0, len(results))
	for _, r := range results {
		verdicts = append(verdicts, r.Verdict)
	}

	report := &model.Report{
		RunID:       uuid.New().String(),
		Input:       input,
		GeneratedAt: time.Now().UTC(),
		Engine:      p.config.Engine,
		Summary:     model.Summarize(verdicts),
		Verdicts:    verdicts,
	}

	p.logger.Info("batch checked",
		zap.String("run_id", report.RunID),
		zap.Int("usable", report.Summary.Usable),
		zap.Int("rejected", report.Summary.Rejected),
		zap.Duration("elapsed", time.Since(start)))

	if err != nil {
		return report, fmt.Errorf("check records: %w", err)
	}
	return report, nil
}

// ReportPath returns where RenderReport writes report
func (p *Pipeline) ReportPath(report *model.Report) string {
	return filepath.Join(p.config.Output.Directory, "isbalign-"+report.RunID+"."+p.config.Output.Format)
}

// RenderReport writes the report file and prints the summary
func (p *Pipeline) RenderReport(report *model.Report) (string, error) {
	path := p.ReportPath(report)
	if err := p.renderer.Render(report, path, p.config.Output.Format); err != nil {
		return "", fmt.Errorf("render %s: %w", p.config.Output.Format, err)
	}
	p.logger.Debug("report written", zap.String("path", path))

	if p.config.Output.Verbose {
		p.renderer.RenderVerdicts(report)
	}
	p.renderer.RenderSummary(report)
	return path, nil
}
