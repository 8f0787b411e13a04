// Package pipeline provides the high-level orchestration of one briefing run: collect,
// select, synthesize, render and deliver.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/briefing-monitor/internal/archive"
	"github.com/jonathan/briefing-monitor/internal/db"
	"github.com/jonathan/briefing-monitor/internal/dispatch"
	"github.com/jonathan/briefing-monitor/internal/llm"
	"github.com/jonathan/briefing-monitor/internal/logging"
	"github.com/jonathan/briefing-monitor/internal/rendering"
	"github.com/jonathan/briefing-monitor/internal/sources"
	"github.com/jonathan/briefing-monitor/internal/synthesis"
	"github.com/jonathan/briefing-monitor/internal/types"
	"github.com/jonathan/briefing-monitor/internal/variants"
)

// Status is the final state of a run.
type Status string

const (
	StatusDelivered      Status = db.StatusDelivered
	StatusDegraded       Status = db.StatusDegraded
	StatusNoRecords      Status = db.StatusNoRecords
	StatusDeliveryFailed Status = db.StatusDeliveryFailed
	StatusFailed         Status = db.StatusFailed
)

// totalSteps is the number of progress steps logged per run.
const totalSteps = 5

// Ledger records run outcomes. *db.DB satisfies it.
type Ledger interface {
	CreateBriefRun(ctx context.Context, variant string) (uuid.UUID, error)
	CompleteBriefRun(ctx context.Context, runID uuid.UUID, outcome db.RunOutcome) error
	SaveBriefArtifact(ctx context.Context, runID uuid.UUID, kind, content string) error
}

// RunOptions holds the variant, delivery settings and collaborators for one run.
// Archive and Ledger are optional.
type RunOptions struct {
	Variant    *variants.Variant
	From       string
	To         []string
	WindowDays int
	SheetID    string

	Feeds     sources.FeedSource
	Table     sources.TableSource
	LLM       llm.Client
	Deliverer dispatch.Deliverer
	Archive   archive.Store
	Ledger    Ledger
	Logger    *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Report describes what a run did.
type Report struct {
	RunID      uuid.UUID
	Variant    string
	Status     Status
	Collected  int
	Selection  *Selection
	Records    []types.Record
	Metrics    []types.MetricsRecord
	Synthesis  synthesis.Result
	Document   types.BriefDocument
	Message    dispatch.Message
	ArchiveURI string
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

// Count is the number of items the brief covers.
func (r *Report) Count() int {
	if len(r.Metrics) > 0 {
		return len(r.Metrics)
	}
	return len(r.Records)
}

type runner struct {
	opts   RunOptions
	logger *zap.Logger
	now    time.Time
	report *Report
}

// Run executes one briefing run. It returns ErrNoRecords when there is nothing to brief,
// a *dispatch.DeliveryError when delivery fails, and a *StageError for other fatal
// failures. The report is always non-nil.
func Run(ctx context.Context, opts RunOptions) (*Report, error) {
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	r := &runner{
		opts:   opts,
		logger: logging.Component(opts.Logger, "pipeline"),
		now:    nowFn(),
	}
	r.report = &Report{StartedAt: r.now}

	if opts.Variant == nil {
		err := &StageError{Stage: "setup", Message: "variant is required"}
		r.report.Status = StatusFailed
		r.report.Err = err
		return r.report, err
	}
	r.report.Variant = opts.Variant.Name
	r.logger = r.logger.With(zap.String("variant", opts.Variant.Name))

	r.startLedger(ctx)
	err := r.run(ctx)
	r.report.Err = err
	r.report.FinishedAt = nowFn()
	// The outcome is recorded even when the run was interrupted.
	r.finishLedger(context.WithoutCancel(ctx))
	return r.report, err
}

func (r *runner) run(ctx context.Context) error {
	v := r.opts.Variant
	for _, warning := range v.Lint() {
		r.logger.Warn("variant rule warning", zap.String("warning", warning))
	}

	r.step(1, "collecting records", zap.String("source", string(v.Source.Kind)))
	if err := r.collect(ctx); err != nil {
		r.report.Status = StatusFailed
		r.logger.Error("collection failed", zap.Error(err))
		return err
	}

	r.step(2, "selecting records", zap.Int("collected", r.report.Collected))
	if err := r.selectRecords(); err != nil {
		r.report.Status = StatusNoRecords
		r.logger.Info("no records to brief; skipping synthesis and delivery",
			zap.Int("collected", r.report.Collected))
		return err
	}

	r.step(3, "synthesizing brief", zap.Int("items", r.report.Count()))
	in := synthesis.Input{Now: r.now, Records: r.report.Records, Metrics: r.report.Metrics}
	r.report.Synthesis = synthesis.NewInvoker(r.opts.LLM, r.opts.Logger).Synthesize(ctx, v, in)
	r.saveArtifact(ctx, db.ArtifactPrompt, r.report.Synthesis.Prompt)
	r.saveArtifact(ctx, db.ArtifactSynthesis, r.report.Synthesis.Text)

	r.step(4, "rendering brief")
	if err := r.render(ctx); err != nil {
		r.report.Status = StatusFailed
		r.logger.Error("rendering failed", zap.Error(err))
		return err
	}

	r.step(5, "delivering brief", zap.Strings("to", r.report.Message.To))
	if err := r.deliver(ctx); err != nil {
		r.report.Status = StatusDeliveryFailed
		r.logger.Error("delivery failed", zap.Error(err))
		return err
	}

	if r.report.Synthesis.Degraded() {
		r.report.Status = StatusDegraded
	} else {
		r.report.Status = StatusDelivered
	}
	r.archive(ctx)

	r.logger.Info("brief delivered",
		zap.String("status", string(r.report.Status)),
		zap.String("to", strings.Join(r.report.Message.To, ", ")),
		zap.Int("items", r.report.Count()),
		zap.Time("completed", time.Now()),
	)
	return nil
}

func (r *runner) step(n int, msg string, fields ...zap.Field) {
	r.logger.Info(fmt.Sprintf("step %d/%d: %s", n, totalSteps, msg), fields...)
}

func (r *runner) collect(ctx context.Context) error {
	v := r.opts.Variant
	switch v.Source.Kind {
	case variants.SourceFeeds:
		if r.opts.Feeds == nil {
			return &StageError{Stage: "collect", Message: "no feed source configured"}
		}
		r.report.Records = sources.CollectFeeds(ctx, r.opts.Feeds, v.Source.Feeds, sources.CollectOptions{
			MaxEntries: v.Source.MaxEntries,
			Logger:     logging.Component(r.opts.Logger, "sources"),
		})
		r.report.Collected = len(r.report.Records)
	case variants.SourceSheet:
		if r.opts.Table == nil {
			return &StageError{Stage: "collect", Message: "no table source configured"}
		}
		if r.opts.SheetID == "" {
			return &StageError{Stage: "collect", Message: "sheet id is required"}
		}
		rows, err := r.opts.Table.Read(ctx, r.opts.SheetID, v.Source.Range)
		if err != nil {
			return &StageError{Stage: "collect", Message: "failed to read metrics sheet", Cause: err}
		}
		r.report.Metrics = sources.ParseMetricsRows(rows, logging.Component(r.opts.Logger, "sources"))
		if len(rows) > 0 {
			r.report.Collected = len(rows) - 1 // header
		}
	}
	return nil
}

func (r *runner) selectRecords() error {
	v := r.opts.Variant
	switch v.Source.Kind {
	case variants.SourceFeeds:
		sel := SelectRecords(r.report.Records, v.Rule, r.now, r.opts.WindowDays)
		r.report.Selection = &sel
		r.report.Records = sel.Records
		r.logger.Info("records selected",
			zap.Int("collected", sel.Collected),
			zap.Int("relevant", sel.Relevant),
			zap.Int("recent", sel.Recent),
			zap.Int("unique", len(sel.Records)),
		)
		if len(sel.Records) == 0 {
			return ErrNoRecords
		}
	case variants.SourceSheet:
		if len(r.report.Metrics) == 0 {
			return ErrNoRecords
		}
	}
	return nil
}

func (r *runner) render(ctx context.Context) error {
	v := r.opts.Variant
	count := r.report.Count()

	doc := rendering.BuildDocument(r.report.Synthesis.Text, v.NarrativeRules(), r.report.Records)
	presentation := v.Presentation(r.now, count, r.opts.SheetID)

	html, err := rendering.RenderHTML(doc, presentation)
	if err != nil {
		return &StageError{Stage: "render", Message: "failed to render HTML", Cause: err}
	}

	r.report.Document = doc
	r.report.Message = dispatch.Message{
		Subject: v.SubjectLine(r.now, count),
		From:    r.opts.From,
		To:      r.opts.To,
		HTML:    html,
		Text:    rendering.RenderText(doc, presentation),
	}
	r.saveArtifact(ctx, db.ArtifactHTML, html)
	r.saveArtifact(ctx, db.ArtifactText, r.report.Message.Text)
	return nil
}

func (r *runner) deliver(ctx context.Context) error {
	if r.opts.Deliverer == nil {
		return &dispatch.DeliveryError{Channel: "none", Message: "no deliverer configured"}
	}
	return r.opts.Deliverer.Send(ctx, r.report.Message)
}

func (r *runner) archive(ctx context.Context) {
	if r.opts.Archive == nil {
		return
	}
	runID := r.report.RunID.String()
	if r.report.RunID == uuid.Nil {
		runID = uuid.NewString()
	}
	key := archive.Key(r.report.Variant, r.now, runID)
	uri, err := r.opts.Archive.Put(ctx, key, []byte(r.report.Message.HTML), archive.ContentTypeHTML)
	if err != nil {
		r.logger.Warn("failed to archive brief; continuing", zap.Error(err))
		return
	}
	r.report.ArchiveURI = uri
	r.logger.Info("brief archived", zap.String("uri", uri))
}

func (r *runner) startLedger(ctx context.Context) {
	if r.opts.Ledger == nil {
		return
	}
	id, err := r.opts.Ledger.CreateBriefRun(ctx, r.report.Variant)
	if err != nil {
		r.logger.Warn("failed to record run start; continuing without ledger", zap.Error(err))
		r.opts.Ledger = nil
		return
	}
	r.report.RunID = id
	r.logger = r.logger.With(zap.String("run_id", id.String()))
}

func (r *runner) finishLedger(ctx context.Context) {
	if r.opts.Ledger == nil || r.report.RunID == uuid.Nil {
		return
	}
	outcome := db.RunOutcome{
		Status:     string(r.report.Status),
		Collected:  r.report.Collected,
		Selected:   r.report.Count(),
		Degraded:   r.report.Synthesis.Degraded(),
		ArchiveURI: r.report.ArchiveURI,
	}
	if r.report.Err != nil && !errors.Is(r.report.Err, ErrNoRecords) {
		outcome.Error = r.report.Err.Error()
	} else if r.report.Synthesis.Err != nil {
		outcome.Error = r.report.Synthesis.Err.Error()
	}
	if err := r.opts.Ledger.CompleteBriefRun(ctx, r.report.RunID, outcome); err != nil {
		r.logger.Warn("failed to record run outcome", zap.Error(err))
	}
}

func (r *runner) saveArtifact(ctx context.Context, kind, content string) {
	if r.opts.Ledger == nil || r.report.RunID == uuid.Nil || content == "" {
		return
	}
	if err := r.opts.Ledger.SaveBriefArtifact(ctx, r.report.RunID, kind, content); err != nil {
		r.logger.Warn("failed to save artifact", zap.String("kind", kind), zap.Error(err))
	}
}
