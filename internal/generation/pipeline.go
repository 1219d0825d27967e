package generation

import (
	"context"
	"log/slog"
	"time"

	"quill/internal/logging"
)

// Context carries intermediate state between pipeline stages for one item.
type Context struct {
	ItemID      string
	RequestType RequestType
	Input       Input

	Text       string
	Draft      Draft
	DraftModel string
	Polished   bool
}

// Stage is one step of the generation pipeline.
type Stage interface {
	Name() string
	Run(ctx context.Context, pc *Context) error
}

// Pipeline runs parse, draft, and polish in order for a claimed queue item.
type Pipeline struct {
	parser   Stage
	drafter  Stage
	polisher Stage
	logger   *slog.Logger
}

// NewPipeline wires the three stages with a shared logger.
func NewPipeline(parser, drafter, polisher Stage, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		parser:   parser,
		drafter:  drafter,
		polisher: polisher,
		logger:   logging.WithComponent(logger, "pipeline"),
	}
}

// Run executes the pipeline for one item. Parse and draft failures abort the
// run; a polish failure downgrades to the unpolished draft with a warning.
func (p *Pipeline) Run(ctx context.Context, itemID string, requestType RequestType, input Input) (Output, error) {
	pc := &Context{ItemID: itemID, RequestType: requestType, Input: input}

	for _, stage := range []Stage{p.parser, p.drafter} {
		if err := p.runStage(ctx, stage, pc); err != nil {
			return Output{}, err
		}
	}

	if err := p.runStage(ctx, p.polisher, pc); err != nil {
		p.logger.Warn("polish failed, keeping unpolished draft",
			logging.String(logging.FieldItemID, pc.ItemID),
			logging.String(logging.FieldStage, p.polisher.Name()),
			logging.Error(err))
	}

	return Output{
		Title:    pc.Draft.Title,
		Content:  pc.Draft.Content,
		Excerpt:  pc.Draft.Excerpt,
		Polished: pc.Polished,
	}, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, pc *Context) error {
	started := time.Now()
	p.logger.Debug("stage started",
		logging.String(logging.FieldItemID, pc.ItemID),
		logging.String(logging.FieldStage, stage.Name()))

	err := stage.Run(ctx, pc)

	elapsed := time.Since(started)
	if err != nil {
		p.logger.Debug("stage failed",
			logging.String(logging.FieldItemID, pc.ItemID),
			logging.String(logging.FieldStage, stage.Name()),
			logging.Duration("elapsed", elapsed),
			logging.Error(err))
		return err
	}

	p.logger.Debug("stage finished",
		logging.String(logging.FieldItemID, pc.ItemID),
		logging.String(logging.FieldStage, stage.Name()),
		logging.Duration("elapsed", elapsed))
	return nil
}
