// SPDX-License-Identifier: Apache-2.0

// Package pipeline wires the collector to the combination engine and the
// validator for a whole input directory.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mdextproj/mdext/internal/collect"
	"github.com/mdextproj/mdext/internal/combine"
	"github.com/mdextproj/mdext/internal/config"
	"github.com/mdextproj/mdext/internal/diagnostic"
	"github.com/mdextproj/mdext/internal/document"
	"github.com/mdextproj/mdext/internal/validate"
)

// Pipeline runs collection, combination and validation over a directory.
type Pipeline struct {
	collector  *collect.Collector
	engine     *combine.Engine
	validator  *validate.Validator
	classifier *document.Classifier
	logger     *slog.Logger
}

// New creates a Pipeline from cfg. A nil cfg means the defaults; a nil
// logger discards output.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		collector: collect.New(
			collect.WithWorkers(cfg.Workers),
			collect.WithLogger(logger.With("component", "collect")),
		),
		engine: combine.New(
			combine.WithPassLimit(cfg.MaxPasses),
			combine.WithMaxOutputBytes(cfg.MaxOutputBytes),
			combine.WithOutputExt(cfg.OutputExt),
			combine.WithLogger(logger.With("component", "combine")),
		),
		validator: validate.New(
			validate.WithMaxDepth(cfg.MaxPasses),
			validate.WithMaxOutputBytes(cfg.MaxOutputBytes),
			validate.WithOutputExt(cfg.OutputExt),
		),
		classifier: cfg.Classifier(),
		logger:     logger,
	}
}

// Batch is a collected directory sorted by role.
type Batch struct {
	Templates []document.Document
	Sources   []document.Document
	Plain     []document.Document
	// Ignored counts collected documents no rule recognised.
	Ignored int
}

// Pool returns the documents that may be inserted: sources, then plain
// markdown. On a name clash the later one wins.
func (b Batch) Pool() []document.Document {
	pool := make([]document.Document, 0, len(b.Sources)+len(b.Plain))
	pool = append(pool, b.Sources...)
	return append(pool, b.Plain...)
}

// Load collects root and sorts the documents by role.
func (p *Pipeline) Load(ctx context.Context, root string) (Batch, error) {
	docs, err := p.collector.Collect(ctx, root, p.classifier.Extensions())
	if err != nil {
		return Batch{}, err
	}

	var batch Batch
	for _, doc := range docs {
		switch p.classifier.Classify(doc.Name()) {
		case document.RoleTemplate:
			batch.Templates = append(batch.Templates, doc)
		case document.RoleSource:
			batch.Sources = append(batch.Sources, doc)
		case document.RolePlain:
			batch.Plain = append(batch.Plain, doc)
		default:
			batch.Ignored++
		}
	}

	p.logger.Info("collected documents",
		"root", root,
		"templates", len(batch.Templates),
		"sources", len(batch.Sources),
		"plain", len(batch.Plain))
	return batch, nil
}

// CombineResult is the output of a Combine run.
type CombineResult struct {
	// Documents holds the resolved templates followed by the plain documents,
	// which are passed through unchanged unless a template output has the
	// same path.
	Documents []document.Document
	Templates int
	Outcomes  []combine.TemplateOutcome
	// Result holds the engine's own diagnostics.
	Result diagnostic.Result
	// Validation is the validator's view of the same batch.
	Validation ValidateResult
}

// Combine resolves every template under root.
func (p *Pipeline) Combine(ctx context.Context, root string) (CombineResult, error) {
	batch, err := p.Load(ctx, root)
	if err != nil {
		return CombineResult{}, fmt.Errorf("collecting %s: %w", root, err)
	}

	report := p.engine.BuildWithReport(batch.Templates, batch.Pool())

	docs := make([]document.Document, 0, len(report.Documents)+len(batch.Plain))
	docs = append(docs, report.Documents...)
	produced := make(map[string]struct{}, len(report.Documents))
	for _, doc := range report.Documents {
		produced[document.Key(doc.Path())] = struct{}{}
	}
	for _, doc := range batch.Plain {
		if _, ok := produced[document.Key(doc.Path())]; ok {
			p.logger.Warn("plain document replaced by template output", "path", doc.Path())
			continue
		}
		docs = append(docs, doc)
	}

	return CombineResult{
		Documents:  docs,
		Templates:  len(batch.Templates),
		Outcomes:   report.Outcomes,
		Result:     report.Result,
		Validation: p.validateBatch(batch),
	}, nil
}

// ValidateResult is the output of a Validate run.
type ValidateResult struct {
	Result diagnostic.Result
	// Total is the number of templates checked. Valid templates produced no
	// errors, in themselves or in the sources they include.
	Total   int
	Valid   int
	Invalid int
}

// Validate checks every template under root.
func (p *Pipeline) Validate(ctx context.Context, root string) (ValidateResult, error) {
	batch, err := p.Load(ctx, root)
	if err != nil {
		return ValidateResult{}, fmt.Errorf("collecting %s: %w", root, err)
	}

	return p.validateBatch(batch), nil
}

func (p *Pipeline) validateBatch(batch Batch) ValidateResult {
	res := p.validator.Validate(batch.Templates, batch.Pool())

	invalid := make(map[string]struct{})
	for _, issue := range res.Errors {
		invalid[issue.Template] = struct{}{}
	}

	out := ValidateResult{
		Result:  res,
		Total:   len(batch.Templates),
		Invalid: len(invalid),
	}
	out.Valid = out.Total - out.Invalid
	return out
}
