// SPDX-License-Identifier: Apache-2.0

// Package combine expands insert directives in template documents against a
// pool of source documents.
package combine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mdextproj/mdext/internal/diagnostic"
	"github.com/mdextproj/mdext/internal/directive"
	"github.com/mdextproj/mdext/internal/document"
)

// DefaultMaxOutputBytes bounds the size a single resolved template may grow to.
const DefaultMaxOutputBytes = 16 << 20

var (
	// ErrOutputTooLarge is the reason of a Degraded outcome whose expansion
	// outgrew the configured limit.
	ErrOutputTooLarge = errors.New("resolved output exceeds size limit")
	// ErrPanic is the reason of a Degraded outcome whose resolution panicked.
	ErrPanic = errors.New("template resolution panicked")
)

// Engine resolves templates. It keeps no state between calls and is safe for
// concurrent use on independent batches.
type Engine struct {
	grammar        *directive.Grammar
	passLimit      int
	maxOutputBytes int
	outputExt      string
	logger         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithPassLimit sets the number of resolution passes allowed per template.
func WithPassLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.passLimit = n
		}
	}
}

// WithMaxOutputBytes sets the output size guard. Zero or less disables it.
func WithMaxOutputBytes(n int) Option {
	return func(e *Engine) {
		e.maxOutputBytes = n
	}
}

// WithOutputExt sets the extension given to output documents.
func WithOutputExt(ext string) Option {
	return func(e *Engine) {
		if ext != "" {
			e.outputExt = ext
		}
	}
}

// WithGrammar replaces the directive grammar.
func WithGrammar(g *directive.Grammar) Option {
	return func(e *Engine) {
		if g != nil {
			e.grammar = g
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine with the default grammar, a pass limit of
// directive.DefaultPassLimit and the ".md" output extension.
func New(opts ...Option) *Engine {
	e := &Engine{
		grammar:        directive.Default,
		passLimit:      directive.DefaultPassLimit,
		maxOutputBytes: DefaultMaxOutputBytes,
		outputExt:      document.OutputExt,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TemplateOutcome pairs a template with its outcome.
type TemplateOutcome struct {
	Template document.Document
	Outcome  Outcome
}

// Report is the output of a build together with its per-template outcomes
// and the engine-level diagnostics.
type Report struct {
	Documents []document.Document
	Outcomes  []TemplateOutcome
	Result    diagnostic.Result
}

// Build resolves every template and returns one output document per template,
// in input order.
func (e *Engine) Build(templates, sources []document.Document) []document.Document {
	return e.BuildWithReport(templates, sources).Documents
}

// BuildWithReport is Build with the per-template outcomes and the
// reference errors, resolution-cap and degradation warnings it recorded.
// A template that fails is emitted with its original content; the rest of the
// batch is unaffected.
func (e *Engine) BuildWithReport(templates, sources []document.Document) Report {
	pool := document.NewPool(sources)

	report := Report{
		Documents: make([]document.Document, 0, len(templates)),
		Outcomes:  make([]TemplateOutcome, 0, len(templates)),
	}
	var issues diagnostic.Builder

	for _, tpl := range templates {
		out := e.Resolve(tpl, pool)
		report.Documents = append(report.Documents, tpl.WithContent(out.Output()).WithExtension(e.outputExt))
		report.Outcomes = append(report.Outcomes, TemplateOutcome{Template: tpl, Outcome: out})
		e.record(&issues, tpl, out)
	}

	report.Result = issues.Result()
	return report
}

func (e *Engine) record(issues *diagnostic.Builder, tpl document.Document, out Outcome) {
	switch o := out.(type) {
	case Resolved:
		for _, target := range o.Missing {
			issues.Add(diagnostic.Issue{
				Kind:            diagnostic.ReferenceError,
				Message:         fmt.Sprintf("source %q not found", target),
				DirectiveTarget: target,
				SourceFile:      tpl.Path(),
				Template:        tpl.Path(),
			})
		}
		if o.Halt == HaltDone {
			return
		}
		e.logger.Warn("template did not finish resolving", "template", tpl.Name(), "passes", o.Passes, "halt", o.Halt.String())
		issues.Add(HaltIssue(tpl, o))
	case Degraded:
		e.logger.Error("template emitted unresolved", "template", tpl.Name(), "error", o.Reason)
		issues.Add(DegradedIssue(tpl, o))
	}
}

// HaltIssue is the resolution-cap warning for a template that stopped with
// directives left. A capped template ran out of passes; a stalled one hit a
// source that reproduces its own directive.
func HaltIssue(tpl document.Document, r Resolved) diagnostic.Issue {
	msg := fmt.Sprintf("template %q still has insert directives after %d passes; check for circular references",
		tpl.Name(), r.Passes)
	if r.Halt == HaltStalled {
		msg = fmt.Sprintf("template %q stalled: an included source reproduces its own insert directive; check for circular references",
			tpl.Name())
	}
	return diagnostic.Issue{
		Kind:       diagnostic.ResolutionCapWarning,
		Message:    msg,
		SourceFile: tpl.Path(),
		Template:   tpl.Path(),
	}
}

// DegradedIssue is the warning for a template emitted with its original content.
func DegradedIssue(tpl document.Document, d Degraded) diagnostic.Issue {
	return diagnostic.Issue{
		Kind:       diagnostic.DegradedWarning,
		Message:    fmt.Sprintf("template %q emitted unresolved: %v", tpl.Name(), d.Reason),
		SourceFile: tpl.Path(),
		Template:   tpl.Path(),
	}
}

// Resolve runs the resolution loop for one template against pool. A panic in
// the loop becomes a Degraded outcome.
func (e *Engine) Resolve(tpl document.Document, pool *document.Pool) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Degraded{Original: tpl.Content(), Reason: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()
	return e.resolve(tpl.Content(), pool)
}

type state uint8

const (
	stateScanning state = iota
	stateReplacing
	stateDone
	stateStalled
	stateCapped
)

// resolve runs the resolution loop:
//
//	Scanning -> Replacing -> Scanning -> ... -> Done
//
// Replacing either changes the content and goes back to Scanning, or leaves it
// unchanged and stops as Stalled. Scanning stops as Capped once passLimit
// passes have run. Every Replacing step increments passes, so the loop runs at
// most passLimit passes.
func (e *Engine) resolve(original string, pool *document.Pool) Outcome {
	var (
		content = original
		passes  int
		matches []directive.Match
		missing missingSet
		st      = stateScanning
	)

	for {
		switch st {
		case stateScanning:
			matches = e.grammar.Find(content)
			switch {
			case len(matches) == 0:
				st = stateDone
			case passes >= e.passLimit:
				st = stateCapped
			default:
				st = stateReplacing
			}

		case stateReplacing:
			passes++
			next := e.replacePass(content, matches, pool, &missing)
			if e.maxOutputBytes > 0 && len(next) > e.maxOutputBytes {
				return Degraded{
					Original: original,
					Reason:   fmt.Errorf("%w: %d bytes after pass %d (limit %d)", ErrOutputTooLarge, len(next), passes, e.maxOutputBytes),
				}
			}
			if next == content {
				st = stateStalled
				continue
			}
			content = next
			st = stateScanning

		case stateDone:
			return Resolved{Content: content, Passes: passes, Halt: HaltDone, Missing: missing.targets}
		case stateStalled:
			return Resolved{Content: content, Passes: passes, Halt: HaltStalled, Missing: missing.targets}
		case stateCapped:
			return Resolved{Content: content, Passes: passes, Halt: HaltCapped, Missing: missing.targets}
		}
	}
}

// replacePass substitutes each distinct directive text found by the scan,
// first occurrence first. Every literal occurrence of a text is replaced at
// once and the text is not revisited within the pass.
func (e *Engine) replacePass(content string, matches []directive.Match, pool *document.Pool, missing *missingSet) string {
	replaced := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := replaced[m.Text]; ok {
			continue
		}
		replaced[m.Text] = struct{}{}
		content = strings.ReplaceAll(content, m.Text, substitute(m, pool, missing))
	}
	return content
}

// substitute returns the replacement text for m. A source loses its final line
// ending so that the directive's own line ending closes the inlined block.
func substitute(m directive.Match, pool *document.Pool, missing *missingSet) string {
	if m.Malformed() {
		return directive.MalformedMarker
	}
	if src, ok := pool.Lookup(m.Target); ok {
		return trimFinalNewline(src.Content())
	}
	missing.add(m.Target)
	return directive.MissingMarker(m.Target)
}

type missingSet struct {
	seen    map[string]struct{}
	targets []string
}

func (s *missingSet) add(target string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[target]; ok {
		return
	}
	s.seen[target] = struct{}{}
	s.targets = append(s.targets, target)
}

func trimFinalNewline(s string) string {
	if !strings.HasSuffix(s, "\n") {
		return s
	}
	return strings.TrimSuffix(s[:len(s)-1], "\r")
}
