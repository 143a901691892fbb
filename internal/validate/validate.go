// SPDX-License-Identifier: Apache-2.0

// Package validate reports problems in template batches without producing
// any output. It uses the same directive grammar as the combination engine
// and agrees with it on which references resolve.
//
// References are located by walking each template and the sources it
// includes, breadth first, so every source is scanned at the shallowest depth
// the engine would reach it. The engine is then run on the template to pick up
// what a per-file walk cannot see: directives formed only once inserted
// content joins the text around it, circular includes and degraded output.
package validate

import (
	"fmt"

	"github.com/mdextproj/mdext/internal/combine"
	"github.com/mdextproj/mdext/internal/diagnostic"
	"github.com/mdextproj/mdext/internal/directive"
	"github.com/mdextproj/mdext/internal/document"
)

// Validator checks templates against a source pool.
type Validator struct {
	grammar        *directive.Grammar
	maxDepth       int
	maxOutputBytes int
	outputExt      string
	engine         *combine.Engine
}

// Option configures a Validator.
type Option func(*Validator)

// WithMaxDepth limits how deep included sources are followed. It is also the
// pass limit of the engine run, since a source nested deeper is never expanded.
func WithMaxDepth(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxDepth = n
		}
	}
}

// WithMaxOutputBytes sets the output size guard of the engine run.
func WithMaxOutputBytes(n int) Option {
	return func(v *Validator) {
		v.maxOutputBytes = n
	}
}

// WithOutputExt sets the extension used to detect output name collisions.
func WithOutputExt(ext string) Option {
	return func(v *Validator) {
		if ext != "" {
			v.outputExt = ext
		}
	}
}

// WithGrammar replaces the directive grammar.
func WithGrammar(g *directive.Grammar) Option {
	return func(v *Validator) {
		if g != nil {
			v.grammar = g
		}
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		grammar:        directive.Default,
		maxDepth:       directive.DefaultPassLimit,
		maxOutputBytes: combine.DefaultMaxOutputBytes,
		outputExt:      document.OutputExt,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.engine = combine.New(
		combine.WithGrammar(v.grammar),
		combine.WithPassLimit(v.maxDepth),
		combine.WithMaxOutputBytes(v.maxOutputBytes),
	)
	return v
}

// Validate returns every issue found in templates, in template order. Within a
// template, issues located in files come first, in walk order, followed by the
// ones only the engine run reveals. Empty input yields an empty, valid result.
func (v *Validator) Validate(templates, sources []document.Document) diagnostic.Result {
	pool := document.NewPool(sources)
	var issues diagnostic.Builder

	outputs := make(map[string]string, len(templates))
	for _, tpl := range templates {
		v.checkCollision(&issues, outputs, tpl)

		w := walker{
			v:        v,
			pool:     pool,
			issues:   &issues,
			template: tpl.Path(),
			visited:  make(map[string]struct{}),
			reported: make(map[string]struct{}),
		}
		w.run(tpl)
		v.reconcile(&issues, tpl, pool, w.reported)
	}

	return issues.Result()
}

// reconcile runs the engine on tpl and adds what the walk could not locate.
func (v *Validator) reconcile(issues *diagnostic.Builder, tpl document.Document, pool *document.Pool, reported map[string]struct{}) {
	switch o := v.engine.Resolve(tpl, pool).(type) {
	case combine.Resolved:
		for _, target := range o.Missing {
			if _, ok := reported[target]; ok {
				continue
			}
			issues.Add(diagnostic.Issue{
				Kind:            diagnostic.ReferenceError,
				Message:         fmt.Sprintf("source %q not found; the directive is formed by inserted content joining the surrounding text", target),
				DirectiveTarget: target,
				SourceFile:      tpl.Path(),
				Template:        tpl.Path(),
			})
		}
		if o.Halt != combine.HaltDone {
			issues.Add(combine.HaltIssue(tpl, o))
		}
	case combine.Degraded:
		issues.Add(combine.DegradedIssue(tpl, o))
	}
}

func (v *Validator) checkCollision(issues *diagnostic.Builder, outputs map[string]string, tpl document.Document) {
	out := document.ReplaceExt(tpl.Path(), v.outputExt)
	key := document.Key(out)
	first, ok := outputs[key]
	if !ok {
		outputs[key] = tpl.Path()
		return
	}
	if first == tpl.Path() {
		return
	}
	issues.Add(diagnostic.Issue{
		Kind:       diagnostic.CollisionWarning,
		Message:    fmt.Sprintf("templates %q and %q both produce %q", first, tpl.Path(), out),
		SourceFile: tpl.Path(),
		Template:   tpl.Path(),
	})
}

// walker follows one template and the sources it includes.
type walker struct {
	v        *Validator
	pool     *document.Pool
	issues   *diagnostic.Builder
	template string
	// visited holds the sources already queued. A breadth first walk queues
	// each one at its shallowest depth, which also ends cycles.
	visited map[string]struct{}
	// reported holds the missing targets located so far.
	reported map[string]struct{}
}

// run scans the template at depth 0 and each included source at the depth of
// its shortest inclusion path. Sources at maxDepth or deeper are not scanned:
// the engine stops before it would expand their directives.
func (w *walker) run(tpl document.Document) {
	queue := w.scan(tpl.Path(), tpl.Content(), nil)
	for depth := 1; len(queue) > 0 && depth < w.v.maxDepth; depth++ {
		var next []document.Document
		for _, src := range queue {
			next = w.scan(src.Path(), src.Content(), next)
		}
		queue = next
	}
}

// scan reports the issues in one file and appends the sources it includes
// that have not been queued yet.
func (w *walker) scan(file, content string, queue []document.Document) []document.Document {
	for _, m := range w.v.grammar.FindLegacy(content) {
		w.issues.Add(w.issue(diagnostic.LegacySyntaxWarning, file, content, m,
			fmt.Sprintf("legacy directive syntax is not expanded; use <insert %s>", m.Target)))
	}

	for _, m := range w.v.grammar.Find(content) {
		if m.Malformed() {
			w.issues.Add(w.issue(diagnostic.StructuralError, file, content, m,
				fmt.Sprintf("malformed insert directive %q: missing file name", m.Text)))
			continue
		}
		src, ok := w.pool.Lookup(m.Target)
		if !ok {
			w.reported[m.Target] = struct{}{}
			w.issues.Add(w.issue(diagnostic.ReferenceError, file, content, m,
				fmt.Sprintf("source %q not found", m.Target)))
			continue
		}
		key := document.Key(src.Name())
		if _, ok := w.visited[key]; ok {
			continue
		}
		w.visited[key] = struct{}{}
		queue = append(queue, src)
	}
	return queue
}

func (w *walker) issue(kind diagnostic.Kind, file, content string, m directive.Match, msg string) diagnostic.Issue {
	return diagnostic.Issue{
		Kind:            kind,
		Message:         msg,
		DirectiveTarget: m.Target,
		SourceFile:      file,
		LineNumber:      directive.LineOf(content, m.Start),
		SourceContext:   directive.LineText(content, m.Start),
		Template:        w.template,
	}
}
