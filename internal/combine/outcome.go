// SPDX-License-Identifier: Apache-2.0

package combine

// Halt records why a resolved template stopped expanding.
type Halt uint8

const (
	// HaltDone means no directives were left.
	HaltDone Halt = iota
	// HaltStalled means a pass left the content unchanged while directives
	// remained, which only a self-reproducing cycle can cause.
	HaltStalled
	// HaltCapped means the pass limit was reached with directives remaining.
	HaltCapped
)

func (h Halt) String() string {
	switch h {
	case HaltDone:
		return "done"
	case HaltStalled:
		return "stalled"
	case HaltCapped:
		return "capped"
	}
	return "unknown"
}

// Outcome is the result of resolving one template: either Resolved or
// Degraded.
type Outcome interface {
	// Output is the content written for the template.
	Output() string
	outcome()
}

// Resolved is a template that went through the resolution loop.
type Resolved struct {
	Content string
	Passes  int
	Halt    Halt
	// Missing lists the directive targets replaced with a missing-reference
	// marker, in the order they were first replaced.
	Missing []string
}

func (r Resolved) Output() string { return r.Content }
func (Resolved) outcome()         {}

// Degraded is a template whose resolution failed. Its original, unresolved
// content is emitted instead.
type Degraded struct {
	Original string
	Reason   error
}

func (d Degraded) Output() string { return d.Original }
func (Degraded) outcome()         {}
