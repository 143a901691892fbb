// SPDX-License-Identifier: Apache-2.0

package diagnostic

// Result is the outcome of one validation run. It is built once and not
// modified after it is returned.
type Result struct {
	Errors   []Issue `json:"errors" yaml:"errors"`
	Warnings []Issue `json:"warnings" yaml:"warnings"`
}

// IsValid reports whether the run produced no errors. Warnings never affect
// validity.
func (r *Result) IsValid() bool {
	return r == nil || len(r.Errors) == 0
}

// All returns errors followed by warnings.
func (r *Result) All() []Issue {
	if r == nil {
		return nil
	}
	all := make([]Issue, 0, len(r.Errors)+len(r.Warnings))
	all = append(all, r.Errors...)
	return append(all, r.Warnings...)
}

// Builder accumulates issues in emission order and splits them by severity.
type Builder struct {
	errors   []Issue
	warnings []Issue
}

// Add records an issue.
func (b *Builder) Add(issue Issue) {
	if issue.Severity() == SevError {
		b.errors = append(b.errors, issue)
		return
	}
	b.warnings = append(b.warnings, issue)
}

// Result returns the accumulated issues. Both slices are non-nil so that an
// empty result serialises as empty lists.
func (b *Builder) Result() Result {
	res := Result{
		Errors:   make([]Issue, len(b.errors)),
		Warnings: make([]Issue, len(b.warnings)),
	}
	copy(res.Errors, b.errors)
	copy(res.Warnings, b.warnings)
	return res
}
