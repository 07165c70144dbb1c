package errors

import "sort"

// dedupeKey identifies a diagnostic for duplicate suppression. Panic-mode
// recovery and the layered structural/grammatical/semantic checks can detect
// the same problem more than once; only the first report survives.
type dedupeKey struct {
	line    int
	column  int
	message string
}

// Reporter collects and deduplicates diagnostics for one analysis pass
type Reporter struct {
	diags  []Diagnostic
	seen   map[dedupeKey]struct{}
	nextID int
}

// NewReporter creates an empty Reporter
func NewReporter() *Reporter {
	return &Reporter{
		diags: make([]Diagnostic, 0, 8),
		seen:  make(map[dedupeKey]struct{}),
	}
}

// PushError records an error diagnostic. A diagnostic with identical
// (line, column, message) to an existing one is dropped.
func (r *Reporter) PushError(cat Category, message string, line, column int, context map[string]string) {
	r.push(cat, Error, message, line, column, context)
}

// PushWarning records a warning diagnostic with the same dedupe rule
func (r *Reporter) PushWarning(cat Category, message string, line, column int, context map[string]string) {
	r.push(cat, Warning, message, line, column, context)
}

func (r *Reporter) push(cat Category, sev Severity, message string, line, column int, context map[string]string) {
	key := dedupeKey{line: line, column: column, message: message}
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	r.diags = append(r.diags, Diagnostic{
		ID:       r.nextID,
		Category: cat,
		Severity: sev,
		Message:  message,
		Line:     line,
		Column:   column,
		Context:  context,
	})
	r.nextID++
}

// Sort orders diagnostics by (line, column) ascending, errors before
// warnings on ties. The order then depends only on the input text.
func (r *Reporter) Sort() {
	sort.SliceStable(r.diags, func(i, j int) bool {
		a, b := r.diags[i], r.diags[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Severity < b.Severity
	})
}

// Errors returns the recorded error diagnostics in current order
func (r *Reporter) Errors() []Diagnostic {
	out := make([]Diagnostic, 0, len(r.diags))
	for _, d := range r.diags {
		if d.IsError() {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns the recorded warning diagnostics in current order
func (r *Reporter) Warnings() []Diagnostic {
	out := make([]Diagnostic, 0)
	for _, d := range r.diags {
		if d.IsWarning() {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors returns true if any error diagnostic was recorded
func (r *Reporter) HasErrors() bool {
	for _, d := range r.diags {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Count returns the total number of recorded diagnostics
func (r *Reporter) Count() int {
	return len(r.diags)
}
