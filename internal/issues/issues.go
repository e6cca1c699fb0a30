// Package issues accumulates validation problems found while building the
// structure graph. Problems are collected, never raised one at a time, so a
// full pass over the document reports everything at once.
package issues

import (
	"fmt"
	"sort"
	"strings"
)

// Context localizes an issue within the document. A nil level means the issue
// does not belong to that level; a non-nil empty string means the node exists
// but has no name yet.
type Context struct {
	Dataset      *string
	Distribution *string
	RecordSet    *string
	Field        *string
}

// String renders the breadcrumb prefix, e.g.
// "[dataset(mydataset) > distribution(a-csv-table)]".
func (c Context) String() string {
	var parts []string
	for _, level := range []struct {
		label string
		name  *string
	}{
		{"dataset", c.Dataset},
		{"distribution", c.Distribution},
		{"record_set", c.RecordSet},
		{"field", c.Field},
	} {
		if level.name == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", level.label, *level.name))
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, " > ") + "]"
}

// Issues is an append-only collector of errors and warnings. Entries are kept
// as sets so repeated checks of the same node do not duplicate output.
type Issues struct {
	errors   map[string]struct{}
	warnings map[string]struct{}
}

// New returns an empty collector.
func New() *Issues {
	return &Issues{
		errors:   make(map[string]struct{}),
		warnings: make(map[string]struct{}),
	}
}

func (i *Issues) wrap(ctx Context, msg string) string {
	if prefix := ctx.String(); prefix != "" {
		return prefix + " " + msg
	}
	return msg
}

// AddError records a fatal validation problem.
func (i *Issues) AddError(ctx Context, format string, args ...any) {
	i.errors[i.wrap(ctx, fmt.Sprintf(format, args...))] = struct{}{}
}

// AddWarning records a non-fatal problem, e.g. a missing recommended property.
func (i *Issues) AddWarning(ctx Context, format string, args ...any) {
	i.warnings[i.wrap(ctx, fmt.Sprintf(format, args...))] = struct{}{}
}

// HasErrors reports whether at least one error was collected.
func (i *Issues) HasErrors() bool {
	return len(i.errors) > 0
}

// Errors returns all collected errors, sorted for stable output.
func (i *Issues) Errors() []string {
	out := make([]string, 0, len(i.errors))
	for e := range i.errors {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Warnings returns all collected warnings, sorted for stable output.
func (i *Issues) Warnings() []string {
	out := make([]string, 0, len(i.warnings))
	for w := range i.warnings {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// ToValidationError converts the collected errors into a single aggregate
// error, or nil if none were collected.
func (i *Issues) ToValidationError() error {
	if !i.HasErrors() {
		return nil
	}
	return &ValidationError{Issues: i.Errors()}
}

// ValidationError aggregates every error found during one validation pass.
type ValidationError struct {
	Issues []string
}

// Error joins all issues, one per line, each carrying its breadcrumb.
func (e *ValidationError) Error() string {
	return strings.Join(e.Issues, "\n")
}
