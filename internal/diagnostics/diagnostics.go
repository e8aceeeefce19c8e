// Package diagnostics provides error and warning reporting for the Orizon
// derive tool: ordered accumulation, severity and category tracking, and
// rustc-style rendering with source excerpts.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orizon-lang/orizon-derive/internal/position"
)

// DiagnosticLevel represents the severity level of a diagnostic
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
	DiagnosticInfo
	DiagnosticHint
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticInfo:
		return "info"
	case DiagnosticHint:
		return "hint"
	default:
		return "unknown"
	}
}

// DiagnosticCategory represents the category of diagnostic
type DiagnosticCategory int

const (
	// Surface problems in the input source
	CategoryParsing DiagnosticCategory = iota

	// Derive-specific rejections
	CategoryUnsupportedTarget
	CategoryTypeMacro
	CategoryUnknownTrait
	CategoryStability

	// Attribute handling
	CategoryLint

	// Tool-level problems
	CategoryConfig
	CategoryInternal
)

func (dc DiagnosticCategory) String() string {
	switch dc {
	case CategoryParsing:
		return "parsing"
	case CategoryUnsupportedTarget:
		return "unsupported-target"
	case CategoryTypeMacro:
		return "type-macro"
	case CategoryUnknownTrait:
		return "unknown-trait"
	case CategoryStability:
		return "stability"
	case CategoryLint:
		return "lint"
	case CategoryConfig:
		return "config"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// RelatedInformation provides additional context from another location
type RelatedInformation struct {
	Message  string
	Location position.Span
}

// Diagnostic represents one reported problem
type Diagnostic struct {
	Level    DiagnosticLevel
	Category DiagnosticCategory
	Message  string
	Span     position.Span
	Code     string // Error code like "E0665"

	// Additional information
	Notes       []string             // help/note lines rendered under the excerpt
	RelatedInfo []RelatedInformation // related information from other locations
}

// DiagnosticManager accumulates diagnostics for one tool run
type DiagnosticManager struct {
	diagnostics  []Diagnostic
	errorCount   int
	warningCount int
	maxErrors    int
	sourceMap    *position.SourceMap
	suppressions map[DiagnosticCategory]bool
}

// NewDiagnosticManager creates a new diagnostic manager
func NewDiagnosticManager() *DiagnosticManager {
	return &DiagnosticManager{
		diagnostics:  make([]Diagnostic, 0),
		maxErrors:    100,
		suppressions: make(map[DiagnosticCategory]bool),
	}
}

// SetSourceMap attaches the source map used for excerpt rendering
func (dm *DiagnosticManager) SetSourceMap(sm *position.SourceMap) {
	dm.sourceMap = sm
}

// SetErrorLimit sets the maximum number of errors kept
func (dm *DiagnosticManager) SetErrorLimit(limit int) {
	dm.maxErrors = limit
}

// SuppressCategory drops all further diagnostics of the given category
func (dm *DiagnosticManager) SuppressCategory(category DiagnosticCategory) {
	dm.suppressions[category] = true
}

// Report adds a new diagnostic to the manager
func (dm *DiagnosticManager) Report(diagnostic Diagnostic) {
	if dm.suppressions[diagnostic.Category] {
		return
	}
	if diagnostic.Level == DiagnosticError && dm.errorCount >= dm.maxErrors {
		return
	}

	switch diagnostic.Level {
	case DiagnosticError:
		dm.errorCount++
	case DiagnosticWarning:
		dm.warningCount++
	}

	dm.diagnostics = append(dm.diagnostics, diagnostic)
}

// Errorf reports an error-level diagnostic at a span
func (dm *DiagnosticManager) Errorf(category DiagnosticCategory, span position.Span, format string, args ...interface{}) {
	dm.Report(Diagnostic{
		Level:    DiagnosticError,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// Warningf reports a warning-level diagnostic at a span
func (dm *DiagnosticManager) Warningf(category DiagnosticCategory, span position.Span, format string, args ...interface{}) {
	dm.Report(Diagnostic{
		Level:    DiagnosticWarning,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// GetDiagnostics returns all diagnostics in report order
func (dm *DiagnosticManager) GetDiagnostics() []Diagnostic {
	return dm.diagnostics
}

// GetErrorCount returns the number of errors
func (dm *DiagnosticManager) GetErrorCount() int {
	return dm.errorCount
}

// GetWarningCount returns the number of warnings
func (dm *DiagnosticManager) GetWarningCount() int {
	return dm.warningCount
}

// HasErrors returns true if there are any errors
func (dm *DiagnosticManager) HasErrors() bool {
	return dm.errorCount > 0
}

// SortDiagnostics sorts diagnostics by location, then severity
func (dm *DiagnosticManager) SortDiagnostics() {
	sort.SliceStable(dm.diagnostics, func(i, j int) bool {
		a, b := dm.diagnostics[i], dm.diagnostics[j]

		if a.Span.Start.Filename != b.Span.Start.Filename {
			return a.Span.Start.Filename < b.Span.Start.Filename
		}
		if a.Span.Start.Line != b.Span.Start.Line {
			return a.Span.Start.Line < b.Span.Start.Line
		}
		if a.Span.Start.Column != b.Span.Start.Column {
			return a.Span.Start.Column < b.Span.Start.Column
		}
		return a.Level < b.Level
	})
}

// FormatDiagnostic formats a single diagnostic for display
func (dm *DiagnosticManager) FormatDiagnostic(d Diagnostic, colorize bool) string {
	var result strings.Builder

	if colorize {
		result.WriteString(levelColor(d.Level))
	}
	result.WriteString(d.Level.String())
	if d.Code != "" {
		result.WriteString("[" + d.Code + "]")
	}
	if colorize {
		result.WriteString(colorReset)
	}
	result.WriteString(": " + d.Message)

	if d.Span.IsValid() {
		result.WriteString(fmt.Sprintf("\n  --> %s:%d:%d",
			d.Span.Start.Filename, d.Span.Start.Line, d.Span.Start.Column))
		dm.writeExcerpt(&result, d)
	}

	for _, note := range d.Notes {
		result.WriteString("\n  = note: " + note)
	}
	for _, info := range d.RelatedInfo {
		result.WriteString(fmt.Sprintf("\n  = related: %s:%d:%d: %s",
			info.Location.Start.Filename,
			info.Location.Start.Line,
			info.Location.Start.Column,
			info.Message))
	}

	result.WriteString("\n")
	return result.String()
}

// writeExcerpt renders the source line under the span with a caret marker
func (dm *DiagnosticManager) writeExcerpt(result *strings.Builder, d Diagnostic) {
	if dm.sourceMap == nil {
		return
	}
	file := dm.sourceMap.GetFile(d.Span.Start.Filename)
	if file == nil {
		return
	}
	line := file.GetLine(d.Span.Start.Line)
	if line == "" {
		return
	}

	result.WriteString(fmt.Sprintf("\n%4d | %s", d.Span.Start.Line, line))

	width := 1
	if d.Span.End.Line == d.Span.Start.Line && d.Span.End.Column > d.Span.Start.Column {
		width = d.Span.End.Column - d.Span.Start.Column
	}
	pad := strings.Repeat(" ", 7+d.Span.Start.Column-1)
	result.WriteString("\n" + pad + strings.Repeat("^", width))
}

// FormatAll renders every accumulated diagnostic plus a summary line
func (dm *DiagnosticManager) FormatAll(colorize bool) string {
	var result strings.Builder
	for _, d := range dm.diagnostics {
		result.WriteString(dm.FormatDiagnostic(d, colorize))
	}
	if summary := dm.FormatSummary(); summary != "" {
		result.WriteString(summary + "\n")
	}
	return result.String()
}

// FormatSummary formats a one-line summary of all diagnostics
func (dm *DiagnosticManager) FormatSummary() string {
	if len(dm.diagnostics) == 0 {
		return ""
	}
	return fmt.Sprintf("Found %d error(s) and %d warning(s).", dm.errorCount, dm.warningCount)
}

// GetDiagnosticsByLevel returns diagnostics filtered by level
func (dm *DiagnosticManager) GetDiagnosticsByLevel(level DiagnosticLevel) []Diagnostic {
	var filtered []Diagnostic
	for _, diag := range dm.diagnostics {
		if diag.Level == level {
			filtered = append(filtered, diag)
		}
	}
	return filtered
}

// GetDiagnosticsByCategory returns diagnostics filtered by category
func (dm *DiagnosticManager) GetDiagnosticsByCategory(category DiagnosticCategory) []Diagnostic {
	var filtered []Diagnostic
	for _, diag := range dm.diagnostics {
		if diag.Category == category {
			filtered = append(filtered, diag)
		}
	}
	return filtered
}

const colorReset = "\033[0m"

// levelColor returns the ANSI color prefix for a severity level
func levelColor(level DiagnosticLevel) string {
	switch level {
	case DiagnosticError:
		return "\033[31m" // Red
	case DiagnosticWarning:
		return "\033[33m" // Yellow
	case DiagnosticInfo:
		return "\033[34m" // Blue
	case DiagnosticHint:
		return "\033[90m" // Gray
	default:
		return ""
	}
}
