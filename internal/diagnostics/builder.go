// Package diagnostics - fluent builder for diagnostic construction.
package diagnostics

import (
	"fmt"

	"github.com/orizon-lang/orizon-derive/internal/position"
)

// DiagnosticBuilder provides a fluent interface for building diagnostics.
type DiagnosticBuilder struct {
	diagnostic Diagnostic
}

// NewDiagnosticBuilder creates a new diagnostic builder.
func NewDiagnosticBuilder() *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diagnostic: Diagnostic{
			Notes:       make([]string, 0),
			RelatedInfo: make([]RelatedInformation, 0),
		},
	}
}

// Error sets the error severity level.
func (db *DiagnosticBuilder) Error() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticError

	return db
}

// Warning sets the warning severity level.
func (db *DiagnosticBuilder) Warning() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticWarning

	return db
}

// Info sets the info severity level.
func (db *DiagnosticBuilder) Info() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticInfo

	return db
}

// Hint sets the hint severity level.
func (db *DiagnosticBuilder) Hint() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticHint

	return db
}

// WithCode sets the error code.
func (db *DiagnosticBuilder) WithCode(code string) *DiagnosticBuilder {
	db.diagnostic.Code = code

	return db
}

// WithCategory sets the diagnostic category.
func (db *DiagnosticBuilder) WithCategory(category DiagnosticCategory) *DiagnosticBuilder {
	db.diagnostic.Category = category

	return db
}

// WithMessage sets the main diagnostic message.
func (db *DiagnosticBuilder) WithMessage(format string, args ...interface{}) *DiagnosticBuilder {
	db.diagnostic.Message = fmt.Sprintf(format, args...)

	return db
}

// WithSpan sets the primary source location.
func (db *DiagnosticBuilder) WithSpan(span position.Span) *DiagnosticBuilder {
	db.diagnostic.Span = span

	return db
}

// WithNote appends a note line rendered under the source excerpt.
func (db *DiagnosticBuilder) WithNote(format string, args ...interface{}) *DiagnosticBuilder {
	db.diagnostic.Notes = append(db.diagnostic.Notes, fmt.Sprintf(format, args...))

	return db
}

// WithRelated appends related information from another location.
func (db *DiagnosticBuilder) WithRelated(location position.Span, message string) *DiagnosticBuilder {
	db.diagnostic.RelatedInfo = append(db.diagnostic.RelatedInfo, RelatedInformation{
		Message:  message,
		Location: location,
	})

	return db
}

// Build returns the assembled diagnostic.
func (db *DiagnosticBuilder) Build() Diagnostic {
	return db.diagnostic
}

// ReportTo assembles the diagnostic and reports it to the manager.
func (db *DiagnosticBuilder) ReportTo(dm *DiagnosticManager) {
	dm.Report(db.diagnostic)
}
