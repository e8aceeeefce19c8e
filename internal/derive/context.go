// Package derive implements the trait implementation synthesizer: given a
// TraitDef describing a derivable trait and a parsed struct, enum, or union
// declaration, it generates the complete impl block for that trait.
//
// The engine is shape-driven. Each method is synthesized by breaking the
// declaration into per-field expressions and handing the trait's combinator
// a Substructure describing exactly what matched; the combinator turns those
// expressions into a method body. Bound inference adds the where-predicates
// the generated code needs. Expansion is synchronous: one derive request
// runs to completion before the next begins.
package derive

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/orizon-lang/orizon-derive/internal/diagnostics"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// Reporter is the diagnostic sink the engine reports user-visible conditions
// through. *diagnostics.DiagnosticManager satisfies it.
type Reporter interface {
	Report(diagnostics.Diagnostic)
}

// Context carries the diagnostic sink, the logger, and the fresh-identifier
// allocator through one expansion. It is threaded by exclusive access down
// the call tree and never shared across expansions.
type Context struct {
	reporter Reporter
	log      *zap.SugaredLogger
}

// NewContext creates a Context sinking diagnostics into reporter. A nil
// logger disables logging.
func NewContext(reporter Reporter, log *zap.SugaredLogger) *Context {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Context{reporter: reporter, log: log}
}

// Log returns the expansion logger.
func (c *Context) Log() *zap.SugaredLogger { return c.log }

// Report sinks a fully built diagnostic.
func (c *Context) Report(d diagnostics.Diagnostic) {
	c.reporter.Report(d)
}

// Errorf sinks one error diagnostic.
func (c *Context) Errorf(category diagnostics.DiagnosticCategory, span position.Span, format string, args ...interface{}) {
	c.reporter.Report(diagnostics.Diagnostic{
		Level:    diagnostics.DiagnosticError,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// Generated bindings all start with a double underscore, which the surface
// grammar reserves for the toolchain; names are derived from argument and
// field positions so repeated expansions of one declaration are identical.

// selfPrefix returns the binding prefix for self-like argument argIdx.
func (c *Context) selfPrefix(argIdx int) string {
	if argIdx == 0 {
		return "__self"
	}
	return fmt.Sprintf("__arg_%d", argIdx)
}

// FieldBindingName returns the binding name destructuring field fieldIdx of
// self-like argument argIdx: __self_0, __arg_1_0, ...
func (c *Context) FieldBindingName(argIdx, fieldIdx int) string {
	return fmt.Sprintf("%s_%d", c.selfPrefix(argIdx), fieldIdx)
}

// PackedBindingName returns the binding name used when a packed struct is
// destructured whole: __self_<argIdx>_<fieldIdx>.
func (c *Context) PackedBindingName(argIdx, fieldIdx int) string {
	return fmt.Sprintf("__self_%d_%d", argIdx, fieldIdx)
}

// DiscriminantName returns the binding name for the discriminant of
// self-like argument argIdx: __self_vi, __arg_1_vi, ...
func (c *Context) DiscriminantName(argIdx int) string {
	return fmt.Sprintf("%s_vi", c.selfPrefix(argIdx))
}
