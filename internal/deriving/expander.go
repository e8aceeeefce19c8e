package deriving

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/orizon-derive/internal/derive"
	"github.com/orizon-lang/orizon-derive/internal/diagnostics"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// Expander walks a parsed program and expands every #[derive(...)] request
// against a registry. It implements parser.Visitor; only the declaration
// kinds that can carry a derive do any work. Unknown, gated, and
// unsupportable requests are reported through the diagnostic sink and
// skipped, so one bad request never hides its siblings.
type Expander struct {
	registry      *Registry
	ctx           *derive.Context
	version       *semver.Version
	allowUnstable bool
	only          map[string]bool
	impls         []*parser.ImplBlock
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander)

// WithLanguageVersion sets the language version that Since-gated registry
// entries are checked against. Nil disables version gating.
func WithLanguageVersion(v *semver.Version) ExpanderOption {
	return func(e *Expander) { e.version = v }
}

// WithUnstableTraits admits registry entries marked unstable.
func WithUnstableTraits(allow bool) ExpanderOption {
	return func(e *Expander) { e.allowUnstable = allow }
}

// WithTraitFilter restricts expansion to the named traits; requests for
// other traits are skipped without reporting. No names clears the filter.
func WithTraitFilter(names ...string) ExpanderOption {
	return func(e *Expander) {
		if len(names) == 0 {
			e.only = nil
			return
		}
		e.only = make(map[string]bool, len(names))
		for _, name := range names {
			e.only[name] = true
		}
	}
}

func NewExpander(registry *Registry, ctx *derive.Context, opts ...ExpanderOption) *Expander {
	e := &Expander{registry: registry, ctx: ctx}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExpandProgram expands every derive request in the program in source order
// and returns the synthesized impls. Failures surface through the
// diagnostic sink, not the return value.
func (e *Expander) ExpandProgram(prog *parser.Program) []*parser.ImplBlock {
	e.impls = nil
	prog.Accept(e)
	return e.impls
}

func (e *Expander) VisitProgram(prog *parser.Program) interface{} {
	for _, decl := range prog.Declarations {
		decl.Accept(e)
	}
	return nil
}

func (e *Expander) VisitStructDeclaration(decl *parser.StructDeclaration) interface{} {
	e.expandRequests(decl, decl.Attributes)
	return nil
}

func (e *Expander) VisitEnumDeclaration(decl *parser.EnumDeclaration) interface{} {
	e.expandRequests(decl, decl.Attributes)
	return nil
}

func (e *Expander) VisitUnionDeclaration(decl *parser.UnionDeclaration) interface{} {
	e.expandRequests(decl, decl.Attributes)
	return nil
}

func (e *Expander) VisitImplBlock(*parser.ImplBlock) interface{} { return nil }

func (e *Expander) VisitFunctionDeclaration(*parser.FunctionDeclaration) interface{} { return nil }

// expandRequests expands the derive requests on one declaration: every
// argument of every #[derive(...)] attribute, in source order.
func (e *Expander) expandRequests(decl parser.Declaration, attrs []*parser.Attribute) {
	for _, attr := range attrs {
		if attr.Name.Value != "derive" {
			continue
		}
		for _, arg := range attr.Args {
			name := parser.AttributeArgName(arg)
			if name == "" {
				e.ctx.Errorf(diagnostics.CategoryParsing, arg.GetSpan(),
					"derive argument %s is not a trait name", arg.String())
				continue
			}
			if e.only != nil && !e.only[name] {
				continue
			}
			e.expandOne(decl, attrs, arg.GetSpan(), name)
		}
	}
}

func (e *Expander) expandOne(decl parser.Declaration, attrs []*parser.Attribute, span position.Span, name string) {
	entry, err := e.registry.Resolve(name)
	if err != nil {
		e.ctx.Report(diagnostics.NewDiagnosticBuilder().
			Error().
			WithCategory(diagnostics.CategoryUnknownTrait).
			WithCode("E0602").
			WithMessage("cannot derive %s: not a derivable trait", name).
			WithSpan(span).
			WithNote("derivable traits are %s", strings.Join(e.registry.Names(), ", ")).
			Build())
		return
	}
	if err := entry.Available(e.version, e.allowUnstable); err != nil {
		e.ctx.Report(diagnostics.NewDiagnosticBuilder().
			Error().
			WithCategory(diagnostics.CategoryStability).
			WithCode("E0603").
			WithMessage("%v", err).
			WithSpan(span).
			Build())
		return
	}

	td := entry.Builder(e.ctx, span, decl)
	if td == nil {
		return
	}
	td.Attributes = attrs

	impl, err := td.Expand(e.ctx, decl)
	if err != nil {
		// User conditions were already reported inside Expand.
		if !oerrors.IsUserError(err) {
			e.ctx.Errorf(diagnostics.CategoryInternal, span, "derive(%s) failed: %v", name, err)
		}
		return
	}
	e.impls = append(e.impls, impl)
}
