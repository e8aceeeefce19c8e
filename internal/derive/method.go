package derive

import (
	"strconv"

	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// expandMethod synthesizes one method of the impl. Target admissibility was
// checked by Expand, so this cannot fail; shape violations panic.
func (td *TraitDef) expandMethod(ctx *Context, method *MethodDef, target parser.Declaration, name *parser.Identifier, selfType parser.Type) *parser.FunctionDeclaration {
	span := td.Span

	fn := &parser.FunctionDeclaration{
		Span:       span,
		Attributes: method.Attributes,
		Name:       parser.NewIdentifier(span, method.Name),
		IsConst:    method.IsConst,
		IsUnsafe:   method.IsUnsafe,
	}
	for _, g := range method.Generics {
		gp := &parser.GenericParameter{
			Span: span,
			Kind: parser.GenericParamType,
			Name: parser.NewIdentifier(span, g.Name),
		}
		for _, b := range g.Bounds {
			gp.Bounds = append(gp.Bounds, &parser.TypeBound{Span: span, Trait: b.Resolve(span, selfType)})
		}
		fn.Generics = append(fn.Generics, gp)
	}
	if method.ExplicitSelf {
		fn.Receiver = &parser.Receiver{Span: span, IsRef: true}
	}
	for _, a := range method.NonSelfArgs {
		fn.Parameters = append(fn.Parameters, &parser.Parameter{
			Span: span,
			Name: parser.NewIdentifier(span, a.Name),
			Type: a.Type.Resolve(span, selfType),
		})
	}
	if method.ReturnType != nil {
		fn.ReturnType = method.ReturnType.Resolve(span, selfType)
	}

	// Split the declared arguments: self-like ones are destructured in
	// lockstep with the receiver, the rest pass through to the combinator
	// verbatim.
	var selfLikeNames []string
	var plainArgs []parser.Expression
	if method.ExplicitSelf {
		selfLikeNames = append(selfLikeNames, "self")
	}
	for _, a := range method.NonSelfArgs {
		if method.ExplicitSelf && isSelfLike(a.Type) {
			selfLikeNames = append(selfLikeNames, a.Name)
		} else {
			plainArgs = append(plainArgs, parser.NewIdentifier(span, a.Name))
		}
	}

	sub := &Substructure{TypeName: name, MethodName: method.Name, NonSelfArgs: plainArgs}

	var body BlockOrExpr
	if !method.ExplicitSelf {
		body = td.expandStaticMethodBody(ctx, method, target, sub)
	} else {
		switch decl := target.(type) {
		case *parser.StructDeclaration:
			body = td.expandStructMethodBody(ctx, method, decl, sub, selfLikeNames)
		case *parser.UnionDeclaration:
			body = td.expandUnionMethodBody(ctx, method, decl, sub, selfLikeNames)
		case *parser.EnumDeclaration:
			body = td.expandEnumMethodBody(ctx, method, decl, sub, selfLikeNames)
		default:
			panic(oerrors.AssertionFailedf("method %s on target %T", method.Name, target))
		}
	}
	fn.Body = body.ToBlock(span)
	return fn
}

// expandStaticMethodBody hands the combinator the target's static shape.
// Static methods never touch a value of the type, so the substructure
// carries field names and spans only.
func (td *TraitDef) expandStaticMethodBody(ctx *Context, method *MethodDef, target parser.Declaration, sub *Substructure) BlockOrExpr {
	switch decl := target.(type) {
	case *parser.StructDeclaration:
		sub.Fields = summarizeStruct(decl)
	case *parser.UnionDeclaration:
		sub.Fields = summarizeUnion(decl)
	case *parser.EnumDeclaration:
		sub.Fields = summarizeEnum(decl)
	default:
		panic(oerrors.AssertionFailedf("static method %s on target %T", method.Name, target))
	}
	return method.CombineSubstructure(ctx, td.Span, sub)
}

// expandStructMethodBody breaks a struct into per-field access expressions.
// The common case reads each field in place through the self-like
// references; a packed struct is destructured into locals first, since a
// reference into packed layout may be unaligned.
func (td *TraitDef) expandStructMethodBody(ctx *Context, method *MethodDef, decl *parser.StructDeclaration, sub *Substructure, selfLikeNames []string) BlockOrExpr {
	span := td.Span

	if isPacked(decl.Attributes) && len(decl.Fields) > 0 {
		return td.expandPackedStructMethodBody(ctx, method, decl, sub, selfLikeNames)
	}

	sub.Fields = &StructFields{Fields: directFieldInfos(span, decl.Fields, selfLikeNames)}
	return method.CombineSubstructure(ctx, span, sub)
}

// expandPackedStructMethodBody destructures every self-like argument into
// fresh locals ahead of the combinator's result. Bindings move the fields
// out by value when the target also derives Copy and has no generic
// parameters; otherwise they bind by ref and the field expressions
// dereference the locals.
func (td *TraitDef) expandPackedStructMethodBody(ctx *Context, method *MethodDef, decl *parser.StructDeclaration, sub *Substructure, selfLikeNames []string) BlockOrExpr {
	span := td.Span
	byValue := derivesCopy(decl.Attributes) && len(decl.Generics) == 0

	fields := make([]*FieldInfo, len(decl.Fields))
	for i, f := range decl.Fields {
		fields[i] = &FieldInfo{Span: f.Span, Name: f.Name}
	}
	stmts := make([]parser.Statement, 0, len(selfLikeNames))
	for argIdx, selfName := range selfLikeNames {
		stmts = append(stmts, &parser.LetStatement{
			Span:    span,
			Pattern: packedPattern(ctx, span, decl, argIdx, byValue),
			Value:   parser.NewUnaryExpression(span, "*", parser.NewIdentifier(span, selfName)),
		})
		for i := range decl.Fields {
			expr := bindingExpr(span, ctx.PackedBindingName(argIdx, i), byValue)
			if argIdx == 0 {
				fields[i].SelfExpr = expr
			} else {
				fields[i].OtherSelfExprs = append(fields[i].OtherSelfExprs, expr)
			}
		}
	}

	sub.Fields = &StructFields{Fields: fields}
	body := method.CombineSubstructure(ctx, span, sub)
	return NewBlockOrExpr(append(stmts, body.Stmts...), body.Expr)
}

// expandUnionMethodBody reads union fields in place. A union is never
// destructured.
func (td *TraitDef) expandUnionMethodBody(ctx *Context, method *MethodDef, decl *parser.UnionDeclaration, sub *Substructure, selfLikeNames []string) BlockOrExpr {
	sub.Fields = &StructFields{Fields: directFieldInfos(td.Span, decl.Fields, selfLikeNames)}
	return method.CombineSubstructure(ctx, td.Span, sub)
}

// expandEnumMethodBody drives the enum shape. One self-like argument, or a
// single-variant enum, needs only a match giving each variant its arm.
// Several self-like arguments over several variants compare discriminants
// first, so the match handles the same-variant case alone and the body
// stays linear in the variant count; mismatched discriminants take the else
// branch with the collapsed substructure.
func (td *TraitDef) expandEnumMethodBody(ctx *Context, method *MethodDef, decl *parser.EnumDeclaration, sub *Substructure, selfLikeNames []string) BlockOrExpr {
	span := td.Span

	// A zero-variant enum has no values; any method body is unreachable.
	if len(decl.Variants) == 0 {
		return ExprOnly(&parser.UnreachableExpression{Span: span})
	}

	if len(selfLikeNames) == 1 || len(decl.Variants) == 1 {
		return ExprOnly(td.buildVariantMatch(ctx, method, decl, sub, selfLikeNames, false))
	}

	stmts := make([]parser.Statement, 0, len(selfLikeNames))
	discIdents := make([]*parser.Identifier, 0, len(selfLikeNames))
	for argIdx, selfName := range selfLikeNames {
		ident := parser.NewIdentifier(span, ctx.DiscriminantName(argIdx))
		discIdents = append(discIdents, ident)
		stmts = append(stmts, &parser.LetStatement{
			Span:    span,
			Pattern: &parser.IdentifierPattern{Span: span, Name: ident},
			Value:   discriminantCall(span, parser.NewIdentifier(span, selfName)),
		})
	}

	// Every later discriminant is compared against the first, left-chained.
	var guard parser.Expression
	for argIdx := 1; argIdx < len(selfLikeNames); argIdx++ {
		eq := parser.NewBinaryExpression(span,
			parser.NewIdentifier(span, ctx.DiscriminantName(0)),
			"==",
			parser.NewIdentifier(span, ctx.DiscriminantName(argIdx)))
		if guard == nil {
			guard = eq
		} else {
			guard = parser.NewBinaryExpression(span, guard, "&&", eq)
		}
	}

	thenMatch := td.buildVariantMatch(ctx, method, decl, sub, selfLikeNames, true)
	sub.Fields = &EnumNonMatchingCollapsed{DiscIdents: discIdents}
	elseBody := method.CombineSubstructure(ctx, span, sub)

	return NewBlockOrExpr(stmts, &parser.IfExpression{
		Span:       span,
		Condition:  guard,
		ThenBlock:  &parser.BlockExpression{Span: span, TailExpr: thenMatch},
		ElseBranch: elseBody.ToBlock(span),
	})
}

// buildVariantMatch builds the match over the re-borrowed self-like
// arguments, one arm per variant, destructuring that variant's fields out
// of every self-like in lockstep. When the method unifies fieldless
// variants and the enum has any, those variants share a single trailing `_`
// arm instead of individual arms. withCatchAll appends `_ => unreachable`
// for the cross-variant pattern space a guarded match never reaches; the
// unified arm, when present, already covers it.
func (td *TraitDef) buildVariantMatch(ctx *Context, method *MethodDef, decl *parser.EnumDeclaration, sub *Substructure, selfLikeNames []string, withCatchAll bool) parser.Expression {
	span := td.Span

	firstFieldless := firstFieldlessVariant(decl)
	unify := method.UnifyFieldlessVariants && firstFieldless != nil

	arms := make([]*parser.MatchArm, 0, len(decl.Variants)+1)
	for index, variant := range decl.Variants {
		if unify && len(variant.Fields) == 0 {
			continue
		}
		sub.Fields = &EnumMatching{
			Index:        index,
			VariantCount: len(decl.Variants),
			Variant:      variant,
			Fields:       variantFieldInfos(ctx, span, variant, len(selfLikeNames)),
		}
		body := method.CombineSubstructure(ctx, span, sub)
		arms = append(arms, &parser.MatchArm{
			Span:    span,
			Pattern: armPattern(ctx, span, decl.Name.Value, variant, len(selfLikeNames)),
			Body:    body.ToExpr(span),
		})
	}

	switch {
	case unify:
		sub.Fields = &EnumMatching{Index: 0, VariantCount: len(decl.Variants), Variant: firstFieldless}
		body := method.CombineSubstructure(ctx, span, sub)
		arms = append(arms, &parser.MatchArm{
			Span:    span,
			Pattern: &parser.WildcardPattern{Span: span},
			Body:    body.ToExpr(span),
		})
	case withCatchAll:
		arms = append(arms, &parser.MatchArm{
			Span:    span,
			Pattern: &parser.WildcardPattern{Span: span},
			Body:    &parser.UnreachableExpression{Span: span},
		})
	}

	return &parser.MatchExpression{Span: span, Subject: matchSubject(span, selfLikeNames), Arms: arms}
}

// matchSubject re-borrows each self-like argument; several form a tuple.
func matchSubject(span position.Span, selfLikeNames []string) parser.Expression {
	exprs := make([]parser.Expression, 0, len(selfLikeNames))
	for _, name := range selfLikeNames {
		exprs = append(exprs, reborrow(span, name))
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return &parser.TupleExpression{Span: span, Elements: exprs}
}

// reborrow builds &*name, a fresh shared borrow of the pointed-to value.
func reborrow(span position.Span, name string) parser.Expression {
	return parser.NewRefExpression(span, parser.NewUnaryExpression(span, "*", parser.NewIdentifier(span, name)))
}

// armPattern binds variant's fields out of every self-like argument;
// several arguments pattern as a tuple in argument order.
func armPattern(ctx *Context, span position.Span, enumName string, variant *parser.EnumVariant, nArgs int) parser.Pattern {
	if nArgs == 1 {
		return variantPattern(ctx, span, enumName, variant, 0)
	}
	elems := make([]parser.Pattern, 0, nArgs)
	for argIdx := 0; argIdx < nArgs; argIdx++ {
		elems = append(elems, variantPattern(ctx, span, enumName, variant, argIdx))
	}
	return &parser.TuplePattern{Span: span, Elements: elems}
}

// variantPattern destructures one self-like argument as Enum::Variant,
// binding each field by ref under the allocator's name for its position.
func variantPattern(ctx *Context, span position.Span, enumName string, variant *parser.EnumVariant, argIdx int) parser.Pattern {
	path := parser.NewPathType(span, enumName, variant.Name.Value)
	switch {
	case variant.IsTuple && len(variant.Fields) > 0:
		elems := make([]parser.Pattern, 0, len(variant.Fields))
		for i := range variant.Fields {
			elems = append(elems, &parser.IdentifierPattern{
				Span:  span,
				Name:  parser.NewIdentifier(span, ctx.FieldBindingName(argIdx, i)),
				IsRef: true,
			})
		}
		return &parser.TupleStructPattern{Span: span, Path: path, Elements: elems}
	case len(variant.Fields) > 0:
		fields := make([]*parser.FieldPattern, 0, len(variant.Fields))
		for i, f := range variant.Fields {
			fields = append(fields, &parser.FieldPattern{
				Span: f.Span,
				Name: f.Name,
				Pattern: &parser.IdentifierPattern{
					Span:  span,
					Name:  parser.NewIdentifier(span, ctx.FieldBindingName(argIdx, i)),
					IsRef: true,
				},
			})
		}
		return &parser.StructPattern{Span: span, Path: path, Fields: fields}
	default:
		return &parser.PathPattern{Span: span, Path: path}
	}
}

// packedPattern destructures one self-like argument of a packed struct
// whole, binding each field under the allocator's packed name. Bindings are
// by ref unless byValue moves the fields out of the copied value.
func packedPattern(ctx *Context, span position.Span, decl *parser.StructDeclaration, argIdx int, byValue bool) parser.Pattern {
	path := parser.NewPathType(span, "Self")
	binding := func(fieldIdx int) *parser.IdentifierPattern {
		return &parser.IdentifierPattern{
			Span:  span,
			Name:  parser.NewIdentifier(span, ctx.PackedBindingName(argIdx, fieldIdx)),
			IsRef: !byValue,
		}
	}
	if decl.IsTuple {
		elems := make([]parser.Pattern, 0, len(decl.Fields))
		for i := range decl.Fields {
			elems = append(elems, binding(i))
		}
		return &parser.TupleStructPattern{Span: span, Path: path, Elements: elems}
	}
	fields := make([]*parser.FieldPattern, 0, len(decl.Fields))
	for i, f := range decl.Fields {
		fields = append(fields, &parser.FieldPattern{Span: f.Span, Name: f.Name, Pattern: binding(i)})
	}
	return &parser.StructPattern{Span: span, Path: path, Fields: fields}
}

// variantFieldInfos builds the dereferenced binding expressions for
// variant's fields across nArgs self-like arguments.
func variantFieldInfos(ctx *Context, span position.Span, variant *parser.EnumVariant, nArgs int) []*FieldInfo {
	infos := make([]*FieldInfo, 0, len(variant.Fields))
	for i, f := range variant.Fields {
		info := &FieldInfo{Span: f.Span, Name: f.Name}
		for argIdx := 0; argIdx < nArgs; argIdx++ {
			expr := bindingExpr(span, ctx.FieldBindingName(argIdx, i), false)
			if argIdx == 0 {
				info.SelfExpr = expr
			} else {
				info.OtherSelfExprs = append(info.OtherSelfExprs, expr)
			}
		}
		infos = append(infos, info)
	}
	return infos
}

// directFieldInfos builds in-place access expressions for each field on
// each self-like argument: base.name for named fields, base.<idx> for
// positional ones.
func directFieldInfos(span position.Span, fields []*parser.StructField, selfLikeNames []string) []*FieldInfo {
	infos := make([]*FieldInfo, 0, len(fields))
	for i, f := range fields {
		info := &FieldInfo{Span: f.Span, Name: f.Name}
		for argIdx, selfName := range selfLikeNames {
			expr := fieldAccess(span, parser.NewIdentifier(span, selfName), f, i)
			if argIdx == 0 {
				info.SelfExpr = expr
			} else {
				info.OtherSelfExprs = append(info.OtherSelfExprs, expr)
			}
		}
		infos = append(infos, info)
	}
	return infos
}

func fieldAccess(span position.Span, base parser.Expression, field *parser.StructField, idx int) parser.Expression {
	if field.Name != nil {
		return parser.NewMemberAccess(span, base, field.Name.Value)
	}
	return parser.NewMemberAccess(span, base, strconv.Itoa(idx))
}

// bindingExpr is the field expression for a destructured binding: the bare
// local when bound by value, the parenthesized dereference otherwise.
func bindingExpr(span position.Span, name string, byValue bool) parser.Expression {
	ident := parser.NewIdentifier(span, name)
	if byValue {
		return ident
	}
	return parser.NewDerefExpression(span, ident)
}

// discriminantCall builds core::intrinsics::discriminant_value(arg).
func discriminantCall(span position.Span, arg parser.Expression) parser.Expression {
	return parser.NewCallExpression(span,
		parser.NewPathExpression(span, "core", "intrinsics", "discriminant_value"),
		arg)
}

// isPacked reports whether the declaration carries repr(packed). Every repr
// attribute is consulted; packed may ride alongside other layout arguments.
func isPacked(attrs []*parser.Attribute) bool {
	for _, a := range attrs {
		if a.Name.Value != "repr" {
			continue
		}
		for _, arg := range a.Args {
			if parser.AttributeArgName(arg) == "packed" {
				return true
			}
		}
	}
	return false
}

// derivesCopy reports whether the declaration also requests derive(Copy).
func derivesCopy(attrs []*parser.Attribute) bool {
	for _, a := range attrs {
		if a.Name.Value != "derive" {
			continue
		}
		for _, arg := range a.Args {
			if parser.AttributeArgName(arg) == "Copy" {
				return true
			}
		}
	}
	return false
}

// firstFieldlessVariant returns the first declared variant with no fields,
// or nil.
func firstFieldlessVariant(decl *parser.EnumDeclaration) *parser.EnumVariant {
	for _, v := range decl.Variants {
		if len(v.Fields) == 0 {
			return v
		}
	}
	return nil
}
