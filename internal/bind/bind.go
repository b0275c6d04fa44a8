package bind

import (
	language "github.com/hanpama/typegraph/internal/language"
	schema "github.com/hanpama/typegraph/internal/schema"
)

// typenameField is the synthesized discriminant selection. It is never
// declared in user schemas and never deprecated.
var typenameField = &schema.Field{
	Name: "__typename",
	Type: schema.NonNullType(schema.NamedType("String")),
}

// Binder binds the operations of one parsed document against a schema.
// The schema is only read; one immutable Schema may serve many Binders
// concurrently. Fragment bodies are bound once and shared across all
// operations bound through the same Binder.
type Binder struct {
	schema   *schema.Schema
	doc      *language.QueryDocument
	policy   Policy
	fragSets map[string]*fragBinding
}

type fragBinding struct {
	sel     *SelectionSet
	uses    []varUse
	textual []varUse
}

// NewBinder creates a Binder for the given schema and document.
func NewBinder(sch *schema.Schema, doc *language.QueryDocument, policy Policy) *Binder {
	return &Binder{
		schema:   sch,
		doc:      doc,
		policy:   policy,
		fragSets: make(map[string]*fragBinding),
	}
}

// BindOperation resolves every selection of the operation against the
// schema and returns the bound tree. All errors are terminal: a bound
// Operation is either fully valid or not produced at all.
func (b *Binder) BindOperation(op *language.OperationDefinition) (*Operation, error) {
	rootName, err := b.rootTypeName(op.Operation)
	if err != nil {
		return nil, err
	}
	root := b.schema.Types[rootName]

	closure, err := FragmentClosure(b.doc, op)
	if err != nil {
		return nil, err
	}

	declared := make(map[string]*Variable, len(op.VariableDefinitions))
	variables := make([]*Variable, 0, len(op.VariableDefinitions))
	for _, vd := range op.VariableDefinitions {
		ref := typeRefFromAST(vd.Type)
		named := b.schema.Types[ref.NamedTypeName()]
		if named == nil {
			return nil, errVariableNotInput(vd.Variable, ref.String(), vd.Position)
		}
		switch named.Kind {
		case schema.TypeKindScalar, schema.TypeKindEnum, schema.TypeKindInputObject:
		default:
			return nil, errVariableNotInput(vd.Variable, ref.String(), vd.Position)
		}
		v := &Variable{Name: vd.Variable, Type: ref, Default: vd.DefaultValue}
		declared[v.Name] = v
		variables = append(variables, v)
	}

	ctx := &bindCtx{}
	sel, err := b.bindSelectionSet(root, op.SelectionSet, ctx, false)
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	for _, u := range ctx.uses {
		used[u.name] = true
		decl, ok := declared[u.name]
		if !ok {
			return nil, errUndeclaredVariable(u.name, u.pos)
		}
		if !variableCompatible(decl.Type, hasNonNullDefault(decl.Default), u.expected) {
			return nil, errVariableTypeMismatch(u.name, decl.Type, u.expected, u.pos)
		}
	}
	for _, u := range ctx.textual {
		used[u.name] = true
		if _, ok := declared[u.name]; !ok {
			return nil, errUndeclaredVariable(u.name, u.pos)
		}
	}
	for _, vd := range op.VariableDefinitions {
		if !used[vd.Variable] {
			return nil, errUnusedVariable(vd.Variable, vd.Position)
		}
	}

	fragments := make([]*Fragment, 0, len(closure))
	for _, fd := range closure {
		fb, err := b.bindFragment(fd)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, &Fragment{
			Name:          fd.Name,
			TypeCondition: fd.TypeCondition,
			Selections:    fb.sel,
			Def:           fd,
		})
	}

	return &Operation{
		Name:       op.Name,
		Kind:       op.Operation,
		RootType:   rootName,
		Selections: sel,
		Variables:  variables,
		Fragments:  fragments,
		Def:        op,
	}, nil
}

func (b *Binder) rootTypeName(kind language.Operation) (string, error) {
	var name string
	switch kind {
	case language.Mutation:
		name = b.schema.MutationType
	case language.Subscription:
		name = b.schema.SubscriptionType
	default:
		name = b.schema.QueryType
	}
	if name == "" {
		return "", errMissingRootType(string(kind))
	}
	return name, nil
}

// bindFragment binds a fragment body against its own type condition,
// memoized per fragment so every use site shares the bound tree.
func (b *Binder) bindFragment(fd *language.FragmentDefinition) (*fragBinding, error) {
	if fb, ok := b.fragSets[fd.Name]; ok {
		return fb, nil
	}
	t := b.schema.Types[fd.TypeCondition]
	if t == nil {
		return nil, errUnknownTypeCondition(fd.TypeCondition, fd.Position)
	}
	if !t.IsComposite() {
		return nil, errTypeConditionMismatch(fd.TypeCondition, fd.TypeCondition, fd.Position)
	}
	ctx := &bindCtx{}
	sel, err := b.bindSelectionSet(t, fd.SelectionSet, ctx, false)
	if err != nil {
		return nil, err
	}
	fb := &fragBinding{sel: sel, uses: ctx.uses, textual: ctx.textual}
	b.fragSets[fd.Name] = fb
	return fb, nil
}

// collector accumulates a selection set in document order: direct fields
// grouped by response key, and one branch per type condition for abstract
// positions. Field order is preserved for deterministic output.
type collector struct {
	groups      []*fieldGroup
	index       map[string]int
	branches    []*branchCollector
	branchIndex map[string]int
	visited     map[string]bool // fragments already merged at this level
}

type fieldGroup struct {
	key  string
	occs []fieldOccurrence
}

type fieldOccurrence struct {
	field       *language.Field
	conditional bool
}

type branchCollector struct {
	condition   string
	sets        []language.SelectionSet
	fragment    string // set when the branch is fed by exactly one named spread
	mixed       bool
	conditional bool
	pos         *language.Position
}

func newCollector() *collector {
	return &collector{
		index:       make(map[string]int),
		branchIndex: make(map[string]int),
		visited:     make(map[string]bool),
	}
}

func (c *collector) addField(key string, f *language.Field, conditional bool) {
	idx, ok := c.index[key]
	if !ok {
		c.index[key] = len(c.groups)
		c.groups = append(c.groups, &fieldGroup{key: key})
		idx = c.index[key]
	}
	c.groups[idx].occs = append(c.groups[idx].occs, fieldOccurrence{field: f, conditional: conditional})
}

func (c *collector) addBranch(condition string, set language.SelectionSet, fragment string, conditional bool, pos *language.Position) {
	idx, ok := c.branchIndex[condition]
	if !ok {
		c.branchIndex[condition] = len(c.branches)
		c.branches = append(c.branches, &branchCollector{
			condition:   condition,
			fragment:    fragment,
			conditional: conditional,
			pos:         pos,
		})
		idx = c.branchIndex[condition]
		c.branches[idx].sets = append(c.branches[idx].sets, set)
		return
	}
	bc := c.branches[idx]
	bc.sets = append(bc.sets, set)
	bc.mixed = true
	bc.conditional = bc.conditional && conditional
}

// bindSelectionSet is the recursive core of the binder.
func (b *Binder) bindSelectionSet(parent *schema.Type, selSet language.SelectionSet, ctx *bindCtx, conditional bool) (*SelectionSet, error) {
	c := newCollector()
	if err := b.collect(parent, selSet, c, ctx, conditional); err != nil {
		return nil, err
	}

	bound := &SelectionSet{OnType: parent.Name, NeedsTypename: parent.IsAbstract()}
	fields, err := b.bindGroups(parent, c, ctx)
	if err != nil {
		return nil, err
	}
	bound.Fields = fields

	for _, bc := range c.branches {
		branch, err := b.bindBranch(bc, ctx)
		if err != nil {
			return nil, err
		}
		bound.Branches = append(bound.Branches, branch)
	}
	return bound, nil
}

// collect partitions a raw selection set: direct fields and same-type
// fragments merge into field groups, differently-conditioned fragments on
// abstract parents open branches.
func (b *Binder) collect(parent *schema.Type, selSet language.SelectionSet, c *collector, ctx *bindCtx, conditional bool) error {
	for _, sel := range selSet {
		switch sel := sel.(type) {
		case *language.Field:
			include, cond, err := b.evalDirectives(sel.Directives, ctx)
			if err != nil {
				return err
			}
			if !include {
				b.recordPrunedUses(language.SelectionSet{sel}, ctx, make(map[string]bool))
				continue
			}
			key := sel.Alias
			if key == "" {
				key = sel.Name
			}
			c.addField(key, sel, conditional || cond)

		case *language.InlineFragment:
			include, cond, err := b.evalDirectives(sel.Directives, ctx)
			if err != nil {
				return err
			}
			if !include {
				b.recordPrunedUses(language.SelectionSet{sel}, ctx, make(map[string]bool))
				continue
			}
			if err := b.route(parent, sel.TypeCondition, sel.SelectionSet, "", c, ctx, conditional || cond, sel.Position); err != nil {
				return err
			}

		case *language.FragmentSpread:
			include, cond, err := b.evalDirectives(sel.Directives, ctx)
			if err != nil {
				return err
			}
			if !include {
				b.recordPrunedUses(language.SelectionSet{sel}, ctx, make(map[string]bool))
				continue
			}
			if c.visited[sel.Name] {
				continue
			}
			c.visited[sel.Name] = true
			frag := b.doc.Fragments.ForName(sel.Name)
			if frag == nil {
				return errUndefinedFragment(sel.Name, sel.Position)
			}
			fragInclude, fragCond, err := b.evalDirectives(frag.Directives, ctx)
			if err != nil {
				return err
			}
			if !fragInclude {
				recordDirectiveVariables(frag.Directives, ctx)
				b.recordPrunedUses(frag.SelectionSet, ctx, map[string]bool{sel.Name: true})
				continue
			}
			if err := b.route(parent, frag.TypeCondition, frag.SelectionSet, frag.Name, c, ctx, conditional || cond || fragCond, sel.Position); err != nil {
				return err
			}
		}
	}
	return nil
}

// recordPrunedUses walks a selection removed by a literal @skip or
// @include condition and records its variable references. The document
// still uses these variables textually, so they must be declared and
// they satisfy the unused-variable check, but no bound field remains to
// type-check them against.
func (b *Binder) recordPrunedUses(set language.SelectionSet, ctx *bindCtx, visited map[string]bool) {
	for _, sel := range set {
		switch sel := sel.(type) {
		case *language.Field:
			for _, arg := range sel.Arguments {
				recordValueVariables(arg.Value, ctx)
			}
			recordDirectiveVariables(sel.Directives, ctx)
			b.recordPrunedUses(sel.SelectionSet, ctx, visited)
		case *language.InlineFragment:
			recordDirectiveVariables(sel.Directives, ctx)
			b.recordPrunedUses(sel.SelectionSet, ctx, visited)
		case *language.FragmentSpread:
			recordDirectiveVariables(sel.Directives, ctx)
			if visited[sel.Name] {
				continue
			}
			visited[sel.Name] = true
			if frag := b.doc.Fragments.ForName(sel.Name); frag != nil {
				recordDirectiveVariables(frag.Directives, ctx)
				b.recordPrunedUses(frag.SelectionSet, ctx, visited)
			}
		}
	}
}

// route decides whether a fragment body merges into the current selection
// type or opens a discriminant branch.
func (b *Binder) route(parent *schema.Type, condition string, set language.SelectionSet, fragment string, c *collector, ctx *bindCtx, conditional bool, pos *language.Position) error {
	if condition == "" || condition == parent.Name {
		return b.collect(parent, set, c, ctx, conditional)
	}
	t := b.schema.Types[condition]
	if t == nil {
		return errUnknownTypeCondition(condition, pos)
	}
	if !t.IsComposite() {
		return errTypeConditionMismatch(condition, parent.Name, pos)
	}
	if !b.schema.Overlap(parent.Name, condition) {
		return errTypeConditionMismatch(condition, parent.Name, pos)
	}
	if !parent.IsAbstract() {
		// On a concrete parent the condition is an interface the parent
		// implements or a union containing it. The fields must still be
		// valid on the condition type; once they are, they resolve
		// against the parent like direct selections.
		if _, err := b.bindSelectionSet(t, set, &bindCtx{}, conditional); err != nil {
			return err
		}
		return b.collect(parent, set, c, ctx, conditional)
	}
	c.addBranch(condition, set, fragment, conditional, pos)
	return nil
}

// bindBranch binds one type-condition alternative. A branch fed by a
// single named spread reuses the fragment's shared bound body.
func (b *Binder) bindBranch(bc *branchCollector, ctx *bindCtx) (*Branch, error) {
	if bc.fragment != "" && !bc.mixed && !bc.conditional {
		frag := b.doc.Fragments.ForName(bc.fragment)
		fb, err := b.bindFragment(frag)
		if err != nil {
			return nil, err
		}
		ctx.uses = append(ctx.uses, fb.uses...)
		ctx.textual = append(ctx.textual, fb.textual...)
		return &Branch{TypeCondition: bc.condition, FragmentName: bc.fragment, Selections: fb.sel}, nil
	}
	t := b.schema.Types[bc.condition]
	var merged language.SelectionSet
	for _, set := range bc.sets {
		merged = append(merged, set...)
	}
	sel, err := b.bindSelectionSet(t, merged, ctx, bc.conditional)
	if err != nil {
		return nil, err
	}
	return &Branch{TypeCondition: bc.condition, Selections: sel}, nil
}

// bindGroups resolves each collected response key against the parent
// type, merging duplicate selections idempotently.
func (b *Binder) bindGroups(parent *schema.Type, c *collector, ctx *bindCtx) ([]*Field, error) {
	fields := make([]*Field, 0, len(c.groups))
	for _, group := range c.groups {
		first := group.occs[0].field
		conditional := true
		for _, occ := range group.occs {
			if occ.field.Name != first.Name {
				return nil, errConflictingFieldSelection(group.key, occ.field.Position,
					"fields %q and %q share one response key", first.Name, occ.field.Name)
			}
			if !argumentsEqual(first.Arguments, occ.field.Arguments) {
				return nil, errConflictingFieldSelection(group.key, occ.field.Position,
					"field %q is selected twice with different arguments", first.Name)
			}
			conditional = conditional && occ.conditional
		}

		def := parent.FieldByName(first.Name)
		if def == nil {
			if first.Name == "__typename" {
				def = typenameField
			} else {
				return nil, errUnknownField(first.Name, parent, first.Position)
			}
		}

		deprecated := false
		switch Apply(b.policy, def.IsDeprecated) {
		case Exclude:
			// Exclusion only governs binder bookkeeping; a field the
			// document asked for fails loudly instead.
			return nil, errDeprecatedFieldSelected(def.Name, parent.Name, def.DeprecationReason, first.Position)
		case KeepMarked:
			deprecated = true
		}

		if err := b.checkArguments(parent, def, first, ctx); err != nil {
			return nil, err
		}

		var merged language.SelectionSet
		for _, occ := range group.occs {
			merged = append(merged, occ.field.SelectionSet...)
		}
		named := b.schema.Types[def.Type.NamedTypeName()]
		var children *SelectionSet
		if named != nil && named.IsComposite() {
			if len(merged) == 0 {
				return nil, errCompositeWithoutSelection(group.key, named.Name, first.Position)
			}
			sub, err := b.bindSelectionSet(named, merged, ctx, conditional)
			if err != nil {
				return nil, err
			}
			children = sub
		} else if len(merged) > 0 {
			return nil, errLeafWithSelection(group.key, def.Type.NamedTypeName(), first.Position)
		}

		bound := &Field{
			Alias:       group.key,
			Name:        def.Name,
			Def:         def,
			Deprecated:  deprecated,
			Conditional: conditional,
			Selections:  children,
		}
		for _, arg := range first.Arguments {
			bound.Arguments = append(bound.Arguments, &Argument{Name: arg.Name, Value: arg.Value})
		}
		fields = append(fields, bound)
	}
	return fields, nil
}

func (b *Binder) checkArguments(parent *schema.Type, def *schema.Field, field *language.Field, ctx *bindCtx) *Error {
	for _, arg := range field.Arguments {
		decl := def.ArgumentByName(arg.Name)
		if decl == nil {
			return errUnknownArgument(arg.Name, def.Name, parent.Name, arg.Position)
		}
		if err := b.checkValue(arg.Name, arg.Value, decl.Type, ctx); err != nil {
			return err
		}
	}
	for _, decl := range def.Arguments {
		if decl.Type.IsNonNull() && !decl.HasDefault() && field.Arguments.ForName(decl.Name) == nil {
			return errMissingRequiredArgument(decl.Name, decl.Type, def.Name, parent.Name, field.Position)
		}
	}
	return nil
}

// evalDirectives applies @skip and @include. Literal conditions prune the
// selection at bind time; variable conditions keep it and mark it
// conditional so its presence is optional in the emitted type.
func (b *Binder) evalDirectives(directives language.DirectiveList, ctx *bindCtx) (include, conditional bool, err *Error) {
	include = true
	for _, name := range [...]string{"skip", "include"} {
		d := directives.ForName(name)
		if d == nil {
			continue
		}
		arg := d.Arguments.ForName("if")
		if arg == nil {
			return false, false, errInvalidArgument(d.Position, "@%s requires an `if` argument", name)
		}
		switch arg.Value.Kind {
		case language.BooleanValue:
			v := arg.Value.Raw == "true"
			if (name == "skip" && v) || (name == "include" && !v) {
				return false, false, nil
			}
		case language.Variable:
			ctx.use(arg.Value.Raw, schema.NonNullType(schema.NamedType("Boolean")), arg.Value.Position)
			conditional = true
		default:
			return false, false, errInvalidArgument(arg.Value.Position,
				"@%s `if` argument must be a Boolean literal or variable", name)
		}
	}
	return include, conditional, nil
}
