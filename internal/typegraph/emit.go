package typegraph

import (
	"fmt"

	bind "github.com/hanpama/typegraph/internal/bind"
	schema "github.com/hanpama/typegraph/internal/schema"
)

// Options configures one emission.
type Options struct {
	// ScalarMapping resolves custom scalar names to external type
	// references the compiler never inspects.
	ScalarMapping map[string]string
	// OpenScalars emits unmapped custom scalars as opaque placeholders
	// instead of failing with UnresolvedScalar.
	OpenScalars bool
	// ExtraDerives is carried through to Graph.ExtraDerives.
	ExtraDerives []string
}

// Emit walks a bound operation and produces its Graph. Naming is
// deterministic: every nested shape is named by composing the operation
// or fragment name with the field path down to it.
func Emit(sch *schema.Schema, op *bind.Operation, opts Options) (*Graph, error) {
	e := &emitter{
		schema:   sch,
		mapping:  opts.ScalarMapping,
		open:     opts.OpenScalars,
		frags:    make(map[string]*TypeRef),
		inputs:   make(map[string]*TypeRef),
		enums:    make(map[string]bool),
		scalars:  make(map[string]bool),
		used:     make(map[string]bool),
		graph:    &Graph{ExtraDerives: opts.ExtraDerives},
		fragSets: make(map[string]*bind.SelectionSet),
	}
	for _, frag := range op.Fragments {
		e.fragSets[frag.Name] = frag.Selections
	}

	base := exportName(op.Name)
	if base == "" {
		base = exportName(string(op.Kind))
	}

	root, err := e.emitSelection(op.Selections, base)
	if err != nil {
		return nil, err
	}

	for _, v := range op.Variables {
		out, err := e.emitVariable(v)
		if err != nil {
			return nil, err
		}
		e.graph.Variables = append(e.graph.Variables, out)
	}

	e.graph.Operation = op.Name
	e.graph.Kind = string(op.Kind)
	e.graph.RootType = op.RootType
	e.graph.Root = root
	return e.graph, nil
}

type emitter struct {
	schema  *schema.Schema
	mapping map[string]string
	open    bool
	graph   *Graph

	frags    map[string]*TypeRef // fragment name -> emitted shape
	fragSets map[string]*bind.SelectionSet
	inputs   map[string]*TypeRef // input object name -> emitted record
	enums    map[string]bool
	scalars  map[string]bool
	used     map[string]bool // claimed record and variant names
}

// claimName reserves a shape name. Path composition can collide, for
// example a field aliased "onHuman" next to a Human branch of the same
// variant; the shape emitted later gets a numeric suffix. Emission
// follows document order, so the suffixes are stable.
func (e *emitter) claimName(base string) string {
	name := base
	for n := 2; e.used[name]; n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	e.used[name] = true
	return name
}

// emitSelection emits the shape of one bound selection set: a record for
// concrete positions, a variant for interface and union positions.
func (e *emitter) emitSelection(sel *bind.SelectionSet, name string) (*TypeRef, error) {
	if len(sel.Branches) > 0 || sel.NeedsTypename {
		return e.emitVariant(sel, name)
	}
	return e.emitRecord(sel, name, "")
}

func (e *emitter) emitRecord(sel *bind.SelectionSet, name, fragment string) (*TypeRef, error) {
	name = e.claimName(name)
	rec := &Record{Name: name, OnType: sel.OnType, Fragment: fragment}
	e.graph.Records = append(e.graph.Records, rec)
	fields, err := e.emitFields(sel.Fields, name)
	if err != nil {
		return nil, err
	}
	rec.Fields = fields
	return &TypeRef{Kind: RefRecord, Name: name}, nil
}

func (e *emitter) emitVariant(sel *bind.SelectionSet, name string) (*TypeRef, error) {
	name = e.claimName(name)
	v := &Variant{
		Name:         name,
		OnType:       sel.OnType,
		Discriminant: "__typename",
		Fallback:     e.claimName(fallbackName(name)),
	}
	e.graph.Variants = append(e.graph.Variants, v)

	common, err := e.emitFields(sel.Fields, name)
	if err != nil {
		return nil, err
	}
	v.Common = common

	for _, branch := range sel.Branches {
		var ref *TypeRef
		if branch.FragmentName != "" {
			ref, err = e.emitFragment(branch.FragmentName)
		} else {
			ref, err = e.emitSelection(branch.Selections, branchName(name, branch.TypeCondition))
		}
		if err != nil {
			return nil, err
		}
		v.Alternatives = append(v.Alternatives, &Alternative{
			TypeName: branch.TypeCondition,
			Type:     ref,
		})
	}
	return &TypeRef{Kind: RefVariant, Name: name}, nil
}

// emitFragment emits a fragment's shape exactly once; every branch that
// spreads the fragment references the same shape.
func (e *emitter) emitFragment(name string) (*TypeRef, error) {
	if ref, ok := e.frags[name]; ok {
		return ref, nil
	}
	sel := e.fragSets[name]
	shapeName := exportName(name)
	var ref *TypeRef
	var err error
	if len(sel.Branches) > 0 || sel.NeedsTypename {
		ref, err = e.emitVariant(sel, shapeName)
	} else {
		ref, err = e.emitRecord(sel, shapeName, name)
	}
	if err != nil {
		return nil, err
	}
	e.frags[name] = ref
	return ref, nil
}

func (e *emitter) emitFields(fields []*bind.Field, parent string) ([]*RecordField, error) {
	out := make([]*RecordField, 0, len(fields))
	for _, f := range fields {
		ref, err := e.outputType(f.Def.Type, f.Selections, composeName(parent, f.Alias))
		if err != nil {
			return nil, err
		}
		out = append(out, &RecordField{
			Name:              f.Alias,
			FieldName:         f.Name,
			Type:              ref,
			Required:          ref.NonNull && !f.Conditional,
			Deprecated:        f.Deprecated,
			DeprecationReason: f.Def.DeprecationReason,
		})
	}
	return out, nil
}

// outputType maps one schema type reference to a graph reference,
// recursing through non-null and list wrappers down to the named type.
func (e *emitter) outputType(ref *schema.TypeRef, sel *bind.SelectionSet, name string) (*TypeRef, error) {
	switch ref.Kind {
	case schema.TypeRefKindNonNull:
		inner, err := e.outputType(ref.OfType, sel, name)
		if err != nil {
			return nil, err
		}
		inner.NonNull = true
		return inner, nil
	case schema.TypeRefKindList:
		elem, err := e.outputType(ref.OfType, sel, name)
		if err != nil {
			return nil, err
		}
		return &TypeRef{Kind: RefList, Elem: elem}, nil
	}

	t := e.schema.Types[ref.Named]
	switch {
	case t == nil:
		return nil, &EmitError{Kind: ErrUnresolvedScalar, Message: fmt.Sprintf("type %q is not declared", ref.Named)}
	case t.IsComposite():
		return e.emitSelection(sel, name)
	case t.Kind == schema.TypeKindEnum:
		return e.emitEnum(t)
	default:
		return e.emitScalar(t)
	}
}

func (e *emitter) emitEnum(t *schema.Type) (*TypeRef, error) {
	if !e.enums[t.Name] {
		e.enums[t.Name] = true
		enum := &Enum{Name: t.Name, Other: "Other"}
		for _, v := range t.EnumValues {
			enum.Values = append(enum.Values, &EnumValue{
				Name:              v.Name,
				Deprecated:        v.IsDeprecated,
				DeprecationReason: v.DeprecationReason,
			})
		}
		e.graph.Enums = append(e.graph.Enums, enum)
	}
	return &TypeRef{Kind: RefEnum, Name: t.Name}, nil
}

// emitScalar resolves a scalar reference. Built-in scalars pass through
// by name. Custom scalars resolve through the configured mapping; an
// unmapped custom scalar fails in closed mode and becomes an opaque
// placeholder in open mode.
func (e *emitter) emitScalar(t *schema.Type) (*TypeRef, error) {
	if !t.BuiltIn && !e.scalars[t.Name] {
		mapped, ok := e.mapping[t.Name]
		if !ok && !e.open {
			return nil, &EmitError{
				Kind:    ErrUnresolvedScalar,
				Message: fmt.Sprintf("custom scalar %q has no mapping; supply one or enable open scalars", t.Name),
			}
		}
		e.scalars[t.Name] = true
		e.graph.Scalars = append(e.graph.Scalars, &Scalar{Name: t.Name, Mapped: mapped, Opaque: !ok})
	}
	return &TypeRef{Kind: RefScalar, Name: t.Name}, nil
}

func (e *emitter) emitVariable(v *bind.Variable) (*Variable, error) {
	ref, err := e.inputType(v.Type)
	if err != nil {
		return nil, err
	}
	out := &Variable{Name: v.Name, Type: ref, Presence: variablePresence(v)}
	if v.Default != nil {
		out.Default = v.Default.String()
	}
	return out, nil
}

func variablePresence(v *bind.Variable) Presence {
	switch {
	case v.Default != nil:
		return PresenceOptional
	case v.Type.IsNonNull():
		return PresenceRequired
	default:
		return PresenceOptionalNullable
	}
}

// inputType maps a variable's declared type, emitting input object
// records and enum descriptors as they are reached.
func (e *emitter) inputType(ref *schema.TypeRef) (*TypeRef, error) {
	switch ref.Kind {
	case schema.TypeRefKindNonNull:
		inner, err := e.inputType(ref.OfType)
		if err != nil {
			return nil, err
		}
		inner.NonNull = true
		return inner, nil
	case schema.TypeRefKindList:
		elem, err := e.inputType(ref.OfType)
		if err != nil {
			return nil, err
		}
		return &TypeRef{Kind: RefList, Elem: elem}, nil
	}

	t := e.schema.Types[ref.Named]
	if t == nil {
		return nil, &EmitError{Kind: ErrUnresolvedScalar, Message: fmt.Sprintf("type %q is not declared", ref.Named)}
	}
	switch t.Kind {
	case schema.TypeKindEnum:
		return e.emitEnum(t)
	case schema.TypeKindInputObject:
		return e.emitInputObject(t)
	default:
		return e.emitScalar(t)
	}
}

// emitInputObject emits the full input record for a schema input type.
// Input records carry every declared field, not a selection, and are
// named after the schema type. The memo entry is installed before the
// fields are walked so self-referential inputs terminate.
func (e *emitter) emitInputObject(t *schema.Type) (*TypeRef, error) {
	if ref, ok := e.inputs[t.Name]; ok {
		return &TypeRef{Kind: ref.Kind, Name: ref.Name}, nil
	}
	name := e.claimName(exportName(t.Name))
	ref := &TypeRef{Kind: RefRecord, Name: name}
	e.inputs[t.Name] = ref

	rec := &Record{Name: name, OnType: t.Name}
	e.graph.Records = append(e.graph.Records, rec)
	for _, f := range t.InputFields {
		fieldRef, err := e.inputType(f.Type)
		if err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, &RecordField{
			Name:      f.Name,
			FieldName: f.Name,
			Type:      fieldRef,
			Required:  fieldRef.NonNull && !f.HasDefault(),
		})
	}
	return &TypeRef{Kind: RefRecord, Name: name}, nil
}
