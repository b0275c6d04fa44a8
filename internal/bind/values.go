package bind

import (
	language "github.com/hanpama/typegraph/internal/language"
	schema "github.com/hanpama/typegraph/internal/schema"
)

// varUse records one use of a variable together with the input type
// expected at that position. Uses are validated against the operation's
// declarations after binding, which lets a fragment body be bound once
// and shared by every operation that spreads it.
type varUse struct {
	name     string
	expected *schema.TypeRef
	pos      *language.Position
}

type bindCtx struct {
	uses    []varUse
	textual []varUse // uses inside pruned selections, checked for declaration only
}

func (c *bindCtx) use(name string, expected *schema.TypeRef, pos *language.Position) {
	c.uses = append(c.uses, varUse{name: name, expected: expected, pos: pos})
}

func (c *bindCtx) textualUse(name string, pos *language.Position) {
	c.textual = append(c.textual, varUse{name: name, pos: pos})
}

// recordValueVariables collects the variable references of an argument
// value, recursing through list items and input object fields.
func recordValueVariables(v *language.Value, ctx *bindCtx) {
	if v == nil {
		return
	}
	if v.Kind == language.Variable {
		ctx.textualUse(v.Raw, v.Position)
	}
	for _, child := range v.Children {
		recordValueVariables(child.Value, ctx)
	}
}

func recordDirectiveVariables(directives language.DirectiveList, ctx *bindCtx) {
	for _, d := range directives {
		for _, arg := range d.Arguments {
			recordValueVariables(arg.Value, ctx)
		}
	}
}

// typeRefFromAST converts a document type reference (as written in a
// variable definition) into the schema model's representation.
func typeRefFromAST(t *language.Type) *schema.TypeRef {
	if t == nil {
		return nil
	}
	var ref *schema.TypeRef
	if t.NamedType != "" {
		ref = schema.NamedType(t.NamedType)
	} else {
		ref = schema.ListType(typeRefFromAST(t.Elem))
	}
	if t.NonNull {
		ref = schema.NonNullType(ref)
	}
	return ref
}

// checkValue validates an argument literal against the expected input
// type. Variables are recorded for later compatibility checking instead
// of being resolved in place.
func (b *Binder) checkValue(arg string, v *language.Value, expected *schema.TypeRef, ctx *bindCtx) *Error {
	if v.Kind == language.Variable {
		ctx.use(v.Raw, expected, v.Position)
		return nil
	}
	if expected.IsNonNull() {
		if v.Kind == language.NullValue {
			return errInvalidArgumentValue(arg, expected, "null", v.Position)
		}
		return b.checkValue(arg, v, expected.Unwrap(), ctx)
	}
	if v.Kind == language.NullValue {
		return nil
	}
	if expected.Kind == schema.TypeRefKindList {
		if v.Kind == language.ListValue {
			for _, item := range v.Children {
				if err := b.checkValue(arg, item.Value, expected.OfType, ctx); err != nil {
					return err
				}
			}
			return nil
		}
		// A single value coerces to a one-item list.
		return b.checkValue(arg, v, expected.OfType, ctx)
	}

	t := b.schema.Types[expected.Named]
	if t == nil {
		return errInvalidArgument(v.Position, "argument %q references undeclared type %q", arg, expected.Named)
	}
	switch t.Kind {
	case schema.TypeKindScalar:
		return b.checkScalarValue(arg, v, t)
	case schema.TypeKindEnum:
		if v.Kind != language.EnumValue {
			return errInvalidArgumentValue(arg, expected, v.String(), v.Position)
		}
		if t.EnumValueByName(v.Raw) == nil {
			return errInvalidArgument(v.Position, "argument %q: %q is not a value of enum %s", arg, v.Raw, t.Name)
		}
		return nil
	case schema.TypeKindInputObject:
		return b.checkInputObjectValue(arg, v, t, ctx)
	default:
		return errInvalidArgument(v.Position, "argument %q: type %s is not an input type", arg, t.Name)
	}
}

func (b *Binder) checkScalarValue(arg string, v *language.Value, t *schema.Type) *Error {
	if !t.BuiltIn {
		// Custom scalar literals are opaque to the generator.
		return nil
	}
	ok := false
	switch t.Name {
	case "Int":
		ok = v.Kind == language.IntValue
	case "Float":
		ok = v.Kind == language.IntValue || v.Kind == language.FloatValue
	case "String":
		ok = v.Kind == language.StringValue || v.Kind == language.BlockValue
	case "Boolean":
		ok = v.Kind == language.BooleanValue
	case "ID":
		ok = v.Kind == language.IntValue || v.Kind == language.StringValue
	}
	if !ok {
		return errInvalidArgumentValue(arg, schema.NamedType(t.Name), v.String(), v.Position)
	}
	return nil
}

func (b *Binder) checkInputObjectValue(arg string, v *language.Value, t *schema.Type, ctx *bindCtx) *Error {
	if v.Kind != language.ObjectValue {
		return errInvalidArgumentValue(arg, schema.NamedType(t.Name), v.String(), v.Position)
	}
	seen := make(map[string]bool, len(v.Children))
	for _, child := range v.Children {
		decl := t.InputFieldByName(child.Name)
		if decl == nil {
			return errInvalidArgument(child.Position, "argument %q: field %q is not declared on input %s", arg, child.Name, t.Name)
		}
		if seen[child.Name] {
			return errInvalidArgument(child.Position, "argument %q: field %q given twice on input %s", arg, child.Name, t.Name)
		}
		seen[child.Name] = true
		if err := b.checkValue(arg, child.Value, decl.Type, ctx); err != nil {
			return err
		}
	}
	for _, decl := range t.InputFields {
		if decl.Type.IsNonNull() && !decl.HasDefault() && !seen[decl.Name] {
			return errInvalidArgument(v.Position, "argument %q: required field %q of input %s is missing", arg, decl.Name, t.Name)
		}
	}
	return nil
}

// hasNonNullDefault reports whether a declared default can substitute
// for a missing value in a non-null position. An explicit null default
// cannot: the server would still coerce null into the non-null type and
// reject the request.
func hasNonNullDefault(def *language.Value) bool {
	return def != nil && def.Kind != language.NullValue
}

// variableCompatible implements the usage-soundness rule: a variable may
// be used where its declared type is equal to or stricter than the
// expected type. A nullable variable with a non-null default may flow
// into a non-null position.
func variableCompatible(declared *schema.TypeRef, hasDefault bool, expected *schema.TypeRef) bool {
	if expected.IsNonNull() && !declared.IsNonNull() {
		if !hasDefault {
			return false
		}
		return typesCompatible(declared, expected.Unwrap())
	}
	return typesCompatible(declared, expected)
}

func typesCompatible(declared, expected *schema.TypeRef) bool {
	if expected.IsNonNull() {
		if !declared.IsNonNull() {
			return false
		}
		return typesCompatible(declared.Unwrap(), expected.Unwrap())
	}
	if declared.IsNonNull() {
		return typesCompatible(declared.Unwrap(), expected)
	}
	if expected.Kind == schema.TypeRefKindList {
		if declared.Kind != schema.TypeRefKindList {
			return false
		}
		return typesCompatible(declared.OfType, expected.OfType)
	}
	if declared.Kind == schema.TypeRefKindList {
		return false
	}
	return declared.Named == expected.Named
}

// valuesEqual reports structural equality of two argument values.
// Object fields compare by name, so field order does not matter.
func valuesEqual(a, b *language.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case language.ListValue:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !valuesEqual(a.Children[i].Value, b.Children[i].Value) {
				return false
			}
		}
		return true
	case language.ObjectValue:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for _, ca := range a.Children {
			cb := childByName(b, ca.Name)
			if cb == nil || !valuesEqual(ca.Value, cb.Value) {
				return false
			}
		}
		return true
	default:
		return a.Raw == b.Raw
	}
}

func childByName(v *language.Value, name string) *language.ChildValue {
	for _, c := range v.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// argumentsEqual compares two argument lists by name, ignoring order.
func argumentsEqual(a, b language.ArgumentList) bool {
	if len(a) != len(b) {
		return false
	}
	for _, arg := range a {
		other := b.ForName(arg.Name)
		if other == nil || !valuesEqual(arg.Value, other.Value) {
			return false
		}
	}
	return true
}
