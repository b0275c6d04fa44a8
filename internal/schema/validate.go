package schema

import "sort"

// finalize computes interface possible-type sets and checks the model
// invariant: every type reference resolves to a declared named type.
// It is the last step of both builders, so SDL and introspection input
// normalize to the identical model.
func finalize(s *Schema) error {
	computePossibleTypes(s)

	for _, t := range s.Types {
		for _, f := range t.Fields {
			if err := checkRef(s, f.Type); err != nil {
				return parseErrorf("field %s.%s: %v", t.Name, f.Name, err)
			}
			for _, a := range f.Arguments {
				if err := checkRef(s, a.Type); err != nil {
					return parseErrorf("argument %s.%s(%s): %v", t.Name, f.Name, a.Name, err)
				}
			}
		}
		for _, v := range t.InputFields {
			if err := checkRef(s, v.Type); err != nil {
				return parseErrorf("input field %s.%s: %v", t.Name, v.Name, err)
			}
		}
		for _, iface := range t.Interfaces {
			it, ok := s.Types[iface]
			if !ok {
				return parseErrorf("type %q implements undeclared interface %q", t.Name, iface)
			}
			if it.Kind != TypeKindInterface {
				return parseErrorf("type %q implements %q which is not an interface", t.Name, iface)
			}
		}
		if t.Kind == TypeKindUnion {
			for _, member := range t.PossibleTypes {
				mt, ok := s.Types[member]
				if !ok {
					return parseErrorf("union %q references undeclared type %q", t.Name, member)
				}
				if mt.Kind != TypeKindObject {
					return parseErrorf("union %q member %q is not an object type", t.Name, member)
				}
			}
		}
	}
	for _, d := range s.Directives {
		for _, a := range d.Arguments {
			if err := checkRef(s, a.Type); err != nil {
				return parseErrorf("directive @%s(%s): %v", d.Name, a.Name, err)
			}
		}
	}
	if s.QueryType != "" {
		if _, ok := s.Types[s.QueryType]; !ok {
			return parseErrorf("query root type %q is not declared", s.QueryType)
		}
	}
	if s.MutationType != "" {
		if _, ok := s.Types[s.MutationType]; !ok {
			return parseErrorf("mutation root type %q is not declared", s.MutationType)
		}
	}
	if s.SubscriptionType != "" {
		if _, ok := s.Types[s.SubscriptionType]; !ok {
			return parseErrorf("subscription root type %q is not declared", s.SubscriptionType)
		}
	}
	return nil
}

func checkRef(s *Schema, ref *TypeRef) error {
	if ref == nil {
		return parseErrorf("missing type reference")
	}
	name := ref.NamedTypeName()
	if name == "" {
		return parseErrorf("unnamed type reference")
	}
	if _, ok := s.Types[name]; !ok {
		return parseErrorf("type %q is not declared", name)
	}
	return nil
}

// computePossibleTypes derives the implementer set of every interface from
// the objects' declared interfaces. Interface inheritance is propagated, so
// an object implementing a sub-interface is also a possible type of its
// super-interfaces. Sets are sorted for deterministic binding output.
func computePossibleTypes(s *Schema) {
	implementers := make(map[string]map[string]bool)
	for _, t := range s.Types {
		if t.Kind != TypeKindObject {
			continue
		}
		for _, iface := range allInterfaces(s, t) {
			if implementers[iface] == nil {
				implementers[iface] = make(map[string]bool)
			}
			implementers[iface][t.Name] = true
		}
	}
	for _, t := range s.Types {
		if t.Kind != TypeKindInterface {
			continue
		}
		names := make([]string, 0, len(implementers[t.Name]))
		for name := range implementers[t.Name] {
			names = append(names, name)
		}
		sort.Strings(names)
		t.PossibleTypes = names
	}
}

// allInterfaces returns the transitive closure of the interfaces a type
// declares.
func allInterfaces(s *Schema, t *Type) []string {
	seen := make(map[string]bool)
	var walk func(names []string)
	walk = func(names []string) {
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			if it, ok := s.Types[name]; ok {
				walk(it.Interfaces)
			}
		}
	}
	walk(t.Interfaces)
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
