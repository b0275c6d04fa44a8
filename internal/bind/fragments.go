package bind

import (
	language "github.com/hanpama/typegraph/internal/language"
)

// FragmentClosure returns the fragment definitions the operation
// transitively depends on, in first-use order. It fails on spreads of
// undefined fragments and on fragments that spread themselves, directly
// or transitively.
func FragmentClosure(doc *language.QueryDocument, op *language.OperationDefinition) ([]*language.FragmentDefinition, error) {
	w := &closureWalker{doc: doc, state: make(map[string]int)}
	if err := w.walkSelectionSet(op.SelectionSet); err != nil {
		return nil, err
	}
	return w.closure, nil
}

const (
	fragVisiting = 1
	fragDone     = 2
)

type closureWalker struct {
	doc     *language.QueryDocument
	state   map[string]int
	closure []*language.FragmentDefinition
}

func (w *closureWalker) walkSelectionSet(set language.SelectionSet) error {
	for _, sel := range set {
		switch sel := sel.(type) {
		case *language.Field:
			if err := w.walkSelectionSet(sel.SelectionSet); err != nil {
				return err
			}
		case *language.InlineFragment:
			if err := w.walkSelectionSet(sel.SelectionSet); err != nil {
				return err
			}
		case *language.FragmentSpread:
			if err := w.walkSpread(sel); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *closureWalker) walkSpread(spread *language.FragmentSpread) error {
	switch w.state[spread.Name] {
	case fragVisiting:
		return errFragmentCycle(spread.Name, spread.Position)
	case fragDone:
		return nil
	}
	frag := w.doc.Fragments.ForName(spread.Name)
	if frag == nil {
		return errUndefinedFragment(spread.Name, spread.Position)
	}
	w.state[spread.Name] = fragVisiting
	if err := w.walkSelectionSet(frag.SelectionSet); err != nil {
		return err
	}
	w.state[spread.Name] = fragDone
	w.closure = append(w.closure, frag)
	return nil
}
