package bind

import (
	language "github.com/hanpama/typegraph/internal/language"
)

// SelectOperation picks the operation matching the requested name. When
// the document declares exactly one operation the name is optional.
func SelectOperation(doc *language.QueryDocument, name string) (*language.OperationDefinition, error) {
	if name != "" {
		if op := doc.Operations.ForName(name); op != nil {
			return op, nil
		}
		return nil, errOperationNotFound(name, operationNames(doc))
	}
	switch len(doc.Operations) {
	case 0:
		return nil, errNoOperations()
	case 1:
		return doc.Operations[0], nil
	default:
		return nil, errAmbiguousOperation(operationNames(doc))
	}
}

func operationNames(doc *language.QueryDocument) []string {
	var names []string
	for _, op := range doc.Operations {
		if op.Name != "" {
			names = append(names, op.Name)
		}
	}
	return names
}
