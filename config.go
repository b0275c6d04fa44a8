package typegraph

// Document is one operation-document source file. Name identifies the
// file in error positions.
type Document struct {
	Name    string
	Content string
}

// Config configures one compile run.
type Config struct {
	// Documents are the operation sources compiled as one set. Operation
	// and fragment names each share a single namespace across all of them.
	Documents []Document

	// OperationName selects the operation to compile. It may be empty
	// only when the document set declares exactly one operation.
	OperationName string

	// Deprecated is the deprecation policy: "allow", "warn" or "deny".
	// Empty means "warn".
	Deprecated string

	// ScalarMapping resolves custom scalar names to external type
	// references. The compiler never inspects the mapped values.
	ScalarMapping map[string]string

	// OpenScalars emits unmapped custom scalars as opaque placeholders
	// instead of failing. The default (closed) mode fails on drift.
	OpenScalars bool

	// ExtraDerives names capabilities the emitted types must support,
	// carried through to the Graph for the external code emitter.
	ExtraDerives []string
}
