package events

import "time"

// CompileStart is emitted when a compile run begins, before any parsing.
type CompileStart struct {
	SchemaName    string
	DocumentCount int
	OperationName string
}

// CompileFinish is emitted when a compile run ends, successfully or not.
type CompileFinish struct {
	OperationName string
	OperationType string
	RootType      string
	Records       int
	Variants      int
	Enums         int
	Err           error
	Duration      time.Duration
}
