package typegraph

import (
	"context"
	"time"

	bind "github.com/hanpama/typegraph/internal/bind"
	eventbus "github.com/hanpama/typegraph/internal/eventbus"
	events "github.com/hanpama/typegraph/internal/events"
	language "github.com/hanpama/typegraph/internal/language"
	runid "github.com/hanpama/typegraph/internal/runid"
	schema "github.com/hanpama/typegraph/internal/schema"
	tg "github.com/hanpama/typegraph/internal/typegraph"
)

// LoadSchemaSDL builds a Schema from SDL source text.
func LoadSchemaSDL(name, source string) (*Schema, error) {
	return schema.BuildFromSDL(name, source)
}

// LoadSchemaIntrospection builds a Schema from an introspection JSON
// response, with or without the outer {"data": ...} envelope.
func LoadSchemaIntrospection(data []byte) (*Schema, error) {
	return schema.BuildFromIntrospection(data)
}

// Generate compiles one operation from the configured document set into
// its Graph. It performs no I/O and keeps no state between calls; the
// same inputs always produce the same Graph.
func Generate(ctx context.Context, sch *Schema, cfg Config) (*Graph, error) {
	ctx, _ = runid.NewContext(ctx)
	start := time.Now()
	eventbus.Publish(ctx, events.CompileStart{
		SchemaName:    sch.QueryType,
		DocumentCount: len(cfg.Documents),
		OperationName: cfg.OperationName,
	})

	graph, err := generate(sch, cfg)

	finish := events.CompileFinish{
		OperationName: cfg.OperationName,
		Err:           err,
		Duration:      time.Since(start),
	}
	if graph != nil {
		finish.OperationName = graph.Operation
		finish.OperationType = graph.Kind
		finish.RootType = graph.RootType
		finish.Records = len(graph.Records)
		finish.Variants = len(graph.Variants)
		finish.Enums = len(graph.Enums)
	}
	eventbus.Publish(ctx, finish)
	return graph, err
}

func generate(sch *Schema, cfg Config) (*Graph, error) {
	policy, err := bind.ParsePolicy(cfg.Deprecated)
	if err != nil {
		return nil, err
	}

	sources := make([]bind.Source, len(cfg.Documents))
	for i, d := range cfg.Documents {
		sources[i] = bind.Source{Name: d.Name, Content: d.Content}
	}
	doc, err := bind.ParseDocuments(sources)
	if err != nil {
		return nil, err
	}

	opDef, err := bind.SelectOperation(doc, cfg.OperationName)
	if err != nil {
		return nil, err
	}

	op, err := bind.NewBinder(sch, doc, policy).BindOperation(opDef)
	if err != nil {
		return nil, err
	}

	graph, err := tg.Emit(sch, op, tg.Options{
		ScalarMapping: cfg.ScalarMapping,
		OpenScalars:   cfg.OpenScalars,
		ExtraDerives:  cfg.ExtraDerives,
	})
	if err != nil {
		return nil, err
	}
	graph.Query = printOperation(op)
	return graph, nil
}

// printOperation renders the selected operation plus its fragment
// closure as canonical request text.
func printOperation(op *bind.Operation) string {
	doc := &language.QueryDocument{
		Operations: language.OperationList{op.Def},
	}
	for _, frag := range op.Fragments {
		doc.Fragments = append(doc.Fragments, frag.Def)
	}
	return language.FormatQueryDocument(doc)
}
