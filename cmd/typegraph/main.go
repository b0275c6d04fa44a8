package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	typegraph "github.com/hanpama/typegraph"
	"github.com/hanpama/typegraph/internal/eventbus"
	"github.com/hanpama/typegraph/internal/otel"
)

const rootUsage = `typegraph — GraphQL operation → typed data model compiler

USAGE:
  typegraph <command> [flags]

COMMANDS:
  compile          Compile an operation into its type graph (JSON)
  request          Build the request payload for an operation
  help             Show help for any command
`

const compileUsage = `compile FLAGS:
  -schema <file>            GraphQL schema: SDL, or introspection JSON
                            when the file ends in .json (required)
  -doc <file>               Operation document. Repeatable; at least one
                            required. All documents share one namespace.
  -operation <name>         Operation to compile. Required when the
                            documents declare more than one operation.
  -deprecated <mode>        Deprecation policy: allow, warn or deny
                            (default: warn)
  -scalar <Name=Type>       Map a custom scalar to an external type
                            reference. Repeatable.
  -open-scalars             Emit unmapped custom scalars as opaque
                            placeholders instead of failing
  -derive <capability>      Extra capability the emitted types must
                            support, passed through opaquely. Repeatable.
  -out <file>               Write graph JSON to file (default: stdout)
  -otel.endpoint <addr>     OTLP collector endpoint
  -otel.service <name>      OpenTelemetry service name (default: typegraph)
`

const requestUsage = `request FLAGS:
  (all compile flags, plus)
  -var <name=json>          Variable value as a JSON literal. Use
                            -var name=null for an explicit null.
                            Repeatable.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("typegraph", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "compile":
		return cmdCompile(cmdArgs)
	case "request":
		return cmdRequest(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "compile":
		fmt.Print(compileUsage)
	case "request":
		fmt.Print(requestUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type mappingFlag struct {
	m map[string]string
}

func (f *mappingFlag) String() string { return "" }

func (f *mappingFlag) Set(v string) error {
	parts := strings.SplitN(v, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid mapping %q", v)
	}
	name := strings.TrimSpace(parts[0])
	target := strings.TrimSpace(parts[1])
	if name == "" || target == "" {
		return fmt.Errorf("invalid mapping %q", v)
	}
	if f.m == nil {
		f.m = map[string]string{}
	}
	f.m[name] = target
	return nil
}

type varFlag struct {
	m map[string]any
}

func (f *varFlag) String() string { return "" }

func (f *varFlag) Set(v string) error {
	parts := strings.SplitN(v, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid variable %q", v)
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return fmt.Errorf("invalid variable %q", v)
	}
	if f.m == nil {
		f.m = map[string]any{}
	}
	if strings.TrimSpace(parts[1]) == "null" {
		f.m[name] = typegraph.Null
		return nil
	}
	var value any
	if err := json.Unmarshal([]byte(parts[1]), &value); err != nil {
		return fmt.Errorf("variable %q: %w", name, err)
	}
	f.m[name] = value
	return nil
}

// compileFlags holds the flags shared by compile and request.
type compileFlags struct {
	schemaFile   string
	docs         stringListFlag
	operation    string
	deprecated   string
	scalars      mappingFlag
	openScalars  bool
	derives      stringListFlag
	outFile      string
	otelEndpoint string
	otelService  string
}

func (c *compileFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.schemaFile, "schema", "", "GraphQL schema file")
	fs.Var(&c.docs, "doc", "Operation document file")
	fs.StringVar(&c.operation, "operation", "", "Operation to compile")
	fs.StringVar(&c.deprecated, "deprecated", "", "Deprecation policy")
	fs.Var(&c.scalars, "scalar", "Custom scalar mapping")
	fs.BoolVar(&c.openScalars, "open-scalars", false, "Emit unmapped scalars as placeholders")
	fs.Var(&c.derives, "derive", "Extra derive capability")
	fs.StringVar(&c.outFile, "out", "", "Output file")
	fs.StringVar(&c.otelEndpoint, "otel.endpoint", "", "OTLP collector endpoint")
	fs.StringVar(&c.otelService, "otel.service", "typegraph", "OpenTelemetry service name")
}

func (c *compileFlags) generate() (*typegraph.Graph, error) {
	if c.schemaFile == "" {
		return nil, fmt.Errorf("-schema is required")
	}
	if len(c.docs) == 0 {
		return nil, fmt.Errorf("at least one -doc is required")
	}

	sch, err := loadSchema(c.schemaFile)
	if err != nil {
		return nil, err
	}
	cfg := typegraph.Config{
		OperationName: c.operation,
		Deprecated:    c.deprecated,
		ScalarMapping: c.scalars.m,
		OpenScalars:   c.openScalars,
		ExtraDerives:  c.derives,
	}
	for _, path := range c.docs {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Documents = append(cfg.Documents, typegraph.Document{Name: path, Content: string(content)})
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(c.otelEndpoint, c.otelService)
	if err != nil {
		return nil, fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	return typegraph.Generate(context.Background(), sch, cfg)
}

func loadSchema(path string) (*typegraph.Schema, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".json") {
		return typegraph.LoadSchemaIntrospection(content)
	}
	return typegraph.LoadSchemaSDL(path, string(content))
}

func cmdCompile(args []string) error {
	var c compileFlags
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileUsage)
		return err
	}

	graph, err := c.generate()
	if err != nil {
		return err
	}
	return writeJSON(c.outFile, graph)
}

func cmdRequest(args []string) error {
	var c compileFlags
	var vars varFlag
	fs := flag.NewFlagSet("request", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	c.register(fs)
	fs.Var(&vars, "var", "Variable value as JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, requestUsage)
		return err
	}

	graph, err := c.generate()
	if err != nil {
		return err
	}
	req, err := typegraph.BuildRequest(graph, vars.m)
	if err != nil {
		return err
	}
	return writeJSON(c.outFile, req)
}

func writeJSON(outFile string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if outFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outFile, data, 0644)
}
