package typegraph

import (
	"fmt"
)

// Null marks a variable as explicitly null. Omitting a variable from the
// values map means "not provided", which is a distinct state for
// nullable variables without defaults.
var Null = null{}

type null struct{}

// Request is the serializable payload for one operation. It carries no
// transport concerns; callers marshal and send it however they like.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// BuildRequest assembles the request payload for a compiled graph.
// Every supplied value must match a declared variable, every required
// variable must be supplied, and Null values pass through as JSON null.
func BuildRequest(g *Graph, values map[string]any) (*Request, error) {
	declared := make(map[string]*Variable, len(g.Variables))
	for _, v := range g.Variables {
		declared[v.Name] = v
	}
	for name := range values {
		if declared[name] == nil {
			return nil, fmt.Errorf("typegraph: variable $%s is not declared by operation %q", name, g.Operation)
		}
	}

	var out map[string]any
	for _, v := range g.Variables {
		value, supplied := values[v.Name]
		if !supplied {
			if v.Presence == PresenceRequired {
				return nil, fmt.Errorf("typegraph: required variable $%s is missing", v.Name)
			}
			continue
		}
		if value == Null {
			if v.Presence == PresenceRequired {
				return nil, fmt.Errorf("typegraph: required variable $%s cannot be null", v.Name)
			}
			value = nil
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[v.Name] = value
	}

	return &Request{
		Query:         g.Query,
		OperationName: g.Operation,
		Variables:     out,
	}, nil
}
