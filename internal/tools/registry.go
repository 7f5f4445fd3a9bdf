// Package tools holds the functions the model may ask to run, and the
// registry that dispatches a model tool call to one of them.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// ExecutorFunc runs a tool with the raw JSON arguments supplied by the model
// and returns a JSON payload for the model to read.
type ExecutorFunc func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// Result is the outcome of dispatching one tool call. Content is always a
// JSON payload, including when OK is false.
type Result struct {
	Name    string
	Content string
	OK      bool
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// Registry maps tool names to executors. It is built once at start-up and
// only read afterwards.
type Registry struct {
	definitions []llms.Tool
	executors   map[string]ExecutorFunc
}

func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]ExecutorFunc),
	}
}

// Register adds a tool definition and its executor.
func (r *Registry) Register(def llms.Tool, exec ExecutorFunc) error {
	if def.Function == nil || def.Function.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if exec == nil {
		return fmt.Errorf("executor is required")
	}
	name := def.Function.Name
	if _, exists := r.executors[name]; exists {
		return fmt.Errorf("executor already registered for %s", name)
	}
	if def.Type == "" {
		def.Type = "function"
	}
	r.definitions = append(r.definitions, def)
	r.executors[name] = exec
	return nil
}

// MustRegister adds a tool or panics.
func (r *Registry) MustRegister(def llms.Tool, exec ExecutorFunc) {
	if err := r.Register(def, exec); err != nil {
		panic(err)
	}
}

// Definitions returns the tool schemas in registration order.
func (r *Registry) Definitions() []llms.Tool {
	defs := make([]llms.Tool, len(r.definitions))
	copy(defs, r.definitions)
	return defs
}

// Dispatch runs the named tool. Unknown tools, malformed arguments and
// executor errors all come back as an error payload rather than a Go error,
// so the caller can hand the result to the model either way.
func (r *Registry) Dispatch(ctx context.Context, name, rawArgs string) Result {
	exec, ok := r.executors[name]
	if !ok {
		return failed(name, fmt.Sprintf("unknown tool: %s", name))
	}

	args := json.RawMessage(strings.TrimSpace(rawArgs))
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	if !json.Valid(args) {
		return failed(name, "Invalid tool arguments provided.")
	}

	out, err := exec(ctx, args)
	if err != nil {
		return failed(name, err.Error())
	}
	return Result{Name: name, Content: string(out), OK: true}
}

func failed(name, msg string) Result {
	return Result{Name: name, Content: string(errorPayload(msg)), OK: false}
}

func errorPayload(msg string) json.RawMessage {
	out, _ := json.Marshal(ErrorPayload{Error: msg})
	return out
}
