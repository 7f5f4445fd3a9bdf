package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func echoTool(name string) llms.Tool {
	return llms.Tool{Function: &llms.FunctionDefinition{Name: name, Description: "echo"}}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	exec := func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) { return args, nil }

	require.NoError(t, r.Register(echoTool("echo"), exec))
	assert.Error(t, r.Register(echoTool("echo"), exec), "duplicate name")
	assert.Error(t, r.Register(echoTool(""), exec), "empty name")
	assert.Error(t, r.Register(llms.Tool{}, exec), "missing function")
	assert.Error(t, r.Register(echoTool("nil"), nil), "missing executor")

	defs := r.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, "echo", defs[0].Function.Name)
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(echoTool("echo"), func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		return args, nil
	})
	r.MustRegister(echoTool("broken"), func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		return nil, errors.New("boom")
	})
	ctx := context.Background()

	res := r.Dispatch(ctx, "echo", `{"a":1}`)
	assert.True(t, res.OK)
	assert.Equal(t, "echo", res.Name)
	assert.JSONEq(t, `{"a":1}`, res.Content)

	res = r.Dispatch(ctx, "echo", "")
	assert.True(t, res.OK)
	assert.JSONEq(t, `{}`, res.Content)

	res = r.Dispatch(ctx, "missing", `{}`)
	assert.False(t, res.OK)
	assert.JSONEq(t, `{"error":"unknown tool: missing"}`, res.Content)

	res = r.Dispatch(ctx, "echo", `{not json`)
	assert.False(t, res.OK)
	assert.JSONEq(t, `{"error":"Invalid tool arguments provided."}`, res.Content)

	res = r.Dispatch(ctx, "broken", `{}`)
	assert.False(t, res.OK)
	assert.JSONEq(t, `{"error":"boom"}`, res.Content)
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	exec := func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) { return args, nil }
	r.MustRegister(echoTool("echo"), exec)
	assert.Panics(t, func() { r.MustRegister(echoTool("echo"), exec) })
}
