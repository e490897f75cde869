package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nativefn.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestList(t *testing.T) {
	out, stderr, err := run(t, "list")
	require.NoError(t, err)

	assert.Equal(t, "factorial\t1\nsum\t2\n", out)
	assert.Contains(t, stderr, "native host ready")
}

func TestInvoke(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"direct", []string{"invoke", "sum", "2", "3"}, "5"},
		{"direct negative", []string{"invoke", "sum", "-1", "1"}, "0"},
		{"bytes", []string{"invoke", "--via", "bytes", "sum", "2", "3"}, "5"},
		{"wasm wraparound", []string{"invoke", "--via", "wasm", "sum", "2147483647", "1"}, "-2147483648"},
		{"factorial", []string{"invoke", "--via", "wasm", "factorial", "5"}, "120"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestInvoke_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown direct", []string{"invoke", "nope"}, "unknown function: nope"},
		{"unknown wasm", []string{"invoke", "--via", "wasm", "nope", "1"}, "unknown function: nope"},
		{"unknown bytes", []string{"invoke", "--via", "bytes", "nope"}, "NOT_FOUND"},
		{"arity direct", []string{"invoke", "sum", "1"}, `function "sum" takes 2 argument(s), got 1`},
		{"arity bytes", []string{"invoke", "--via", "bytes", "sum", "1"}, "ARITY_MISMATCH"},
		{"arity wasm", []string{"invoke", "--via", "wasm", "sum", "1", "2", "3"}, "takes 2 argument(s), got 3"},
		{"not an integer", []string{"invoke", "sum", "1", "x"}, `"x" is not a 32-bit integer`},
		{"out of range", []string{"invoke", "sum", "1", "2147483648"}, "is not a 32-bit integer"},
		{"bad path", []string{"invoke", "--via", "grpc", "sum", "1", "2"}, `unknown invocation path "grpc"`},
		{"missing name", []string{"invoke"}, "requires at least 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, out)
		})
	}
}

func TestInvoke_ConfigFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
log_format: json
codec: cbor
metrics:
  enabled: true
  namespace: nfn
tracing:
  enabled: true
  service_name: nativefn-cli
`)

	out, stderr, err := run(t, "--config", path, "invoke", "--via", "bytes", "sum", "20", "22")
	require.NoError(t, err)
	assert.Equal(t, "42", strings.TrimSpace(out))

	assert.Contains(t, stderr, `"msg":"function invoked"`)
	assert.Contains(t, stderr, `nfn_invocations_total{function="sum",outcome="ok"} 1`)
	assert.Contains(t, stderr, "native.sum")
	assert.Contains(t, stderr, "nativefn-cli")
}

func TestConfigErrors(t *testing.T) {
	_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")

	path := writeConfig(t, "codec: msgpack\n")
	_, _, err = run(t, "--config", path, "list")
	require.Error(t, err)

	_, _, err = run(t, "--log-level", "loud", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestSchema(t *testing.T) {
	out, _, err := run(t, "schema")
	require.NoError(t, err)

	var manifest struct {
		Functions []struct {
			Name  string `json:"name"`
			Arity int    `json:"arity"`
		} `json:"functions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &manifest))
	require.Len(t, manifest.Functions, 2)
	assert.Equal(t, "factorial", manifest.Functions[0].Name)
	assert.Equal(t, 1, manifest.Functions[0].Arity)
	assert.Equal(t, "sum", manifest.Functions[1].Name)
	assert.Equal(t, 2, manifest.Functions[1].Arity)

	out, _, err = run(t, "schema", "--request")
	require.NoError(t, err)
	assert.Contains(t, out, `"function"`)
	assert.Contains(t, out, `"args"`)
}
