package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/bolsinho/bolsinho/configs"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// writeScript drops a shell script in place of a service CLI. Tests run
// the bridge with /bin/sh as the interpreter so no Python is needed.
func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
}

func testRunner(t *testing.T, scriptBody string) *Runner {
	t.Helper()
	dir := t.TempDir()
	writeScript(t, dir, "stock_cli.py", scriptBody)
	return NewRunner(configs.BridgeConfig{PythonBin: "/bin/sh", ScriptsDir: dir}, testLogger())
}

func TestInvokeReturnsJSON(t *testing.T) {
	r := testRunner(t, `echo '{"ticker":"PETR4","current_price":38.5}'`)

	raw, err := r.Invoke(context.Background(), "stock", "get_stock_info", []any{"PETR4"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Invalid JSON returned: %v", err)
	}
	if decoded["ticker"] != "PETR4" {
		t.Errorf("Unexpected payload: %v", decoded)
	}
}

func TestInvokePassesMethodAndArgs(t *testing.T) {
	// The script echoes its request argument back, so the decoded reply
	// is the request the runner built.
	r := testRunner(t, `echo "$1"`)

	raw, err := r.Invoke(context.Background(), "stock", "get_stock_info", []any{"PETR4", "1d"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	var req struct {
		Method string `json:"method"`
		Args   []any  `json:"args"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		t.Fatalf("Request was not valid JSON: %v", err)
	}
	if req.Method != "get_stock_info" {
		t.Errorf("Expected method get_stock_info, got %q", req.Method)
	}
	if len(req.Args) != 2 || req.Args[0] != "PETR4" {
		t.Errorf("Unexpected args: %v", req.Args)
	}
}

func TestInvokeNilArgsEncodeAsEmptyList(t *testing.T) {
	r := testRunner(t, `echo "$1"`)

	raw, err := r.Invoke(context.Background(), "stock", "ping", nil)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	var req struct {
		Args json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		t.Fatalf("Request was not valid JSON: %v", err)
	}
	if string(req.Args) != "[]" {
		t.Errorf("Expected args encoded as [], got %s", req.Args)
	}
}

func TestInvokeProcessFailure(t *testing.T) {
	r := testRunner(t, "echo boom >&2\nexit 1")

	_, err := r.Invoke(context.Background(), "stock", "get_stock_info", []any{"PETR4"})
	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("Expected ProcessError, got %v", err)
	}
	if procErr.ExitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", procErr.ExitCode)
	}
	if procErr.Stderr != "boom" {
		t.Errorf("Expected stderr captured, got %q", procErr.Stderr)
	}
}

func TestInvokeEmptyOutput(t *testing.T) {
	r := testRunner(t, "exit 0")

	_, err := r.Invoke(context.Background(), "stock", "get_stock_info", []any{"PETR4"})
	var emptyErr *EmptyOutputError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("Expected EmptyOutputError, got %v", err)
	}
}

func TestInvokeUnparseableOutput(t *testing.T) {
	r := testRunner(t, `echo "Traceback (most recent call last): something broke"`)

	_, err := r.Invoke(context.Background(), "stock", "get_stock_info", []any{"PETR4"})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected ParseError, got %v", err)
	}
	if parseErr.Output == "" {
		t.Error("Expected the output prefix preserved for diagnostics")
	}
}

func TestCheckEnvelopeFailure(t *testing.T) {
	raw := json.RawMessage(`{"success":false,"error":"ticker not found"}`)

	err := checkEnvelope("stock", raw)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("Expected ServiceError, got %v", err)
	}
	if svcErr.Message != "ticker not found" {
		t.Errorf("Unexpected message: %q", svcErr.Message)
	}
	if svcErr.RateLimited {
		t.Error("Rate limited must default to false")
	}
}

func TestCheckEnvelopeRateLimited(t *testing.T) {
	raw := json.RawMessage(`{"success":false,"error":"too many requests","rate_limited":true}`)

	err := checkEnvelope("stock", raw)
	if !IsRateLimited(err) {
		t.Error("Expected the rate limit flag to propagate")
	}
}

func TestCheckEnvelopePlainPayloadPasses(t *testing.T) {
	for _, raw := range []string{
		`{"ticker":"PETR4","current_price":38.5}`,
		`["a","b"]`,
		`"bare string"`,
		`{"success":true,"data":{}}`,
	} {
		if err := checkEnvelope("stock", json.RawMessage(raw)); err != nil {
			t.Errorf("Payload %s must pass the envelope check, got %v", raw, err)
		}
	}
}

func TestScriptPathFallback(t *testing.T) {
	r := NewRunner(configs.BridgeConfig{ScriptsDir: "services"}, testLogger())

	if got := r.scriptPath("stock"); got != filepath.Join("services", "stock_cli.py") {
		t.Errorf("Unexpected mapped path: %q", got)
	}
	if got := r.scriptPath("weather"); got != filepath.Join("services", "weather_cli.py") {
		t.Errorf("Unexpected fallback path: %q", got)
	}
}
