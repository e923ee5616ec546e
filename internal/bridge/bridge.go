// Package bridge spawns the Python service scripts and decodes their JSON
// responses. Each invocation is one child process; retry policy belongs to
// callers, not this layer.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bolsinho/bolsinho/configs"
)

// parseErrorPrefixLen bounds how much raw output a ParseError carries.
const parseErrorPrefixLen = 200

// serviceScripts maps logical service names to their CLI scripts.
// Unknown names fall back to the "<name>_cli.py" convention.
var serviceScripts = map[string]string{
	"stock":      "stock_cli.py",
	"news":       "news_cli.py",
	"ocr":        "ocr_cli.py",
	"calculator": "calculator_cli.py",
	"groq":       "groq_cli.py",
}

type invokeRequest struct {
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Runner executes service scripts through the configured interpreter.
type Runner struct {
	python     string
	scriptsDir string
	logger     *logrus.Entry
}

func NewRunner(cfg configs.BridgeConfig, logger *logrus.Logger) *Runner {
	return &Runner{
		python:     resolveInterpreter(cfg.PythonBin),
		scriptsDir: cfg.ScriptsDir,
		logger:     logger.WithField("component", "bridge"),
	}
}

// resolveInterpreter prefers an explicit override, then a project-local
// virtualenv when one exists on disk, then the system interpreter.
func resolveInterpreter(override string) string {
	if override != "" {
		return override
	}
	venv := filepath.Join(".venv", "bin", "python3")
	if _, err := os.Stat(venv); err == nil {
		return venv
	}
	return "python3"
}

func (r *Runner) scriptPath(service string) string {
	script, ok := serviceScripts[service]
	if !ok {
		script = service + "_cli.py"
	}
	return filepath.Join(r.scriptsDir, script)
}

// Invoke runs one service method and returns the raw JSON it printed.
// Success requires exit code 0, non-empty stdout and parseable JSON; each
// violation maps to its own typed error.
func (r *Runner) Invoke(ctx context.Context, service, method string, args []any) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	payload, err := json.Marshal(invokeRequest{Method: method, Args: args})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode bridge request")
	}

	cmd := exec.CommandContext(ctx, r.python, r.scriptPath(service), string(payload))
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.WithFields(logrus.Fields{
		"service": service,
		"method":  method,
	}).Debug("invoking python service")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ProcessError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return nil, errors.Wrapf(err, "failed to spawn %s service", service)
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return nil, &EmptyOutputError{Stderr: strings.TrimSpace(stderr.String())}
	}

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		prefix := out
		if len(prefix) > parseErrorPrefixLen {
			prefix = prefix[:parseErrorPrefixLen]
		}
		return nil, &ParseError{Output: prefix}
	}
	return raw, nil
}

// envelope is the common {"success": false, "error": ...} failure shape
// every service can report. Success is a pointer so responses without the
// field (plain data payloads) pass through untouched.
type envelope struct {
	Success     *bool  `json:"success"`
	Error       string `json:"error"`
	RateLimited bool   `json:"rate_limited"`
}

// checkEnvelope inspects a raw response for an embedded service failure.
func checkEnvelope(service string, raw json.RawMessage) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Not an object (e.g. a bare list or string) - nothing to check.
		return nil
	}
	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = "unknown error"
		}
		return &ServiceError{Service: service, Message: msg, RateLimited: env.RateLimited}
	}
	return nil
}
