package bridge

import (
	"fmt"

	"github.com/pkg/errors"
)

// ProcessError means the child process exited non-zero.
type ProcessError struct {
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("python process exited with code %d: %s", e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("python process exited with code %d", e.ExitCode)
}

// EmptyOutputError means the process exited cleanly but printed nothing.
type EmptyOutputError struct {
	Stderr string
}

func (e *EmptyOutputError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("python process produced no output: %s", e.Stderr)
	}
	return "python process produced no output"
}

// ParseError means stdout was not valid JSON. Output holds a bounded prefix
// of what the process printed, for diagnostics.
type ParseError struct {
	Output string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse python output: %s", e.Output)
}

// ServiceError is a structured failure the service itself reported inside
// its JSON envelope ({"success": false, ...}). RateLimited is propagated
// untouched from the upstream source so callers can decide cache policy.
type ServiceError struct {
	Service     string
	Message     string
	RateLimited bool
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service error: %s", e.Service, e.Message)
}

// IsRateLimited reports whether err carries an upstream rate-limit flag.
func IsRateLimited(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.RateLimited
}
