package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitIssues = 1
	ExitError  = 2
	ExitConfig = 3
)

// ErrIssuesFound is returned by an audit that reported issues while
// failing on issues was requested.
var ErrIssuesFound = errors.New("issues found")

// ConfigError represents an error in configuration or command arguments.
// It is reported before any output is produced.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// WrapConfigError creates a ConfigError whose message is err's text.
func WrapConfigError(field string, err error) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: err.Error(),
		Err:     err,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}
	if errors.Is(err, ErrIssuesFound) {
		return ExitIssues
	}
	return ExitError
}
