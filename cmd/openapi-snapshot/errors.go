package cmd

import "errors"

// Static errors for required configuration.
var (
	ErrSchemaFileRequired = errors.New("schema file is required: set --schema-file or SNAPSHOT_SCHEMA_FILE")
	ErrProjectRequired    = errors.New("project is required: set --project or SNAPSHOT_PROJECT")
	ErrEndpointRequired   = errors.New("endpoint is required: set --endpoint or SNAPSHOT_ENDPOINT")
	ErrSchemaNotJSON      = errors.New("schema file is not valid JSON")
)

// exitError wraps an error with a process exit code.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// ExitCode returns the process exit code for this error.
func (e *exitError) ExitCode() int { return e.code }

func newExitError(err error, code int) *exitError {
	return &exitError{err: err, code: code}
}
