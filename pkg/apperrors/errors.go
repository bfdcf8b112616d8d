package apperrors

import "errors"

var (
	// ErrEmptySQL indicates synthesis produced an empty or missing SQL
	// statement; the pipeline aborts before execution.
	ErrEmptySQL = errors.New("empty SQL statement")

	// ErrExecution indicates the data store rejected the statement.
	ErrExecution = errors.New("query execution failed")

	// ErrNoJSON indicates no JSON payload could be located in a model
	// response.
	ErrNoJSON = errors.New("no JSON object found in response")

	// ErrUnsafeHint indicates a model-supplied SQL hint failed the
	// injection screen.
	ErrUnsafeHint = errors.New("SQL hint rejected by injection screen")

	ErrNotFound = errors.New("not found")
)
