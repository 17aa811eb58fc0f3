package tools

import (
	"errors"
	"fmt"
	"strings"
)

// ToolError wraps a failed external invocation with the command line that
// produced it. A non-zero exit fails only the current sweep iteration.
type ToolError struct {
	Tool string
	Args []string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// IsToolError reports whether err came from an external tool invocation.
func IsToolError(err error) bool {
	var te *ToolError
	return errors.As(err, &te)
}
