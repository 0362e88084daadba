package calendar

import (
	"errors"
	"fmt"
)

// ConfigError represents a malformed pattern, an unparsable date or an
// otherwise unusable range configuration.
type ConfigError struct {
	Op      string // "layout", "parse", "range"
	Value   string
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	switch {
	case e.Value != "" && e.Pattern != "":
		return fmt.Sprintf("calendar %s %q with pattern %q: %v", e.Op, e.Value, e.Pattern, e.Err)
	case e.Pattern != "":
		return fmt.Sprintf("calendar %s pattern %q: %v", e.Op, e.Pattern, e.Err)
	default:
		return fmt.Sprintf("calendar %s: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsPatternError returns true if the error came from an unusable pattern.
func (e *ConfigError) IsPatternError() bool {
	return e.Op == "layout"
}

// RenderError reports a failure while resolving the visual state of one
// grid cell. The cell keeps whatever it rendered last.
type RenderError struct {
	CellIndex int
	Date      string
	Err       error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render cell %d (%s): %v", e.CellIndex, e.Date, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsConfigError checks if an error is a ConfigError and returns it.
func IsConfigError(err error) (*ConfigError, bool) {
	var cfgErr *ConfigError
	ok := errors.As(err, &cfgErr)
	return cfgErr, ok
}

// IsRenderError checks if an error is a RenderError and returns it.
func IsRenderError(err error) (*RenderError, bool) {
	var renderErr *RenderError
	ok := errors.As(err, &renderErr)
	return renderErr, ok
}
