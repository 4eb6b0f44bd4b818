// Package validation evaluates corrected cable specifications against the engineering rule battery.
package validation

import "fmt"

// ConfigError represents a rule configuration that failed its constraints
type ConfigError struct {
	Field   string
	Tag     string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid rule config: %s - %s", e.Field, e.Tag)
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid rule config: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid rule config: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
