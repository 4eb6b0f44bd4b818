package config

import "fmt"

// Error represents a configuration value that failed its constraints
type Error struct {
	Field   string
	Tag     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Message != "":
		return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("config error: '%s' failed %s", e.Field, e.Tag)
	case e.Cause != nil:
		return fmt.Sprintf("config error: %s: %v", e.Message, e.Cause)
	default:
		return fmt.Sprintf("config error: %s", e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}
