package session

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks static interview data the controller cannot run.
	ErrConfiguration = errors.New("interview configuration error")
	// ErrNoInterviewSelected is returned by Start when there is nothing to start.
	ErrNoInterviewSelected = errors.New("no interview selected")
)

// ConfigurationError describes why an interview could not be started.
// errors.Is(err, ErrConfiguration) holds for every ConfigurationError.
type ConfigurationError struct {
	InterviewID int
	Reason      string
	Err         error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interview %d: %s: %v", e.InterviewID, e.Reason, e.Err)
	}
	return fmt.Sprintf("interview %d: %s", e.InterviewID, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err came from malformed interview data.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
