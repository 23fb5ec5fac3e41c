package grid

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is reported when the store has no data for a request.
var ErrDataUnavailable = errors.New("data unavailable")

// ConfigurationError marks an integrator mistake, such as a row activation
// without a callable handler. It is never recovered.
type ConfigurationError struct {
	Component string
	Field     string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("grid configuration: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("grid %s configuration: %s: %s", e.Component, e.Field, e.Reason)
}

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
