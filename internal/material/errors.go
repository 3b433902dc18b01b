package material

import (
	"errors"
	"fmt"
)

// ConfigError reports static configuration that cannot be resolved: an
// unknown material, curve form, scenario label or coefficient name.
type ConfigError struct {
	Subject string
	Value   string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration: %s %q: %s", e.Subject, e.Value, e.Reason)
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
