package conf

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by the store accessors before Init has
// completed, and again after Reset.
var ErrNotInitialized = errors.New("configuration not initialized")

// ConfigLoadError reports a configuration file that exists but cannot be
// parsed or contains invalid values.
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("failed to load configuration file %s: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}
