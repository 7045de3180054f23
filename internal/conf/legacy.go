package conf

import (
	"os"
	"path/filepath"
)

// DefaultLegacyFile returns the default legacy configuration file location,
// ~/.easybuild/config.py.
func DefaultLegacyFile(home string) string {
	return filepath.Join(home, ".easybuild", "config.py")
}

// LocateLegacyFile returns the legacy configuration file candidate and
// whether it was named explicitly (by option or EASYBUILDCONFIG) rather than
// taken from the default location.
func LocateLegacyFile(opts Options, env Environ) (string, bool) {
	if path := firstSet(opts.ConfigFile, env.ConfigFile); path != "" {
		return path, true
	}
	home, err := env.HomeDir()
	if err != nil {
		return "", false
	}
	return DefaultLegacyFile(home), false
}

// loadLegacyFile reads and parses the legacy configuration file at path.
// A missing file is not an error: found is false and the layer contributes
// nothing.
func loadLegacyFile(path string) (dto configDTO, found bool, err error) {
	if path == "" {
		return dto, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dto, false, nil
		}
		// Existing but unreadable file should result in failure.
		return dto, false, &ConfigLoadError{Path: path, Err: err}
	}

	dto, err = parseConfigDTO(string(data))
	if err != nil {
		return dto, false, &ConfigLoadError{Path: path, Err: err}
	}

	return dto, true, nil
}
