package conf

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/easybuilders/ebconf/internal/repository"
)

// InstallKind selects one of the two install paths.
type InstallKind int

const (
	Software InstallKind = iota
	Modules
)

func (k InstallKind) String() string {
	switch k {
	case Software:
		return "software"
	case Modules:
		return "modules"
	default:
		return fmt.Sprintf("InstallKind(%d)", int(k))
	}
}

// InstallPathFor returns the software or modules install path.
func (c Config) InstallPathFor(kind InstallKind) string {
	if kind == Modules {
		return c.InstallPathModules
	}
	return c.InstallPathSoftware
}

// LogFileFormat returns the directory template when returnDirectory is
// true, the filename template otherwise.
func (c Config) LogFileFormat(returnDirectory bool) string {
	if returnDirectory {
		return c.LogFormat.Dir
	}
	return c.LogFormat.File
}

// Repository constructs the configured repository at RepositoryPath.
func (c Config) Repository() (repository.Repository, error) {
	return repository.New(c.RepositoryType, c.RepositoryPath)
}

// The process-wide store. Callers that re-initialize from several
// goroutines must serialize Init and Reset themselves.
var (
	mu      sync.RWMutex
	current *Config
)

// Init resolves the configuration from opts and a fresh snapshot of the
// process environment, stores it, and returns the legacy configuration file
// that was used (empty for none).
func Init(opts Options) (string, error) {
	return InitWith(opts, ReadEnviron())
}

// InitWith is Init with an explicit environment snapshot. On error the
// store is left uninitialized.
func InitWith(opts Options, env Environ) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	current = nil
	resolved, err := Resolve(opts, env)
	if err != nil {
		return "", err
	}
	current = &resolved
	slog.Debug("configuration initialized", "config_file", resolved.ConfigFileUsed)

	return resolved.ConfigFileUsed, nil
}

// Reset discards the stored snapshot.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = nil
}

// Current returns a copy of the stored snapshot.
func Current() (Config, error) {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return Config{}, ErrNotInitialized
	}
	return *current, nil
}

// BuildPath returns the resolved build path.
func BuildPath() (string, error) {
	c, err := Current()
	return c.BuildPath, err
}

// SourcePath returns the resolved source path.
func SourcePath() (string, error) {
	c, err := Current()
	return c.SourcePath, err
}

// InstallPath returns the resolved install path for kind.
func InstallPath(kind InstallKind) (string, error) {
	c, err := Current()
	if err != nil {
		return "", err
	}
	return c.InstallPathFor(kind), nil
}

// GetRepository constructs the configured repository.
func GetRepository() (repository.Repository, error) {
	c, err := Current()
	if err != nil {
		return nil, err
	}
	return c.Repository()
}

// LogFileFormat returns the configured log directory or filename template.
func LogFileFormat(returnDirectory bool) (string, error) {
	c, err := Current()
	if err != nil {
		return "", err
	}
	return c.LogFileFormat(returnDirectory), nil
}

// GetBuildLogPath returns the directory build logs are written to.
func GetBuildLogPath() (string, error) {
	c, err := Current()
	return c.BuildLogDir, err
}
