package conf

import (
	"os"
	"strings"
)

// Legacy environment variable names.
const (
	EnvPrefix      = "EASYBUILDPREFIX"
	EnvBuildPath   = "EASYBUILDBUILDPATH"
	EnvSourcePath  = "EASYBUILDSOURCEPATH"
	EnvInstallPath = "EASYBUILDINSTALLPATH"
	EnvConfigFile  = "EASYBUILDCONFIG"
)

// Environ is a snapshot of the environment variables the resolver reads.
// Empty values are treated the same as unset ones.
type Environ struct {
	Prefix      string
	BuildPath   string
	SourcePath  string
	InstallPath string
	ConfigFile  string
	Home        string
}

// ReadEnviron takes a snapshot of the current process environment.
func ReadEnviron() Environ {
	return EnvironFrom(os.Environ())
}

// EnvironFrom builds an Environ from "KEY=value" pairs as returned by
// os.Environ. Later duplicates win.
func EnvironFrom(environ []string) Environ {
	var env Environ
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch key {
		case EnvPrefix:
			env.Prefix = value
		case EnvBuildPath:
			env.BuildPath = value
		case EnvSourcePath:
			env.SourcePath = value
		case EnvInstallPath:
			env.InstallPath = value
		case EnvConfigFile:
			env.ConfigFile = value
		case "HOME":
			env.Home = value
		}
	}
	return env
}

// HomeDir returns the home directory captured in the snapshot, falling back
// to os.UserHomeDir.
func (e Environ) HomeDir() (string, error) {
	if e.Home != "" {
		return e.Home, nil
	}
	return os.UserHomeDir()
}
