package conf

import (
	"fmt"
	"os"
	"strings"

	"git.sr.ht/~spc/go-ini"
)

// Options holds explicitly supplied configuration values, typically parsed
// from the command line. Empty fields are not set.
type Options struct {
	Prefix              string
	BuildPath           string
	SourcePath          string
	InstallPath         string
	InstallPathSoftware string
	InstallPathModules  string
	RepositoryPath      string
	Repository          string
	LogFormatDir        string
	LogFormatFile       string
	TmpLogDir           string
	ConfigFile          string
}

// Update overlays the set fields of other onto o.
func (o *Options) Update(other Options) {
	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&o.Prefix, other.Prefix)
	overlay(&o.BuildPath, other.BuildPath)
	overlay(&o.SourcePath, other.SourcePath)
	overlay(&o.InstallPath, other.InstallPath)
	overlay(&o.InstallPathSoftware, other.InstallPathSoftware)
	overlay(&o.InstallPathModules, other.InstallPathModules)
	overlay(&o.RepositoryPath, other.RepositoryPath)
	overlay(&o.Repository, other.Repository)
	overlay(&o.LogFormatDir, other.LogFormatDir)
	overlay(&o.LogFormatFile, other.LogFormatFile)
	overlay(&o.TmpLogDir, other.TmpLogDir)
	overlay(&o.ConfigFile, other.ConfigFile)
}

type optionsFile struct {
	Config optionsSection `ini:"config"`
}

type optionsSection struct {
	Prefix              string `ini:"prefix"`
	BuildPath           string `ini:"buildpath"`
	SourcePath          string `ini:"sourcepath"`
	InstallPath         string `ini:"installpath"`
	InstallPathSoftware string `ini:"installpath-software"`
	InstallPathModules  string `ini:"installpath-modules"`
	RepositoryPath      string `ini:"repositorypath"`
	Repository          string `ini:"repository"`
	LogFormatDir        string `ini:"logfile-format-dir"`
	LogFormatFile       string `ini:"logfile-format"`
	TmpLogDir           string `ini:"tmp-logdir"`
	ConfigFile          string `ini:"config"`
}

// normalizeINI trims the whitespace around keys and values, which go-ini
// would otherwise keep as part of the key, and reports whether a [config]
// section is present. go-ini panics decoding a struct section that is
// missing, so callers must not unmarshal without one.
func normalizeINI(data []byte) ([]byte, bool) {
	lines := strings.Split(string(data), "\n")
	hasConfig := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";"):
			lines[i] = trimmed
		case strings.HasPrefix(trimmed, "["):
			name := strings.TrimSpace(strings.Trim(trimmed, "[]"))
			if name == "config" {
				hasConfig = true
			}
			lines[i] = "[" + name + "]"
		default:
			key, value, ok := strings.Cut(trimmed, "=")
			if !ok {
				lines[i] = trimmed
				continue
			}
			lines[i] = strings.TrimSpace(key) + "=" + strings.TrimSpace(value)
		}
	}
	return []byte(strings.Join(lines, "\n")), hasConfig
}

// parseOptionsFile parses the [config] section of an INI options file. A
// file without that section contributes nothing.
func parseOptionsFile(data []byte) (Options, error) {
	data, hasConfig := normalizeINI(data)
	if !hasConfig {
		return Options{}, nil
	}

	var f optionsFile
	opts := ini.Options{AllowNumberSignComments: true, AllowEmptyValues: true}
	if err := ini.UnmarshalWithOptions(data, &f, opts); err != nil {
		return Options{}, fmt.Errorf("failed to parse INI: %w", err)
	}
	s := f.Config
	return Options{
		Prefix:              s.Prefix,
		BuildPath:           s.BuildPath,
		SourcePath:          s.SourcePath,
		InstallPath:         s.InstallPath,
		InstallPathSoftware: s.InstallPathSoftware,
		InstallPathModules:  s.InstallPathModules,
		RepositoryPath:      s.RepositoryPath,
		Repository:          s.Repository,
		LogFormatDir:        s.LogFormatDir,
		LogFormatFile:       s.LogFormatFile,
		TmpLogDir:           s.TmpLogDir,
		ConfigFile:          s.ConfigFile,
	}, nil
}

// ReadOptionsFile loads option values from the [config] section of an INI
// file. Unlike the legacy file, an options file is always named explicitly,
// so a missing file is an error.
func ReadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options file %s: %w", path, err)
	}
	opts, err := parseOptionsFile(data)
	if err != nil {
		return Options{}, &ConfigLoadError{Path: path, Err: err}
	}
	return opts, nil
}
