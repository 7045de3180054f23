package conf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/easybuilders/ebconf/internal/repository"
)

// DefaultLogFormat is the built-in (directory, filename) log template pair.
var DefaultLogFormat = LogFormat{
	Dir:  "easybuild",
	File: "easybuild-%(name)s-%(version)s-%(date)s.%(time)s.log",
}

// Default install suffixes and repository type.
const (
	DefaultSoftwareSuffix = SoftwareDir
	DefaultModulesSuffix  = ModulesDir
	DefaultRepositoryType = repository.FileRepositoryType
)

// LogFormat holds the templates used to name build log files.
type LogFormat struct {
	Dir  string
	File string
}

// Config is a resolved configuration snapshot. It is a plain value: copies
// handed out by the store can't alter the stored snapshot.
type Config struct {
	BuildPath           string
	SourcePath          string
	InstallPath         string
	InstallPathSoftware string
	InstallPathModules  string
	RepositoryPath      string
	RepositoryType      string
	LogFormat           LogFormat
	BuildLogDir         string
	SoftwareSuffix      string
	ModulesSuffix       string

	// ConfigFileUsed is the legacy configuration file that contributed
	// values, or empty when none did.
	ConfigFileUsed string
}

// Update applies the non-nil, non-empty values from a configDTO. Install
// paths are re-derived from base and suffix whenever either changes; an
// explicit software or modules install path is applied last and wins.
func (c *Config) Update(dto configDTO) {
	set(&c.BuildPath, dto.BuildPath)
	set(&c.SourcePath, dto.SourcePath)
	set(&c.RepositoryPath, dto.RepositoryPath)
	set(&c.RepositoryType, dto.Repository)
	set(&c.LogFormat.Dir, dto.LogFormatDir)
	set(&c.LogFormat.File, dto.LogFormatFile)
	set(&c.BuildLogDir, dto.LogDir)

	software := set(&c.SoftwareSuffix, dto.SoftwareSuffix)
	modules := set(&c.ModulesSuffix, dto.ModulesSuffix)
	base := set(&c.InstallPath, dto.InstallPath)
	if base || software {
		c.InstallPathSoftware = filepath.Join(c.InstallPath, c.SoftwareSuffix)
	}
	if base || modules {
		c.InstallPathModules = filepath.Join(c.InstallPath, c.ModulesSuffix)
	}
	set(&c.InstallPathSoftware, dto.InstallPathSoftware)
	set(&c.InstallPathModules, dto.InstallPathModules)
}

// set copies v into dst when v holds a non-empty value and reports whether
// it did.
func set(dst *string, v *string) bool {
	if v == nil || *v == "" {
		return false
	}
	*dst = *v
	return true
}

// configDTO is one configuration layer. Pointer fields distinguish "not set"
// from "set". The toml tags are the keys recognized in the legacy file.
type configDTO struct {
	BuildPath      *string   `toml:"build_path"`
	SourcePath     *string   `toml:"source_path"`
	InstallPath    *string   `toml:"install_path"`
	RepositoryPath *string   `toml:"repository_path"`
	Repository     *string   `toml:"repository"`
	LogFormat      *[]string `toml:"log_format"`
	LogDir         *string   `toml:"log_dir"`
	SoftwareSuffix *string   `toml:"software_install_suffix"`
	ModulesSuffix  *string   `toml:"modules_install_suffix"`

	// Only set from options; a log_format tuple is split into these while
	// parsing.
	InstallPathSoftware *string `toml:"-"`
	InstallPathModules  *string `toml:"-"`
	LogFormatDir        *string `toml:"-"`
	LogFormatFile       *string `toml:"-"`
}

// parseConfigDTO parses a legacy configuration file body into a configDTO.
// Unrecognized keys are logged and ignored.
func parseConfigDTO(data string) (configDTO, error) {
	var dto configDTO

	md, err := toml.Decode(data, &dto)
	if err != nil {
		return dto, fmt.Errorf("failed to parse TOML: %w", err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("ignoring unrecognized configuration key", "key", key.String())
	}
	for _, v := range []struct {
		key   string
		value *string
	}{
		{"build_path", dto.BuildPath},
		{"source_path", dto.SourcePath},
		{"install_path", dto.InstallPath},
		{"repository_path", dto.RepositoryPath},
		{"repository", dto.Repository},
		{"log_dir", dto.LogDir},
		{"software_install_suffix", dto.SoftwareSuffix},
		{"modules_install_suffix", dto.ModulesSuffix},
	} {
		if v.value != nil && *v.value == "" {
			slog.Debug("ignoring empty configuration value", "key", v.key)
		}
	}

	if dto.LogFormat != nil {
		format := *dto.LogFormat
		if len(format) != 2 {
			return dto, fmt.Errorf("log_format must hold a directory and a filename template, got %d values", len(format))
		}
		dto.LogFormatDir = &format[0]
		dto.LogFormatFile = &format[1]
		dto.LogFormat = nil
	}

	if dto.Repository != nil && *dto.Repository != "" && !repository.Known(*dto.Repository) {
		return dto, fmt.Errorf("repository %q: %w", *dto.Repository, repository.ErrUnknownType)
	}

	return dto, nil
}

// defaultsDTO is the built-in layer rooted at home.
func defaultsDTO(home string) configDTO {
	paths := DefaultPaths(home)
	root := DefaultRoot(home)
	repo := DefaultRepositoryType
	software := DefaultSoftwareSuffix
	modules := DefaultModulesSuffix
	logDir := os.TempDir()
	format := DefaultLogFormat

	return configDTO{
		BuildPath:      &paths.Build,
		SourcePath:     &paths.Source,
		InstallPath:    &root,
		RepositoryPath: &paths.Repository,
		Repository:     &repo,
		LogDir:         &logDir,
		SoftwareSuffix: &software,
		ModulesSuffix:  &modules,
		LogFormatDir:   &format.Dir,
		LogFormatFile:  &format.File,
	}
}

// prefixDTO is the layer produced by a prefix. The install base is the
// prefix itself so the resolved suffixes apply beneath it.
func prefixDTO(prefix string) configDTO {
	paths := PrefixPaths(prefix)
	return configDTO{
		BuildPath:      &paths.Build,
		SourcePath:     &paths.Source,
		InstallPath:    &prefix,
		RepositoryPath: &paths.Repository,
	}
}

// Source orchestrates resolution from the options, the environment
// snapshot and the legacy configuration file. See the Read method.
type Source struct {
	Options Options
	Env     Environ
}

// Read resolves a complete Config by applying, lowest precedence first:
//  1. Built-in defaults
//  2. Legacy configuration file
//  3. Prefix (options, then EASYBUILDPREFIX)
//  4. Explicit per-path overrides (options, then legacy variables)
func (s *Source) Read() (Config, error) {
	resolved := Config{}

	home, err := s.Env.HomeDir()
	if err != nil {
		return resolved, fmt.Errorf("failed to determine home directory: %w", err)
	}
	resolved.Update(defaultsDTO(home))

	path, explicit := LocateLegacyFile(s.Options, s.Env)
	fileDTO, found, err := loadLegacyFile(path)
	if err != nil {
		return Config{}, err
	}
	if found {
		slog.Debug("applying legacy configuration file", "path", path)
		resolved.Update(fileDTO)
		resolved.ConfigFileUsed = path
	} else if explicit {
		slog.Warn("configuration file not found", "path", path)
	}

	if prefix := firstSet(s.Options.Prefix, s.Env.Prefix); prefix != "" {
		slog.Debug("applying prefix", "prefix", prefix)
		resolved.Update(prefixDTO(prefix))
	}

	resolved.Update(s.explicitDTO())

	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}

	return resolved, nil
}

// explicitDTO collects per-path overrides. Options take precedence over the
// legacy environment variables for the same slot.
func (s *Source) explicitDTO() configDTO {
	o := s.Options
	return configDTO{
		BuildPath:           ptr(firstSet(o.BuildPath, s.Env.BuildPath)),
		SourcePath:          ptr(firstSet(o.SourcePath, s.Env.SourcePath)),
		InstallPath:         ptr(firstSet(o.InstallPath, s.Env.InstallPath)),
		InstallPathSoftware: ptr(o.InstallPathSoftware),
		InstallPathModules:  ptr(o.InstallPathModules),
		RepositoryPath:      ptr(o.RepositoryPath),
		Repository:          ptr(o.Repository),
		LogFormatDir:        ptr(o.LogFormatDir),
		LogFormatFile:       ptr(o.LogFormatFile),
		LogDir:              ptr(o.TmpLogDir),
	}
}

// Resolve is a shorthand for reading a Source built from opts and env.
func Resolve(opts Options, env Environ) (Config, error) {
	s := &Source{Options: opts, Env: env}
	return s.Read()
}

// Validate checks that a repository can be built from the snapshot.
func (c Config) Validate() error {
	if !repository.Known(c.RepositoryType) {
		return fmt.Errorf("repository %q: %w", c.RepositoryType, repository.ErrUnknownType)
	}
	return nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
