package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.sr.ht/~spc/go-log"
	"github.com/google/go-cmp/cmp"

	"github.com/easybuilders/ebconf/internal/conf"
)

// isolate points HOME at a fresh directory and blanks every variable the
// command reads, so the host environment cannot leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{conf.EnvPrefix, conf.EnvBuildPath, conf.EnvSourcePath, conf.EnvInstallPath, conf.EnvConfigFile, envVar(cliConfigFiles)} {
		t.Setenv(name, "")
	}
	for _, f := range optionFlags {
		t.Setenv(envVar(f.name), "")
	}
	// An empty value would still override the flag default, so unset it;
	// t.Setenv restores the original when the test ends.
	t.Setenv("EBCONF_LOG_LEVEL", "")
	os.Unsetenv("EBCONF_LOG_LEVEL")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Cleanup(conf.Reset)
	return home
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCapture(t, args...)
	return out, err
}

// runCapture runs the command and returns what it wrote to stdout and stderr.
func runCapture(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"ebconf"}, args...))
	return out.String(), errOut.String(), err
}

func TestEnvVar(t *testing.T) {
	tests := map[string]string{
		"prefix":              "EASYBUILD_PREFIX",
		"installpath-modules": "EASYBUILD_INSTALLPATH_MODULES",
		"tmp-logdir":          "EASYBUILD_TMP_LOGDIR",
	}
	for flag, want := range tests {
		if got := envVar(flag); got != want {
			t.Errorf("envVar(%q) = %s, want %s", flag, got, want)
		}
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level    log.Level
		expected slog.Level
	}{
		{log.LevelTrace, slog.LevelDebug},
		{log.LevelDebug, slog.LevelDebug},
		{log.LevelInfo, slog.LevelInfo},
		{log.LevelWarn, slog.LevelWarn},
		{log.LevelError, slog.LevelError},
	}
	for _, tt := range tests {
		if got := slogLevel(tt.level); got != tt.expected {
			t.Errorf("slogLevel(%v) = %v, want %v", tt.level, got, tt.expected)
		}
	}
}

func TestLogLevelFlag(t *testing.T) {
	const (
		unknownKey   = "ignoring unrecognized configuration key"
		applyingFile = "applying legacy configuration file"
	)
	tests := []struct {
		level    string
		expected []string
		absent   []string
	}{
		{level: "error", absent: []string{unknownKey, applyingFile}},
		{level: "warn", expected: []string{unknownKey}, absent: []string{applyingFile}},
		{level: "info", expected: []string{unknownKey}, absent: []string{applyingFile}},
		{level: "debug", expected: []string{unknownKey, applyingFile}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			home := isolate(t)
			dir := filepath.Join(home, ".easybuild")
			if err := os.MkdirAll(dir, 0755); err != nil {
				t.Fatalf("failed to create config dir: %v", err)
			}
			content := "bogus_key = 'x'\nbuild_path = '/b'\n"
			if err := os.WriteFile(filepath.Join(dir, "config.py"), []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}

			out, errOut, err := runCapture(t, "--log-level", tt.level, "path", "build")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.TrimSpace(out); got != "/b" {
				t.Errorf("expected /b, got %s", got)
			}
			for _, msg := range tt.expected {
				if !strings.Contains(errOut, msg) {
					t.Errorf("expected stderr to contain %q, got:\n%s", msg, errOut)
				}
			}
			for _, msg := range tt.absent {
				if strings.Contains(errOut, msg) {
					t.Errorf("expected stderr not to contain %q, got:\n%s", msg, errOut)
				}
			}
		})
	}
}

func TestPathCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		env      map[string]string
		expected string
	}{
		{
			name:     "prefix flag",
			args:     []string{"--prefix", "/opt/eb", "path", "source"},
			expected: "/opt/eb/sources",
		},
		{
			name:     "legacy environment prefix",
			args:     []string{"path", "modules"},
			env:      map[string]string{conf.EnvPrefix: "/legacy"},
			expected: "/legacy/modules",
		},
		{
			name:     "new-style environment overrides legacy prefix",
			args:     []string{"path", "build"},
			env:      map[string]string{conf.EnvPrefix: "/legacy", "EASYBUILD_BUILDPATH": "/scratch"},
			expected: "/scratch",
		},
		{
			name:     "explicit software install path",
			args:     []string{"--installpath", "/apps", "--installpath-software", "/sw", "path", "software"},
			expected: "/sw",
		},
		{
			name:     "repository path",
			args:     []string{"--repositorypath", "/srv/repo", "path", "repository"},
			expected: "/srv/repo",
		},
		{
			name:     "build log directory",
			args:     []string{"--tmp-logdir", "/var/log/eb", "path", "buildlog"},
			expected: "/var/log/eb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestPathCommand_UnknownKind(t *testing.T) {
	isolate(t)
	if _, err := run(t, "path", "bin"); err == nil {
		t.Error("expected error but got none")
	}
}

func TestShowCommand_Text(t *testing.T) {
	home := isolate(t)

	out, err := run(t, "show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := filepath.Join(home, ".local", "easybuild")
	for _, line := range []string{
		"build_path=" + filepath.Join(root, "build"),
		"install_path_modules=" + filepath.Join(root, "modules"),
		"repository=FileRepository",
		"config_file=",
	} {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("expected output to contain %q, got:\n%s", line, out)
		}
	}
}

func TestShowCommand_TOMLRoundTrip(t *testing.T) {
	home := isolate(t)

	out, err := run(t, "--prefix", "/opt/eb", "--logfile-format", "%(name)s.log", "show", "--format", "toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := conf.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(home, "dumped.py")
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		t.Fatalf("failed to write dumped config: %v", err)
	}
	got, err := conf.Resolve(conf.Options{ConfigFile: path}, conf.Environ{Home: home})
	if err != nil {
		t.Fatalf("dumped config does not load: %v", err)
	}
	want.ConfigFileUsed = path
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigFilesFlag(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "eb.cfg")
	if err := os.WriteFile(path, []byte("[config]\nprefix = /from/file\nbuildpath = /file/build\n"), 0644); err != nil {
		t.Fatalf("failed to write options file: %v", err)
	}

	out, err := run(t, "--configfiles", path, "--buildpath", "/flag/build", "path", "build")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(out); got != "/flag/build" {
		t.Errorf("expected /flag/build, got %s", got)
	}

	out, err = run(t, "--configfiles", path, "path", "source")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(out); got != "/from/file/sources" {
		t.Errorf("expected /from/file/sources, got %s", got)
	}
}

func TestLogfileCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "--tmp-logdir", "/logs", "--logfile-format-dir", "eb", "--logfile-format", "%(name)s-%(version)s.log",
		"logfile", "--name", "GCC", "--version", "4.7.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(out); got != "/logs/eb/GCC-4.7.2.log" {
		t.Errorf("expected /logs/eb/GCC-4.7.2.log, got %s", got)
	}
}

func TestRepositoriesCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "repositories")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "FileRepository") {
		t.Errorf("expected FileRepository in output, got:\n%s", out)
	}
}
