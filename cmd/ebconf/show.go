package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"git.sr.ht/~spc/go-log"
	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/easybuilders/ebconf/internal/conf"
	"github.com/easybuilders/ebconf/internal/l10n"
	"github.com/easybuilders/ebconf/internal/repository"
)

const (
	formatText = "text"
	formatTOML = "toml"
)

type entry struct {
	key   string
	value string
}

func entries(c conf.Config) []entry {
	return []entry{
		{"build_path", c.BuildPath},
		{"source_path", c.SourcePath},
		{"install_path", c.InstallPath},
		{"install_path_software", c.InstallPathSoftware},
		{"install_path_modules", c.InstallPathModules},
		{"repository_path", c.RepositoryPath},
		{"repository", c.RepositoryType},
		{"log_format_dir", c.LogFormat.Dir},
		{"log_format_file", c.LogFormat.File},
		{"log_dir", c.BuildLogDir},
		{"software_install_suffix", c.SoftwareSuffix},
		{"modules_install_suffix", c.ModulesSuffix},
		{"config_file", c.ConfigFileUsed},
	}
}

// legacyFile mirrors the keys of the legacy configuration file, so the
// toml output can be loaded back with --config.
type legacyFile struct {
	BuildPath      string   `toml:"build_path"`
	SourcePath     string   `toml:"source_path"`
	InstallPath    string   `toml:"install_path"`
	RepositoryPath string   `toml:"repository_path"`
	Repository     string   `toml:"repository"`
	LogFormat      []string `toml:"log_format"`
	LogDir         string   `toml:"log_dir"`
	SoftwareSuffix string   `toml:"software_install_suffix"`
	ModulesSuffix  string   `toml:"modules_install_suffix"`
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeText(w io.Writer, c conf.Config) error {
	if isTerminal(w) {
		return writeTable(w, c)
	}
	for _, e := range entries(c) {
		if _, err := fmt.Fprintf(w, "%s=%s\n", e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}

// writeTable aligns the entries for a human reader.
func writeTable(w io.Writer, c conf.Config) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries(c) {
		value := e.value
		if value == "" {
			value = l10n.T("(none)")
		}
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", e.key, value); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeTOML(w io.Writer, c conf.Config) error {
	return toml.NewEncoder(w).Encode(legacyFile{
		BuildPath:      c.BuildPath,
		SourcePath:     c.SourcePath,
		InstallPath:    c.InstallPath,
		RepositoryPath: c.RepositoryPath,
		Repository:     c.RepositoryType,
		LogFormat:      []string{c.LogFormat.Dir, c.LogFormat.File},
		LogDir:         c.BuildLogDir,
		SoftwareSuffix: c.SoftwareSuffix,
		ModulesSuffix:  c.ModulesSuffix,
	})
}

func showAction(c *cli.Context) error {
	cfg, err := conf.Current()
	if err != nil {
		return err
	}

	switch format := c.String(cliFormat); format {
	case "", formatText:
		return writeText(c.App.Writer, cfg)
	case formatTOML:
		return writeTOML(c.App.Writer, cfg)
	default:
		return errors.New(l10n.T("unsupported format %q", format))
	}
}

func pathAction(c *cli.Context) error {
	kind := c.Args().First()

	var (
		path string
		err  error
	)
	switch kind {
	case "build":
		path, err = conf.BuildPath()
	case "source":
		path, err = conf.SourcePath()
	case "software":
		path, err = conf.InstallPath(conf.Software)
	case "modules":
		path, err = conf.InstallPath(conf.Modules)
	case "repository":
		var repo repository.Repository
		repo, err = conf.GetRepository()
		if err == nil {
			path = repo.Path()
		}
	case "buildlog":
		path, err = conf.GetBuildLogPath()
	default:
		return errors.New(l10n.T("unknown path kind %q", kind))
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.App.Writer, path)
	return err
}

func logfileAction(c *cli.Context) error {
	cfg, err := conf.Current()
	if err != nil {
		return err
	}
	path := cfg.BuildLogFile(c.String(cliName), c.String(cliVersion), time.Now())
	log.Debugf("rendered build log path %v", path)

	_, err = fmt.Fprintln(c.App.Writer, path)
	return err
}

func repositoriesAction(c *cli.Context) error {
	return writeRepositories(c.App.Writer, repository.Types())
}

func writeRepositories(w io.Writer, types []string) error {
	if _, err := fmt.Fprintln(w, l10n.TN("%d repository type", "%d repository types", uint32(len(types)), len(types))); err != nil {
		return err
	}
	for _, name := range types {
		if _, err := fmt.Fprintf(w, "  %s\n", name); err != nil {
			return err
		}
	}
	return nil
}
