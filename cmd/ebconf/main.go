package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v2"

	"github.com/easybuilders/ebconf/internal/conf"
	"github.com/easybuilders/ebconf/internal/l10n"
)

const (
	cliLogLevel    = "log-level"
	cliConfigFiles = "configfiles"
	cliFormat      = "format"
	cliName        = "name"
	cliVersion     = "version"
)

// optionFlag binds a command line flag to a field of conf.Options.
type optionFlag struct {
	name  string
	usage string
	field func(o *conf.Options) *string
}

var optionFlags = []optionFlag{
	{"prefix", "change prefix for build, source, install and repository paths", func(o *conf.Options) *string { return &o.Prefix }},
	{"buildpath", "temporary build path", func(o *conf.Options) *string { return &o.BuildPath }},
	{"sourcepath", "path to the source file cache", func(o *conf.Options) *string { return &o.SourcePath }},
	{"installpath", "install base for software and modules", func(o *conf.Options) *string { return &o.InstallPath }},
	{"installpath-software", "install path for software, overrides installpath", func(o *conf.Options) *string { return &o.InstallPathSoftware }},
	{"installpath-modules", "install path for module files, overrides installpath", func(o *conf.Options) *string { return &o.InstallPathModules }},
	{"repositorypath", "path of the easyconfig repository", func(o *conf.Options) *string { return &o.RepositoryPath }},
	{"repository", "repository type", func(o *conf.Options) *string { return &o.Repository }},
	{"logfile-format-dir", "directory template for build logs", func(o *conf.Options) *string { return &o.LogFormatDir }},
	{"logfile-format", "filename template for build logs", func(o *conf.Options) *string { return &o.LogFormatFile }},
	{"tmp-logdir", "directory build logs are written to", func(o *conf.Options) *string { return &o.TmpLogDir }},
	{"config", "legacy configuration file", func(o *conf.Options) *string { return &o.ConfigFile }},
}

// envVar returns the new-style environment variable for a flag, e.g.
// EASYBUILD_INSTALLPATH_SOFTWARE for installpath-software.
func envVar(flag string) string {
	return "EASYBUILD_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func globalFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    cliLogLevel,
			Value:   "error",
			Usage:   l10n.T("set log level to `LEVEL`"),
			EnvVars: []string{"EBCONF_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    cliConfigFiles,
			Usage:   l10n.T("read options from the [config] section of `FILE`"),
			EnvVars: []string{envVar(cliConfigFiles)},
		},
	}
	for _, f := range optionFlags {
		flags = append(flags, &cli.StringFlag{
			Name:    f.name,
			Usage:   l10n.T(f.usage),
			EnvVars: []string{envVar(f.name)},
		})
	}
	return flags
}

// optionsFromContext builds conf.Options from the options file, if any,
// overlaid with the flags that were set.
func optionsFromContext(c *cli.Context) (conf.Options, error) {
	var opts conf.Options
	if path := c.String(cliConfigFiles); path != "" {
		fileOpts, err := conf.ReadOptionsFile(path)
		if err != nil {
			return opts, err
		}
		log.Debugf("read options from %v", path)
		opts = fileOpts
	}

	var flagOpts conf.Options
	for _, f := range optionFlags {
		if c.IsSet(f.name) {
			*f.field(&flagOpts) = c.String(f.name)
		}
	}
	opts.Update(flagOpts)

	return opts, nil
}

// slogLevel maps a log level onto the level of the structured logger used
// by the conf package.
func slogLevel(level log.Level) slog.Level {
	switch level {
	case log.LevelTrace, log.LevelDebug:
		return slog.LevelDebug
	case log.LevelInfo:
		return slog.LevelInfo
	case log.LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func beforeAction(c *cli.Context) error {
	level, err := log.ParseLevel(c.String(cliLogLevel))
	if err != nil {
		return err
	}
	log.SetLevel(level)
	slog.SetDefault(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: slogLevel(level),
	})))

	opts, err := optionsFromContext(c)
	if err != nil {
		return err
	}

	configFile, err := conf.Init(opts)
	if err != nil {
		return err
	}
	if configFile != "" {
		log.Infof("using legacy configuration file %v", configFile)
	} else {
		log.Debugf("no legacy configuration file found")
	}

	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "ebconf",
		Usage:    l10n.T("show the resolved EasyBuild configuration"),
		Flags:    globalFlags(),
		Before:   beforeAction,
		Action:   showAction,
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: l10n.T("print all resolved configuration values"),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    cliFormat,
						Aliases: []string{"f"},
						Value:   formatText,
						Usage:   l10n.T("output `FORMAT` (text or toml)"),
					},
				},
				Action: showAction,
			},
			{
				Name:      "path",
				Usage:     l10n.T("print one resolved path"),
				ArgsUsage: "build|source|software|modules|repository|buildlog",
				Action:    pathAction,
			},
			{
				Name:  "logfile",
				Usage: l10n.T("print the build log file path for a build started now"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: cliName, Required: true, Usage: l10n.T("software `NAME`")},
					&cli.StringFlag{Name: cliVersion, Required: true, Usage: l10n.T("software `VERSION`")},
				},
				Action: logfileAction,
			},
			{
				Name:   "repositories",
				Usage:  l10n.T("list the available repository types"),
				Action: repositoriesAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.T("error: %v", err))
		os.Exit(1)
	}
}
