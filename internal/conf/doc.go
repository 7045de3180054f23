// Package conf resolves the EasyBuild paths and log settings from layered
// configuration sources.
//
// # Usage
//
// The process-wide store is filled once with Init and read through the
// accessor functions:
//
//	import "github.com/easybuilders/ebconf/internal/conf"
//
//	func main() {
//	    if _, err := conf.Init(conf.Options{}); err != nil {
//	        log.Fatal(err)
//	    }
//	    buildPath, _ := conf.BuildPath()
//	    fmt.Println(buildPath)
//	}
//
// Callers that prefer to pass the snapshot around use Resolve, which
// returns a Config without touching the store:
//
//	cfg, err := conf.Resolve(opts, conf.ReadEnviron())
//
// # Load Order
//
// Values are applied in four layers, lowest precedence first:
//
//  1. Built-in defaults: ~/.local/easybuild/{build,sources,software,modules,ebfiles_repo}
//  2. Legacy configuration file: Options.ConfigFile, $EASYBUILDCONFIG or ~/.easybuild/config.py
//  3. Prefix: Options.Prefix or $EASYBUILDPREFIX
//  4. Explicit paths: Options fields, then $EASYBUILDBUILDPATH,
//     $EASYBUILDSOURCEPATH and $EASYBUILDINSTALLPATH
//
// An explicit path only replaces its own slot. Software and modules install
// paths are the install base joined with the software and modules suffixes,
// unless set explicitly through Options.
//
// # Legacy File Format
//
// The legacy file is TOML restricted to a closed set of keys:
//
//	build_path = '/scratch/build'
//	source_path = '/data/sources'
//	install_path = '/apps'
//	repository_path = '/apps/ebfiles_repo'
//	repository = 'FileRepository'
//	log_format = ['easybuild', 'easybuild-%(name)s-%(version)s-%(date)s.%(time)s.log']
//	log_dir = '/tmp/eblogs'
//	software_install_suffix = 'software'
//	modules_install_suffix = 'modules'
//
// Other keys are logged and ignored. A file that exists but does not parse
// fails with a *ConfigLoadError.
//
// # Internal Architecture
//
// Layers are represented by configDTO, whose pointer fields distinguish
// "not set" (nil) from "set". Config.Update applies one layer on top of the
// current Config; Source.Read applies the layers in order.
package conf
