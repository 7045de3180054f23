package conf

import (
	"path/filepath"
	"strings"
	"time"
)

// Placeholder date and time layouts, YYYYMMDD and HHMMSS.
const (
	logDateLayout = "20060102"
	logTimeLayout = "150405"
)

// LogFileName renders the filename template for a build of name/version
// started at t.
func (c Config) LogFileName(name, version string, t time.Time) string {
	r := strings.NewReplacer(
		"%(name)s", name,
		"%(version)s", version,
		"%(date)s", t.Format(logDateLayout),
		"%(time)s", t.Format(logTimeLayout),
	)
	return r.Replace(c.LogFormat.File)
}

// BuildLogFile returns the full path of the build log for name/version
// started at t.
func (c Config) BuildLogFile(name, version string, t time.Time) string {
	return filepath.Join(c.BuildLogDir, c.LogFormat.Dir, c.LogFileName(name, version, t))
}
