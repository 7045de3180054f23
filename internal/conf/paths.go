package conf

import "path/filepath"

// Subdirectory names appended to a prefix or to the default root.
const (
	BuildDir      = "build"
	SourcesDir    = "sources"
	SoftwareDir   = "software"
	ModulesDir    = "modules"
	RepositoryDir = "ebfiles_repo"
)

// Paths is the set of five base paths the resolver works with.
type Paths struct {
	Build      string
	Source     string
	Software   string
	Modules    string
	Repository string
}

// DefaultRoot returns the root of the built-in layout, ~/.local/easybuild.
func DefaultRoot(home string) string {
	return filepath.Join(home, ".local", "easybuild")
}

// DefaultPaths returns the built-in paths rooted at the given home directory.
func DefaultPaths(home string) Paths {
	return PrefixPaths(DefaultRoot(home))
}

// PrefixPaths expands a prefix into the fixed subdirectory layout.
func PrefixPaths(prefix string) Paths {
	return Paths{
		Build:      filepath.Join(prefix, BuildDir),
		Source:     filepath.Join(prefix, SourcesDir),
		Software:   filepath.Join(prefix, SoftwareDir),
		Modules:    filepath.Join(prefix, ModulesDir),
		Repository: filepath.Join(prefix, RepositoryDir),
	}
}
