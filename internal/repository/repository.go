// Package repository constructs the artifact repositories easyconfig files
// are archived to. Only the constructor contract lives here: a repository
// type is created from a name and a path.
package repository

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// FileRepositoryType is the name of the built-in file-based repository.
const FileRepositoryType = "FileRepository"

// ErrUnknownType is returned for a repository type that has no registered
// constructor.
var ErrUnknownType = errors.New("unknown repository type")

// Repository is an artifact repository rooted at a path.
type Repository interface {
	Type() string
	Path() string
}

// Constructor creates a repository rooted at path.
type Constructor func(path string) (Repository, error)

var (
	mu           sync.RWMutex
	constructors = map[string]Constructor{
		FileRepositoryType: func(path string) (Repository, error) {
			return NewFileRepository(path), nil
		},
	}
)

// Register makes a repository type available under name, replacing any
// previous registration.
func Register(name string, c Constructor) {
	mu.Lock()
	defer mu.Unlock()
	constructors[name] = c
}

// Known reports whether name has a registered constructor.
func Known(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := constructors[name]
	return ok
}

// Types returns the registered type names, sorted.
func Types() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a repository of type name rooted at path.
func New(name, path string) (Repository, error) {
	mu.RLock()
	c, ok := constructors[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return c(path)
}

// FileRepository stores easyconfig files in a plain directory.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Type() string { return FileRepositoryType }

func (r *FileRepository) Path() string { return r.path }
