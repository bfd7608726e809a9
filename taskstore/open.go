// Package taskstore provides the persistence backends for task.Service: a
// JSON or YAML file, a SQLite database, and an in-memory store.
package taskstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/amonks/taskboard/internal/validation"
	"github.com/amonks/taskboard/task"
)

// ErrInvalidBackend is returned for an unknown backend name.
var ErrInvalidBackend = errors.New("invalid store backend")

// Backend names a storage backend.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendYAML   Backend = "yaml"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// ValidBackends returns all valid backend names.
func ValidBackends() []Backend {
	return []Backend{BackendJSON, BackendYAML, BackendSQLite, BackendMemory}
}

// Store is a task.Store holding resources that must be released.
type Store interface {
	task.Store
	io.Closer
}

// Options configures Open.
type Options struct {
	// Path is the data file or database path. Unused by the memory backend.
	Path string

	// Backend selects the store. When empty it is inferred from the path
	// extension: .yaml/.yml is YAML, .db/.sqlite/.sqlite3 is SQLite, and
	// anything else is JSON.
	Backend Backend
}

// ParseBackend validates a backend name. The empty string is allowed and
// means "infer from the path".
func ParseBackend(value string) (Backend, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", nil
	}
	backend, ok := validation.ParseEnum(value, ValidBackends())
	if !ok {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidBackend, value, validation.FormatValidValues(ValidBackends()))
	}
	return backend, nil
}

// InferBackend picks a backend from a path extension.
func InferBackend(path string) Backend {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return BackendYAML
	case ".db", ".sqlite", ".sqlite3":
		return BackendSQLite
	default:
		return BackendJSON
	}
}

// Open creates the configured store.
func Open(ctx context.Context, opts Options) (Store, error) {
	backend := opts.Backend
	if backend == "" {
		backend = InferBackend(opts.Path)
	}
	if backend != BackendMemory && opts.Path == "" {
		return nil, fmt.Errorf("store path is required for the %s backend", backend)
	}

	switch backend {
	case BackendJSON:
		return NewFileStore(opts.Path, FormatJSON), nil
	case BackendYAML:
		return NewFileStore(opts.Path, FormatYAML), nil
	case BackendSQLite:
		store, err := OpenSQLite(ctx, opts.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, backend)
	}
}
