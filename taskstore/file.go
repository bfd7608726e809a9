package taskstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amonks/taskboard/task"
	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// ErrCorrupt is returned by Load when the file cannot be decoded.
var ErrCorrupt = errors.New("task file is corrupt")

// Format is the encoding of a file store.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FileStore keeps the whole collection in a single JSON or YAML file.
//
// Saves replace the file atomically. Lock takes an exclusive flock on a
// sidecar file so several processes can share one task file.
type FileStore struct {
	path   string
	format Format
}

// NewFileStore creates a store for path. Nothing is read until Load.
func NewFileStore(path string, format Format) *FileStore {
	if format == "" {
		format = FormatJSON
	}
	return &FileStore{path: path, format: format}
}

// Path returns the data file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the collection. A missing or empty file is an empty
// collection. JSON files may carry comments and trailing commas.
func (s *FileStore) Load(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []task.Task{}, nil
	}

	tasks, err := decodeTasks(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	return tasks, nil
}

// Save replaces the file with tasks.
func (s *FileStore) Save(ctx context.Context, tasks []task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeTasks(tasks, s.format)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create task dir: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

// Lock takes the cross-process lock for a load/modify/save cycle.
func (s *FileStore) Lock(ctx context.Context) (func() error, error) {
	lock, err := acquireLock(ctx, s.path, LockTimeout)
	if err != nil {
		return nil, err
	}
	return lock.release, nil
}

// Close is a no-op; file stores hold no open handles between calls.
func (s *FileStore) Close() error {
	return nil
}

func decodeTasks(data []byte, format Format) ([]task.Task, error) {
	tasks := []task.Task{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tasks); err != nil {
			return nil, err
		}
	default:
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("invalid JSONC: %w", err)
		}
		if err := json.Unmarshal(standardized, &tasks); err != nil {
			return nil, err
		}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

func encodeTasks(tasks []task.Task, format Format) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(tasks); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}
