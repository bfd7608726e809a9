// Package config handles loading taskboard.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/taskboard/internal/paths"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = "taskboard.toml"

// StoreEnv overrides the configured store path when set.
const StoreEnv = "TASKBOARD_STORE"

// Config represents the taskboard.toml configuration file.
type Config struct {
	Store  Store  `toml:"store"`
	View   View   `toml:"view"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
	Notify Notify `toml:"notify"`
}

// Store selects where tasks are kept.
type Store struct {
	// Path is the task file or database. Defaults to
	// ~/.local/state/taskboard/tasks.json.
	Path string `toml:"path"`

	// Backend is json, yaml, sqlite, or memory. Inferred from Path when empty.
	Backend string `toml:"backend"`
}

// View contains listing defaults.
type View struct {
	// DefaultSort is the sort mode used when none is requested.
	DefaultSort string `toml:"default-sort"`
}

// Server contains `tasks serve` settings.
type Server struct {
	Addr string `toml:"addr"`
}

// Log configures the root logger.
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Notify configures the priority transition log.
type Notify struct {
	EventsFile string `toml:"events-file"`
}

// Load loads configuration from dir and the global config file, then
// applies environment overrides. Returns an empty config if no config
// files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := paths.GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, _, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, ProjectFile))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, projectMeta)
	if path := strings.TrimSpace(os.Getenv(StoreEnv)); path != "" {
		merged.Store.Path = path
	}
	return merged, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Store.Path = mergeString(projectMeta.IsDefined("store", "path"), projectCfg.Store.Path, globalCfg.Store.Path)
	merged.Store.Backend = mergeString(projectMeta.IsDefined("store", "backend"), projectCfg.Store.Backend, globalCfg.Store.Backend)
	merged.View.DefaultSort = mergeString(projectMeta.IsDefined("view", "default-sort"), projectCfg.View.DefaultSort, globalCfg.View.DefaultSort)
	merged.Server.Addr = mergeString(projectMeta.IsDefined("server", "addr"), projectCfg.Server.Addr, globalCfg.Server.Addr)
	merged.Log.Level = mergeString(projectMeta.IsDefined("log", "level"), projectCfg.Log.Level, globalCfg.Log.Level)
	merged.Log.File = mergeString(projectMeta.IsDefined("log", "file"), projectCfg.Log.File, globalCfg.Log.File)
	merged.Notify.EventsFile = mergeString(projectMeta.IsDefined("notify", "events-file"), projectCfg.Notify.EventsFile, globalCfg.Notify.EventsFile)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}
