// Package config resolves the path of the tasks file once at startup so a
// single value is threaded through every load/save call.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the fallback tasks file in the working directory.
const DefaultFile = "tasks.json"

const (
	envFile   = "TODO_FILE"
	configDir = "todo-shell"
)

type Config struct {
	File string `yaml:"file"`
}

// TasksFile resolves the tasks file path: the TODO_FILE environment
// variable wins, then the `file:` key of the user config, then
// DefaultFile. A missing or malformed config file is not an error; the
// persisted tasks file is the contract, the config is convenience.
func TasksFile() string {
	if env := strings.TrimSpace(os.Getenv(envFile)); env != "" {
		return expandHome(env)
	}
	if cfg, err := load(); err == nil && strings.TrimSpace(cfg.File) != "" {
		return expandHome(strings.TrimSpace(cfg.File))
	}
	return DefaultFile
}

func load() (Config, error) {
	var cfg Config
	path, err := configPath()
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", configDir, "config.yaml"), nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
