package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "LOOT_"

type Config struct {
	Gateway string        `koanf:"gateway"`
	Store   string        `koanf:"store"`
	Timeout time.Duration `koanf:"timeout"`
	Log     struct {
		Level  string `koanf:"level"`
		Pretty bool   `koanf:"pretty"`
	} `koanf:"log"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Gateway = "http://localhost:8080"
	cfg.Timeout = 15 * time.Second
	cfg.Log.Level = "warn"
	cfg.Log.Pretty = true
	if home, err := os.UserHomeDir(); err == nil {
		cfg.Store = filepath.Join(home, ".lootctl", "local.json")
	}
	return cfg
}

// loadConfig reads path when it exists and then applies LOOT_* overrides,
// e.g. LOOT_LOG_LEVEL sets log.level.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, v string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return strings.ReplaceAll(key, "_", "."), v
		},
	}), nil)
	if err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	if p := os.Getenv("LOOTCTL_CONFIG"); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "lootctl", "config.yaml")
	}
	return ""
}
