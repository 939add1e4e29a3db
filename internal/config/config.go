package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"caskdb/internal/log"
)

// Config is the server configuration, parsed from a YAML file.
type Config struct {
	// ListenAddr is the TCP address the command server binds to.
	ListenAddr string

	// DataDir is the directory holding the database files.
	DataDir string

	// CheckpointInterval is how often index state is persisted.
	CheckpointInterval time.Duration
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ListenAddr:         "127.0.0.1:9090",
		DataDir:            "bitcask_db",
		CheckpointInterval: 60 * time.Second,
	}
}

func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	aux := struct {
		ListenAddr         string `yaml:"listen_addr"`
		DataDir            string `yaml:"data_dir"`
		CheckpointInterval int    `yaml:"checkpoint_interval"` // seconds
		LogLevel           string `yaml:"log_level"`
	}{}
	if err := unmarshal(&aux); err != nil {
		return err
	}

	if aux.ListenAddr != "" {
		c.ListenAddr = aux.ListenAddr
	}
	if aux.DataDir != "" {
		c.DataDir = aux.DataDir
	}
	if aux.CheckpointInterval != 0 {
		if aux.CheckpointInterval < 0 {
			return fmt.Errorf("caskdb: config: checkpoint_interval must be positive")
		}
		c.CheckpointInterval = time.Duration(aux.CheckpointInterval) * time.Second
	}

	if aux.LogLevel != "" {
		switch strings.ToLower(aux.LogLevel) {
		case "fatal":
			log.SetLevel(log.FATAL)
		case "error":
			log.SetLevel(log.ERROR)
		case "warning":
			log.SetLevel(log.WARNING)
		case "debug":
			log.SetLevel(log.DEBUG)
		case "info":
			fallthrough
		default:
			log.SetLevel(log.INFO)
		}
	}

	return nil
}

// Parse unmarshals the YAML payload over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("caskdb: parse config: %w", err)
	}

	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("caskdb: config: listen_addr must not be empty")
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("caskdb: config: data_dir must not be empty")
	}

	return cfg, nil
}
