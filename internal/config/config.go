// Package config loads the JSON configuration for the quotegen shell:
// listen address, SMTP credentials, asset store location and the
// snowflake node ID. The rendering engine itself takes no
// configuration beyond its per-call options.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type EmailConfig struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ServerConfig struct {
	Addr string `json:"addr"`
}

type Config struct {
	Server   ServerConfig `json:"server"`
	SMTP     SMTPConfig   `json:"smtp"`
	Email    EmailConfig  `json:"email"`
	AssetDir string       `json:"asset_dir"`
	NodeID   int64        `json:"node_id"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080"},
		AssetDir: "assets",
		NodeID:   1,
	}
}

// Load reads and parses a JSON configuration file, filling defaults
// for absent fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.NodeID == 0 {
		cfg.NodeID = 1
	}
	return cfg, nil
}
