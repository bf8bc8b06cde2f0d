// Copyright 2025 The chatgrep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads CLI configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EmbeddingConfig points at the OpenAI-compatible embedding endpoint.
type EmbeddingConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// StorageConfig locates the BadgerDB database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// IngestionConfig tunes the ingestion pipeline.
type IngestionConfig struct {
	BatchSize  int `yaml:"batch_size"`
	PoolSize   int `yaml:"pool_size"`
	MaxRetries int `yaml:"max_retries"`
}

// SearchConfig sets query defaults.
type SearchConfig struct {
	Limit         int     `yaml:"limit"`
	MinSimilarity float32 `yaml:"min_similarity"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Search    SearchConfig    `yaml:"search"`
	LogLevel  string          `yaml:"log_level"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults. Environment variables override file values.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./chatgrep.yaml first, then
// ~/.config/chatgrep/config.yaml. If neither exists, it writes defaults
// to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "chatgrep.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chatgrep", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{Path: "chatgrep.db"},
		Embedding: EmbeddingConfig{
			Host:  "http://localhost:11434/v1",
			Model: "embeddinggemma",
		},
		Ingestion: IngestionConfig{BatchSize: 256, MaxRetries: 3},
		Search:    SearchConfig{Limit: 20, MinSimilarity: 0.3},
		LogLevel:  "info",
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "chatgrep.db"
	}
	if cfg.Embedding.Host == "" {
		cfg.Embedding.Host = "http://localhost:11434/v1"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "embeddinggemma"
	}
	if cfg.Ingestion.BatchSize == 0 {
		cfg.Ingestion.BatchSize = 256
	}
	if cfg.Ingestion.MaxRetries == 0 {
		cfg.Ingestion.MaxRetries = 3
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = 20
	}
	if cfg.Search.MinSimilarity == 0 {
		cfg.Search.MinSimilarity = 0.3
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// applyEnvOverrides lets the environment (including values loaded from a
// .env file) override file configuration.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("CHATGREP_DB"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("CHATGREP_EMBEDDING_HOST"); v != "" {
		cfg.Embedding.Host = v
	}
	if v := os.Getenv("CHATGREP_EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("CHATGREP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
