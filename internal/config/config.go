// Package config manages the tool-level configuration file. Capture
// requests themselves are configured per call via capture.Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/viewsnap/viewsnap/internal/logger"
)

// Config is the persisted tool configuration.
type Config struct {
	ServerPort int    `yaml:"server_port"`
	LogLevel   string `yaml:"log_level"`

	OutputDir string `yaml:"output_dir"`
	Format    string `yaml:"format"`
	Quality   int    `yaml:"quality"`

	IncludeBackground bool `yaml:"include_background"`
	StabilizationMs   int  `yaml:"stabilization_ms"`

	MinAlpha       float64 `yaml:"min_alpha"`
	FinderTTLMs    int     `yaml:"finder_ttl_ms"`
	FinderMaxDepth int     `yaml:"finder_max_depth"`
}

// Manager handles loading, defaulting and saving the config file.
type Manager struct {
	configPath string
	config     *Config
	mu         sync.RWMutex
}

// NewManager loads the config at configFile, falling back to
// ~/.config/viewsnap/config.yaml and creating it with defaults when
// missing.
func NewManager(configFile string) (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "viewsnap")
	actualConfigPath := filepath.Join(configDir, "config.yaml")
	if configFile != "" {
		actualConfigPath = configFile
	}

	if err := os.MkdirAll(filepath.Dir(actualConfigPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	m := &Manager{configPath: actualConfigPath}
	if err := m.load(); err != nil {
		if os.IsNotExist(err) {
			logger.WithComponent("config").Info().
				Str("path", m.configPath).
				Msg("Config file not found, creating new config")
			m.config = defaults()
			if err := m.Save(); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger.WithComponent("config").Info().
		Str("path", m.configPath).
		Msg("Config loaded")
	return m, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:        8080,
		LogLevel:          "info",
		OutputDir:         "captures",
		Format:            "png",
		Quality:           90,
		IncludeBackground: true,
		StabilizationMs:   200,
		MinAlpha:          0.01,
		FinderTTLMs:       500,
		FinderMaxDepth:    20,
	}
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	m.config = cfg
	return nil
}

// Save writes the current config to disk.
func (m *Manager) Save() error {
	m.mu.RLock()
	data, err := yaml.Marshal(m.config)
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(m.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Get returns a copy of the current config.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.config
}

// GetConfigPath returns the path of the backing file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// SetPort overrides the server port.
func (m *Manager) SetPort(port int) {
	m.mu.Lock()
	m.config.ServerPort = port
	m.mu.Unlock()
}

// SetLogLevel overrides the log level.
func (m *Manager) SetLogLevel(level string) {
	m.mu.Lock()
	m.config.LogLevel = level
	m.mu.Unlock()
}

// SetOutputDir overrides the capture output directory.
func (m *Manager) SetOutputDir(dir string) {
	m.mu.Lock()
	m.config.OutputDir = dir
	m.mu.Unlock()
}
