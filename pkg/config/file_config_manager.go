// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileConfigManager provides the ability to load, parse and save
// configuration files on disk.
type FileConfigManager interface {
	// Saves the configuration to the specified file path
	// Path is automatically created if it does not exist
	Save(config Config, filePath string) error

	// Loads configuration from the specified file path
	Load(filePath string) (Config, error)

	// LoadUserConfig loads the user-wide configuration file, returning an
	// empty configuration when the file does not exist yet.
	LoadUserConfig() (Config, error)

	// SaveUserConfig persists the user-wide configuration file.
	SaveUserConfig(config Config) error
}

// NewFileConfigManager creates a new FileConfigManager instance
func NewFileConfigManager(configManager Manager) FileConfigManager {
	return &fileConfigManager{
		manager: configManager,
	}
}

type fileConfigManager struct {
	manager Manager
}

func (m *fileConfigManager) Load(filePath string) (Config, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed opening configuration file: %w", err)
	}

	defer file.Close()

	return m.manager.Load(file)
}

func (m *fileConfigManager) Save(c Config, filePath string) error {
	folderPath := filepath.Dir(filePath)
	if err := os.MkdirAll(folderPath, 0700); err != nil {
		return fmt.Errorf("failed creating config directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed creating config file: %w", err)
	}
	defer file.Close()

	return m.manager.Save(c, file)
}

func (m *fileConfigManager) LoadUserConfig() (Config, error) {
	filePath, err := GetUserConfigFilePath()
	if err != nil {
		return nil, err
	}

	cfg, err := m.Load(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewEmptyConfig(), nil
		}
		return nil, err
	}

	return cfg, nil
}

func (m *fileConfigManager) SaveUserConfig(config Config) error {
	filePath, err := GetUserConfigFilePath()
	if err != nil {
		return err
	}

	return m.Save(config, filePath)
}
