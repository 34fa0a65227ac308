package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"finwarehouse/internal/common"
	"finwarehouse/pkg/models"
)

func GetConfigPath() string {
	// Check for environment variable first
	if configPath := os.Getenv("FINWAREHOUSE_CONFIG"); configPath != "" {
		return filepath.Dir(configPath)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".finwarehouse")
}

func GetConfigFile() string {
	// Check for environment variable first
	if configFile := os.Getenv("FINWAREHOUSE_CONFIG"); configFile != "" {
		// Validate the path to prevent directory traversal
		cleaned, err := common.CleanPath(configFile)
		if err != nil {
			// Fall back to default if invalid
			return filepath.Join(GetConfigPath(), "config.yaml")
		}
		return cleaned
	}
	return filepath.Join(GetConfigPath(), "config.yaml")
}

func Load() (*models.Config, error) {
	configFile := GetConfigFile()

	// Validate the config file path
	cleanedPath, err := common.CleanPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	config := &models.Config{}

	// A missing config file yields the defaults; credentials can still come
	// from the environment.
	if _, err := os.Stat(cleanedPath); os.IsNotExist(err) {
		applyEnvOverrides(config)
		config.Defaults()
		return config, nil
	}

	data, err := os.ReadFile(cleanedPath) // #nosec G304 - path is validated
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(config)
	config.Defaults()
	return config, nil
}

func Save(config *models.Config) error {
	configPath := GetConfigPath()
	if err := os.MkdirAll(configPath, common.DirPermissionSecure); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := GetConfigFile()

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, common.FilePermissionSecure); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvOverrides lets credentials be supplied without touching the config
// file, which keeps passwords out of version control.
func applyEnvOverrides(config *models.Config) {
	if v := os.Getenv("SOURCE_DB_PASSWORD"); v != "" {
		config.Source.Password = v
	}
	if v := os.Getenv("WAREHOUSE_DB_PASSWORD"); v != "" {
		config.Warehouse.Password = v
	}
	if v := os.Getenv("SOURCE_DB_HOST"); v != "" {
		config.Source.Host = v
	}
	if v := os.Getenv("WAREHOUSE_DB_HOST"); v != "" {
		config.Warehouse.Host = v
	}
}
