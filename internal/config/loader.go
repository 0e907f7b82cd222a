package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/gradle-mcp-server"
	projectConfigDir = ".gradle-mcp"
	configFileName   = "config.yaml"
)

// LoadConfig loads the configuration by layering default, user, and project
// settings.
func LoadConfig() (Config, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. Determine user-specific configuration path
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// Log this error but don't fail; user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	// 3. Determine project-specific configuration path
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.ProjectDir != "" {
		merged.ProjectDir = overlay.ProjectDir
	}
	if overlay.LogLevel != "" {
		merged.LogLevel = overlay.LogLevel
	}

	if len(overlay.GradleEnv) > 0 {
		if merged.GradleEnv == nil {
			merged.GradleEnv = make(map[string]string, len(overlay.GradleEnv))
		}
		for k, v := range overlay.GradleEnv {
			merged.GradleEnv[k] = v
		}
	}

	if overlay.TestOutput.MaxLogLines != 0 {
		merged.TestOutput.MaxLogLines = overlay.TestOutput.MaxLogLines
	}
	// Only true overrides; false is the zero value and indistinguishable
	// from "not set".
	if overlay.TestOutput.IncludeOutputForPassed {
		merged.TestOutput.IncludeOutputForPassed = true
	}

	if overlay.Server.Transport != "" {
		merged.Server.Transport = overlay.Server.Transport
	}
	if overlay.Server.Host != "" {
		merged.Server.Host = overlay.Server.Host
	}
	if overlay.Server.Port != 0 {
		merged.Server.Port = overlay.Server.Port
	}

	return merged
}
