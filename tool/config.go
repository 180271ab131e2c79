package tool

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/imageshare/imageshare-go/types"
)

var (
	ConfigPath = "config.yaml" // be aware that it can be changed, default to ./config.yaml

	configMu      sync.RWMutex
	currentConfig types.AppConfig
)

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		Endpoint:  "http://localhost:8146/upload",
		FieldName: "file", // the server takes the first field regardless, but we commit to one name.
		Port:      8046,
		ProbeHost: false,
		NotifyWS:  true,
	}
}

func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file doesn't exist, create with default values
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			SetCurrentConfig(cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}
	if cfg.FieldName == "" {
		cfg.FieldName = "file"
	}

	SetCurrentConfig(cfg)
	return cfg, nil
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetCurrentConfig returns a copy. Callers snapshot the config once and
// work off the copy, so a concurrent PATCH never races an in-flight batch.
func GetCurrentConfig() types.AppConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return currentConfig
}

func SetCurrentConfig(cfg types.AppConfig) {
	configMu.Lock()
	currentConfig = cfg
	configMu.Unlock()
}

// PersistAppConfig updates in-memory AppConfig and writes the config file.
func PersistAppConfig(cfg types.AppConfig) {
	SetCurrentConfig(cfg)
	if err := writeConfig(ConfigPath, cfg); err != nil {
		DefaultLogger.Warnf("Failed to persist config: %v", err)
	}
}
