package config

import (
	"encoding/json"
	"os"
	"sync"
)

// Config is the application configuration document. Defaults are applied
// on load so a missing or partial file still yields a usable setup.
type Config struct {
	ListenAddr         string  `json:"listenAddr"`
	DatabasePath       string  `json:"databasePath"`
	DownloadDir        string  `json:"downloadDir"`
	IhkaUser           string  `json:"ihkaUser"`
	IhkaPassword       string  `json:"ihkaPassword"`
	IhkaMandant        string  `json:"ihkaMandant"`
	SessionMaxAgeHours int     `json:"sessionMaxAgeHours"`
	QuantityTolerance  float64 `json:"quantityTolerance"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./sprintbox_config.json"

func applyDefaults(c *Config) {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "./sprintbox.db"
	}
	if c.DownloadDir == "" {
		c.DownloadDir = "./temp_downloads"
	}
	if c.IhkaMandant == "" {
		c.IhkaMandant = "352"
	}
	if c.SessionMaxAgeHours == 0 {
		c.SessionMaxAgeHours = 24
	}
	if c.QuantityTolerance == 0 {
		c.QuantityTolerance = 0.1
	}
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&tempCfg)
	cfg = tempCfg

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

// ApplyEnvOverrides lets environment credentials win over the JSON file
// so secrets can stay out of the config document.
func ApplyEnvOverrides() {
	mu.Lock()
	defer mu.Unlock()
	if v := os.Getenv("IHKA_USER"); v != "" {
		cfg.IhkaUser = v
	}
	if v := os.Getenv("IHKA_PASSWORD"); v != "" {
		cfg.IhkaPassword = v
	}
	if v := os.Getenv("IHKA_MANDANT"); v != "" {
		cfg.IhkaMandant = v
	}
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	c := cfg
	applyDefaults(&c)
	return c
}
