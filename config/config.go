package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	FeedURL                string `json:"feedUrl"`
	FeedEncoding           string `json:"feedEncoding"`
	NotificationWebhookURL string `json:"notificationWebhookUrl"`
	LedgerPath             string `json:"ledgerPath"`
	DatabasePath           string `json:"databasePath"`
	CacheTTLSeconds        int    `json:"cacheTtlSeconds"`
	PortalURL              string `json:"portalUrl"`
	PortalUserID           string `json:"portalUserID"`
	PortalPassword         string `json:"portalPassword"`
	DownloadDir            string `json:"downloadDir"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./shop_config.json"

func applyDefaults(c *Config) {
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 300
	}
	if c.LedgerPath == "" {
		c.LedgerPath = "purchases.log"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "./shop.db"
	}
	if c.DownloadDir == "" {
		c.DownloadDir = "./downloads"
	}
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	defaults := Config{}
	applyDefaults(&defaults)

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		// 読めない場合もデフォルトで動けるようにしておく
		cfg = defaults
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		cfg = defaults
		return defaults, err
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

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
