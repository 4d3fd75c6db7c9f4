package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/alex-vit/cvfilter/filter"
)

type config struct {
	Type           filter.Deficiency `json:"type"`
	Intensity      float64           `json:"intensity"`
	HotkeysEnabled bool              `json:"hotkeys_enabled"`
	AutoUpdate     bool              `json:"auto_update"`
}

var (
	cfg     config
	dataDir string
)

func defaultConfig() config {
	return config{
		Type:           filter.None,
		Intensity:      filter.DefaultIntensity,
		HotkeysEnabled: true,
		AutoUpdate:     true,
	}
}

func configPath() string {
	return filepath.Join(dataDir, "config.json")
}

func loadConfig() {
	cfg = readConfig(configPath())
	log.Printf("config: loaded (type=%s intensity=%.2f hotkeys=%v auto_update=%v)",
		cfg.Type, cfg.Intensity, cfg.HotkeysEnabled, cfg.AutoUpdate)
}

// readConfig returns the config stored at path, falling back to defaults
// for a missing or unreadable file.
func readConfig(path string) config {
	c := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("config: no config file, using defaults")
		return c
	}
	if err := json.Unmarshal(data, &c); err != nil {
		log.Printf("config: parse error: %v, using defaults", err)
		return defaultConfig()
	}
	c.Intensity = filter.ClampIntensity(c.Intensity)
	return c
}

func saveConfig() {
	if err := writeConfig(configPath(), cfg); err != nil {
		log.Printf("config: %v", err)
	}
}

func writeConfig(path string, c config) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
