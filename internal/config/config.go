package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIAddr        string   `yaml:"api_addr"`
	Providers      string   `yaml:"providers"`
	GenerateRate   float64  `yaml:"generate_rate"`
	GenerateBurst  int      `yaml:"generate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func defaults() Config {
	return Config{
		APIAddr:        ":8080",
		Providers:      "mock",
		GenerateRate:   2,
		GenerateBurst:  4,
		AllowedOrigins: []string{"http://localhost:*", "https://*"},
	}
}

// Load builds config from defaults, an optional YAML file, then environment
// overrides, in that order. An empty path checks the default locations.
func Load(path string) Config {
	cfg := defaults()

	if path == "" {
		for _, loc := range []string{"config.yaml", "config.yml"} {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, &cfg)
		}
	}

	cfg.APIAddr = getenv("RESEARCHMATE_API_ADDR", cfg.APIAddr)
	cfg.Providers = getenv("RESEARCHMATE_PROVIDERS", cfg.Providers)
	cfg.GenerateRate = getenvFloat("RESEARCHMATE_GENERATE_RATE", cfg.GenerateRate)
	cfg.GenerateBurst = getenvInt("RESEARCHMATE_GENERATE_BURST", cfg.GenerateBurst)
	if cfg.GenerateRate <= 0 {
		cfg.GenerateRate = defaults().GenerateRate
	}
	if cfg.GenerateBurst <= 0 {
		cfg.GenerateBurst = defaults().GenerateBurst
	}
	return cfg
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(k string, fallback float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
