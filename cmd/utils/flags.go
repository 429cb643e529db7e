package utils

import (
	"os"
	"path/filepath"
)

var (
	CoffeeHome   string
	CoffeeConfig string
)

func GetCoffeeHome() string {
	if CoffeeHome != "" {
		return CoffeeHome
	}

	home := os.Getenv("COFFEEHOME")

	if home != "" {
		return home
	}

	return os.ExpandEnv(filepath.Join("$HOME", ".coffee"))
}

func GetCoffeeConfigPath() string {
	if CoffeeConfig != "" {
		return CoffeeConfig
	}

	return filepath.Join(GetCoffeeHome(), "config", "config.toml")
}
