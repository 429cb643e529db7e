package config

import (
	"fmt"
	"path/filepath"

	"github.com/MinterTeam/minter-coffee/cmd/utils"
	tmConfig "github.com/tendermint/tendermint/config"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName  = "config.toml"
	defaultGenesisJSONName = "genesis.json"
)

var (
	defaultConfigFilePath  = filepath.Join(defaultConfigDir, defaultConfigFileName)
	defaultGenesisJSONPath = filepath.Join(defaultConfigDir, defaultGenesisJSONName)
)

// DefaultConfig returns a default configuration of the node
func DefaultConfig() *Config {
	cfg := &Config{
		BaseConfig:      DefaultBaseConfig(),
		Instrumentation: tmConfig.DefaultInstrumentationConfig(),
	}
	cfg.Instrumentation.Namespace = "coffee"
	cfg.Instrumentation.PrometheusListenAddr = ":26660"

	return cfg
}

// GetConfig returns the default configuration rooted at the home directory, creating it
// when missing.
func GetConfig() *Config {
	cfg := DefaultConfig()

	cfg.SetRoot(utils.GetCoffeeHome())
	EnsureRoot(utils.GetCoffeeHome())

	return cfg
}

// Config defines the top level configuration of the node
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`

	Instrumentation *tmConfig.InstrumentationConfig `mapstructure:"instrumentation"`
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

// ValidateBasic performs basic validation and returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if cfg.DBBackend != "goleveldb" && cfg.DBBackend != "memdb" {
		return fmt.Errorf("unsupported db_backend %q", cfg.DBBackend)
	}
	if cfg.LogFormat != LogFormatPlain && cfg.LogFormat != LogFormatJSON {
		return fmt.Errorf("unsupported log_format %q", cfg.LogFormat)
	}
	if cfg.KeepLastStates < 0 {
		return fmt.Errorf("keep_last_states can't be negative")
	}
	if cfg.DBBackend == "goleveldb" && cfg.StateMemAvailable < 1024 {
		return fmt.Errorf("state_mem_available must be at least 1024, got %d", cfg.StateMemAvailable)
	}
	return cfg.Instrumentation.ValidateBasic()
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration of the node
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Path to the JSON file with the initial state
	Genesis string `mapstructure:"genesis_file"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log_format"`

	LogPath string `mapstructure:"log_path"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir"`

	// Address to listen for API connections
	APIListenAddress string `mapstructure:"api_listen_addr"`

	KeepLastStates int64 `mapstructure:"keep_last_states"`

	StateCacheSize int `mapstructure:"state_cache_size"`

	// Memory for the state database in megabytes
	StateMemAvailable int `mapstructure:"state_mem_available"`

	// A warning is logged when a supporters ledger grows past this length, 0 disables it
	SupportersWarnThreshold int `mapstructure:"supporters_warn_threshold"`
}

// DefaultBaseConfig returns a default base configuration of the node
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Genesis:                 defaultGenesisJSONPath,
		LogLevel:                DefaultPackageLogLevels(),
		LogFormat:               LogFormatPlain,
		LogPath:                 "stdout",
		DBBackend:               "goleveldb",
		DBPath:                  "data",
		APIListenAddress:        "tcp://0.0.0.0:8841",
		KeepLastStates:          120,
		StateCacheSize:          1000000,
		StateMemAvailable:       1024,
		SupportersWarnThreshold: 10000,
	}
}

// GenesisFile returns the full path to the genesis.json file
func (cfg BaseConfig) GenesisFile() string {
	return rootify(cfg.Genesis, cfg.RootDir)
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// DefaultLogLevel returns a default log level of "error"
func DefaultLogLevel() string {
	return "error"
}

// DefaultPackageLogLevels returns a default log level setting so all packages
// log at "error", while the `state`, `host` and `main` packages log at "info"
func DefaultPackageLogLevels() string {
	return fmt.Sprintf("main:info,state:info,host:info,api:info,*:%s", DefaultLogLevel())
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
