// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigName is the base name of the configuration file searched for in
	// ConfigDirs when no explicit path is given.
	ConfigName = "config"

	defaultLogFile      = "apexreport.log"
	defaultOutput       = "results.html"
	defaultVersionFile  = "version.dat"
	defaultCVThreshold  = 0.2
	defaultMAEThreshold = 0.1
)

// Config represents the top-level application configuration.
type Config struct {
	Debug          bool    `mapstructure:"debug"`
	LogFile        string  `mapstructure:"logFile"`
	Output         string  `mapstructure:"output"`
	MarkdownOutput string  `mapstructure:"markdownOutput"`
	JobAddress     string  `mapstructure:"jobAddress"`
	VersionFile    string  `mapstructure:"versionFile"`
	CVThreshold    float64 `mapstructure:"cvThreshold"`
	MAEThreshold   float64 `mapstructure:"maeThreshold"`
	Summary        bool    `mapstructure:"summary"`
	DumpModel      bool    `mapstructure:"dumpModel"`
	ConfigPath     string  `mapstructure:"-"`
}

// ConfigDirs are the directories searched for ConfigName, in order.
var ConfigDirs = []string{"config", "."}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("logFile", defaultLogFile)
	v.SetDefault("output", defaultOutput)
	v.SetDefault("markdownOutput", "")
	v.SetDefault("jobAddress", "")
	v.SetDefault("versionFile", defaultVersionFile)
	v.SetDefault("cvThreshold", defaultCVThreshold)
	v.SetDefault("maeThreshold", defaultMAEThreshold)
	v.SetDefault("summary", false)
	v.SetDefault("dumpModel", false)
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	v := viper.New()
	SetDefaults(v)
	cfg, _ := Decode(v)
	return cfg
}

// Decode unmarshals the merged settings of v and validates them.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no report can be built with.
func (c Config) Validate() error {
	if c.CVThreshold < 0 || c.MAEThreshold < 0 {
		return fmt.Errorf("invalid configuration: thresholds must not be negative (cvThreshold=%g, maeThreshold=%g)", c.CVThreshold, c.MAEThreshold)
	}
	return nil
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// OutputPath returns the HTML report path, applying a default if not set.
func (c Config) OutputPath() string {
	if path := c.Output; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultOutput
}

// CV returns the CV pass threshold.
func (c Config) CV() float64 {
	if c.CVThreshold <= 0 {
		return defaultCVThreshold
	}
	return c.CVThreshold
}

// MAE returns the MAE pass threshold.
func (c Config) MAE() float64 {
	if c.MAEThreshold <= 0 {
		return defaultMAEThreshold
	}
	return c.MAEThreshold
}

// Locate points v at path, or at ConfigName inside ConfigDirs when path is
// empty. JSON and YAML files are both accepted.
func Locate(v *viper.Viper, path string) {
	if path != "" {
		v.SetConfigFile(path)
		return
	}
	v.SetConfigName(ConfigName)
	for _, dir := range ConfigDirs {
		v.AddConfigPath(dir)
	}
}
