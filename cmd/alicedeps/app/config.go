package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/alicedeps/pkg/errors"
)

const (
	// envPrefix prefixes every alicedeps environment variable.
	envPrefix = "ALICEDEPS"

	// configName is the config file looked up in $HOME and the working
	// directory.
	configName = ".alicedeps"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
// Nothing is ever written back.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Preview makes every patch run compute changes without writing.
	Preview bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// logLevelFlag is set when --log-level was given explicitly.
	logLevelFlag bool
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables (ALICEDEPS_*, LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT)
// 3. .env files
// 4. Config file (configFile, or ~/.alicedeps.yaml / ./.alicedeps.yaml)
// 5. Defaults
//
// An explicit configFile must exist; the default locations are optional.
func LoadConfig(configFile string) (*Config, error) {
	if err := loadEnvFiles(".env", ".env.local"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("format", "")
	v.SetDefault("preview", false)
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	// The logging variables are shared with pkg/logging and read unprefixed too
	for _, key := range []string{"log_level", "log_format", "log_output"} {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(key), strings.ToUpper(key)); err != nil {
			return nil, errors.NewConfigError("env", "binding "+key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("file", "reading "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(configName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("file", "reading "+configName+".yaml", err)
			}
		}
	}

	return &Config{
		ConfigFile: v.ConfigFileUsed(),
		Format:     v.GetString("format"),
		Preview:    v.GetBool("preview"),
		LogLevel:   v.GetString("log_level"),
		LogFormat:  v.GetString("log_format"),
		LogOutput:  v.GetString("log_output"),
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
		c.logLevelFlag = true
	}
}

// loadEnvFiles exports the variables of the given .env files, later files
// overriding earlier ones. Variables already set in the process
// environment are never replaced. Missing files are skipped.
func loadEnvFiles(files ...string) error {
	merged := map[string]string{}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		values, err := godotenv.Read(file)
		if err != nil {
			return errors.NewConfigError("env", "reading "+filepath.Base(file), err)
		}
		for k, v := range values {
			merged[k] = v
		}
	}
	for k, v := range merged {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return errors.NewConfigError("env", "setting "+k, err)
		}
	}
	return nil
}
