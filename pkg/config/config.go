package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/limaJavier/timetabling-lp/pkg/model"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "TTLP"

type Config struct {
	Compiler CompilerConfig `mapstructure:"compiler"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
}

type CompilerConfig struct {
	Rooms             bool   `mapstructure:"rooms"`
	IdleTracking      bool   `mapstructure:"idle"`
	WorkingDays       bool   `mapstructure:"working_days"`
	DoubleLinking     string `mapstructure:"double_linking"` // paired | relaxed
	DoubleFloor       string `mapstructure:"double_floor"`   // shortfall | hard
	Naming            string `mapstructure:"naming"`         // sequential | descriptive
	RoomPrecheck      bool   `mapstructure:"room_precheck"`
	RoomPrecheckLimit int    `mapstructure:"room_precheck_limit"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

type ServerConfig struct {
	Port         int   `mapstructure:"port"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// Load reads the configuration. Environment variables (TTLP_ prefixed, also read from an optional .env file) win over the configuration file, which wins over the defaults
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	//** Defaults
	defaults := model.DefaultOptions()
	v.SetDefault("compiler.rooms", false)
	v.SetDefault("compiler.idle", defaults.IdleTracking)
	v.SetDefault("compiler.working_days", defaults.WorkingDays)
	v.SetDefault("compiler.double_linking", "paired")
	v.SetDefault("compiler.double_floor", "shortfall")
	v.SetDefault("compiler.naming", defaults.Naming.String())
	v.SetDefault("compiler.room_precheck", defaults.RoomPrecheck)
	v.SetDefault("compiler.room_precheck_limit", defaults.RoomPrecheckLimit)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_bytes", 32<<20)

	//** Configuration file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	//** Environment
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Without a configuration file only defaults and environment apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("cannot read configuration file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadDotEnv(file string) error {
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		return fmt.Errorf("cannot load %v: %w", file, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := c.Compiler.Options(nil); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Compiler.RoomPrecheckLimit <= 0 {
		return fmt.Errorf("invalid configuration: compiler.room_precheck_limit must be positive")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid configuration: log.level: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid configuration: log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid configuration: server.port must be between 1 and 65535")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid configuration: server.max_body_bytes must be positive")
	}
	return nil
}

// Options translates the compiler section into compiler options
func (c CompilerConfig) Options(logger *zap.Logger) (model.Options, error) {
	options := model.DefaultOptions()
	options.IdleTracking = c.IdleTracking
	options.WorkingDays = c.WorkingDays
	options.RoomPrecheck = c.RoomPrecheck
	options.RoomPrecheckLimit = c.RoomPrecheckLimit
	if logger != nil {
		options.Logger = logger
	}

	var err error
	if options.DoubleLinking, err = model.ParseDoubleLinking(c.DoubleLinking); err != nil {
		return options, err
	}
	if options.DoubleFloor, err = model.ParseDoubleFloor(c.DoubleFloor); err != nil {
		return options, err
	}
	if options.Naming, err = model.ParseNaming(c.Naming); err != nil {
		return options, err
	}

	return options, nil
}

// NewCompiler builds the compiler the section selects
func (c CompilerConfig) NewCompiler(logger *zap.Logger) (model.Compiler, error) {
	options, err := c.Options(logger)
	if err != nil {
		return nil, err
	}
	if c.Rooms {
		return model.NewEmbeddedRoomCompiler(options), nil
	}
	return model.NewTimeOnlyCompiler(options), nil
}
