package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm-memory/engine"
	"github.com/wippyai/wasm-memory/memory"
)

const (
	envPrefix = "MEMVIEW"

	keyConfig      = "config"
	keyVerbose     = "verbose"
	keyMemory      = "memory"
	keyMemoryLimit = "memory-limit"
	keyWIT         = "wit"
)

type baseConfiguration struct {
	CfgFile     string
	Verbose     bool
	Memory      string
	MemoryLimit uint32
	WITFile     string

	log *zap.Logger
}

func (c *baseConfiguration) addConfigurationFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&c.CfgFile, keyConfig, "", "YAML configuration file")
	cmd.PersistentFlags().BoolVarP(&c.Verbose, keyVerbose, "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&c.Memory, keyMemory, "memory", "name of the exported memory")
	cmd.PersistentFlags().Uint32Var(&c.MemoryLimit, keyMemoryLimit, 0, "cap every memory at this many pages (0 = no cap)")
	cmd.PersistentFlags().StringVar(&c.WITFile, keyWIT, "", "WIT file describing exported function signatures")
}

// initializeConfig reads the config file and MEMVIEW_* environment variables
// and applies them to every flag the user did not set explicitly.
func (c *baseConfiguration) initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	if c.CfgFile != "" {
		v.SetConfigFile(c.CfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", c.CfgFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	return bindFlags(cmd, v)
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindFlagErr []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == keyConfig {
			return
		}

		// --memory-limit binds to MEMVIEW_MEMORY_LIMIT
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				bindFlagErr = append(bindFlagErr, fmt.Errorf("binding env to flag %q: %w", f.Name, err))
				return
			}
		}

		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				bindFlagErr = append(bindFlagErr, fmt.Errorf("setting flag %q value: %w", f.Name, err))
				return
			}
		}
	})

	return errors.Join(bindFlagErr...)
}

// initLogger builds the CLI logger and hands it to the library packages.
func (c *baseConfiguration) initLogger(cmd *cobra.Command) error {
	var (
		log *zap.Logger
		err error
	)
	if c.Verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		log, err = cfg.Build()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		cfg.Encoding = "console"
		cfg.OutputPaths = []string{"stderr"}
		log, err = cfg.Build()
	}
	if err != nil {
		return err
	}

	c.log = log.Named(cmd.Name())
	memory.SetLogger(c.log.Named("memory"))
	engine.SetLogger(c.log.Named("engine"))
	return nil
}

func (c *baseConfiguration) engineConfig() *engine.Config {
	return &engine.Config{MemoryLimitPages: c.MemoryLimit}
}

func (c *baseConfiguration) witText() (string, error) {
	if c.WITFile == "" {
		return "", nil
	}
	b, err := os.ReadFile(c.WITFile)
	if err != nil {
		return "", fmt.Errorf("read WIT file: %w", err)
	}
	return string(b), nil
}

func (c *baseConfiguration) logger() *zap.Logger {
	if c.log == nil {
		return zap.NewNop()
	}
	return c.log
}
