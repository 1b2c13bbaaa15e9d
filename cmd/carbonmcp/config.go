package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gnana997/carbonmcp/pkg/loader"
)

const defaultConfigFile = ".carbonmcp/config.yaml"

// Setting keys. Nested keys map to nested YAML in the config file.
const (
	keyConfig      = "config"
	keyDataDir     = "data_dir"
	keyComponents  = "components"
	keyTokens      = "tokens"
	keyIcons       = "icons"
	keyPictograms  = "pictograms"
	keyLogLevel    = "log.level"
	keyLogFormat   = "log.format"
	keyToolLog     = "tool_log"
	keyMetricsAddr = "metrics_addr"
	keyWatch       = "watch"
)

func mustBindFlag(v *viper.Viper, key, env string, flag *pflag.Flag) {
	if flag == nil {
		panic(fmt.Sprintf("flag for key %s not found", key))
	}
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
	if env != "" {
		if err := v.BindEnv(key, env); err != nil {
			panic(err)
		}
	}
}

// loadConfig reads the config file. The default location is optional; a
// file named with --config must exist.
func (a *app) loadConfig() error {
	path := a.v.GetString(keyConfig)
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	a.v.SetConfigFile(path)
	a.v.SetConfigType("yaml")
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return nil
}

// sources resolves the four snapshot paths from the current settings.
func (a *app) sources() loader.Sources {
	return loader.ResolveSources(a.v.GetString(keyDataDir), loader.Sources{
		Components: a.v.GetString(keyComponents),
		Tokens:     a.v.GetString(keyTokens),
		Icons:      a.v.GetString(keyIcons),
		Pictograms: a.v.GetString(keyPictograms),
	})
}
