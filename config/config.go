// Package config loads settings from defaults, vidscout.toml, .env and
// VIDSCOUT_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/constant"
	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/where"
)

// EnvKeyReplacer maps "detect.ttl" to "detect_ttl".
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup populates viper. A missing config file or .env is not an error.
func Setup() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.Vidscout)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	bindEnv()
	setDefaults()

	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("read config: %w", err)
	}

	return nil
}

func bindEnv() {
	viper.SetEnvPrefix(constant.Vidscout)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, k := range EnvExposed {
		viper.MustBindEnv(k)
	}
}

func setDefaults() {
	viper.SetTypeByDefaultValue(true)
	for k, field := range Default {
		viper.SetDefault(k, field.Value)
	}
}

// Duration reads a duration key. Values that do not parse, or are not
// positive, fall back to the registered default.
func Duration(k string) time.Duration {
	if d := viper.GetDuration(k); d > 0 {
		return d
	}

	if s, ok := Default[k].Value.(string); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}

	return 0
}
