// Package where resolves the directories vidscout reads and writes. Every
// returned directory exists.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/vidscout/vidscout/constant"
	"github.com/vidscout/vidscout/filesystem"
)

// Overrides for the base directories.
const (
	EnvConfigPath = "VIDSCOUT_CONFIG_PATH"
	EnvCachePath  = "VIDSCOUT_CACHE_PATH"
)

func mkdir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// base picks env when set, otherwise <userDir>/vidscout, otherwise ./.vidscout/fallback.
func base(env string, userDir func() (string, error), fallback string) string {
	if custom, ok := os.LookupEnv(env); ok && custom != "" {
		return mkdir(custom)
	}

	if dir, err := userDir(); err == nil {
		return mkdir(filepath.Join(dir, constant.Vidscout))
	}

	return mkdir(filepath.Join("."+constant.Vidscout, fallback))
}

// Config holds vidscout.toml.
func Config() string {
	return base(EnvConfigPath, os.UserConfigDir, "config")
}

// Cache holds the Lua http cache and the version check.
func Cache() string {
	return base(EnvCachePath, os.UserCacheDir, "cache")
}

func Logs() string {
	return mkdir(filepath.Join(Config(), "logs"))
}

// Extractors holds the per-site Lua scripts.
func Extractors() string {
	return mkdir(filepath.Join(Config(), "extractors"))
}
