package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/color"
	"github.com/vidscout/vidscout/config"
	"github.com/vidscout/vidscout/constant"
	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/icon"
	"github.com/vidscout/vidscout/style"
	"github.com/vidscout/vidscout/where"
	"golang.org/x/exp/slices"
)

// closestKey suggests the registered key nearest to a mistyped one.
func closestKey(k string) string {
	return lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
}

func lookupField(k string) config.Field {
	field, ok := config.Default[k]
	if !ok {
		handleErr(fmt.Errorf(
			"unknown key %s, did you mean %s?",
			style.Fg(color.Red)(k),
			style.Fg(color.Yellow)(closestKey(k)),
		))
	}

	return field
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	keys := lo.Keys(config.Default)
	slices.Sort(keys)
	return keys, cobra.ShellCompDirectiveNoFileComp
}

func configFilePath() string {
	return filepath.Join(where.Config(), constant.Vidscout+".toml")
}

// persist writes the in-memory settings, creating the file on first use.
func persist() {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		handleErr(viper.SafeWriteConfig())
	default:
		handleErr(err)
	}
}

// parseValue converts raw command-line words into the type of the field default.
func parseValue(field config.Field, raw []string) (any, error) {
	switch field.Value.(type) {
	case string:
		return raw[0], nil
	case int:
		v, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", raw[0])
		}
		return v, nil
	case bool:
		v, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw[0])
		}
		return v, nil
	case []string:
		return lo.FlatMap(raw, func(s string, _ int) []string {
			return lo.Compact(strings.Split(s, ","))
		}), nil
	default:
		return nil, fmt.Errorf("unsupported type for %s", field.Key)
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change detection settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Only describe these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe configuration fields with their current values",
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Must(cmd.Flags().GetStringSlice("key"))

		fields := lo.Values(config.Default)
		if len(keys) > 0 {
			fields = lo.Map(keys, func(k string, _ int) config.Field {
				return lookupField(k)
			})
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, f := range fields {
			if i == 0 || fields[i-1].Section() != f.Section() {
				if i > 0 {
					cmd.Println()
				}
				cmd.Println(header("[" + f.Section() + "]"))
			}

			cmd.Println(f.Pretty())
			if i < len(fields)-1 {
				cmd.Println()
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a key",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(args[0])
		fmt.Println(viper.Get(field.Key))
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>...",
	Short: "Change a key and save it to the config file",
	Long: `Change a key and save it to the config file.
List values accept several arguments or a comma separated string.`,
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(args[0])

		v, err := parseValue(field, args[1:])
		handleErr(err)

		viper.Set(field.Key, v)
		persist()

		fmt.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(field.Key),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().BoolP("all", "a", false, "Reset every key")
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key]",
	Short:             "Restore a key to its default value",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		if all == (len(args) == 1) {
			handleErr(errors.New("pass either a key or --all"))
		}

		if all {
			for k, field := range config.Default {
				viper.Set(k, field.Value)
			}
			persist()
			fmt.Printf("%s reset all config values\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		field := lookupField(args[0])
		viper.Set(field.Key, field.Value)
		persist()

		fmt.Printf(
			"%s reset %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(field.Key),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", field.Value)),
		)
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfig())
		fmt.Printf("%s wrote config to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

func init() {
	configCmd.AddCommand(configEnvCmd)
	configEnvCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	configEnvCmd.SetOut(os.Stdout)
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override settings",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))

		names := lo.Map(config.EnvExposed, func(k string, _ int) string {
			return config.Default[k].Env()
		})
		names = append(names, where.EnvConfigPath, where.EnvCachePath)
		slices.Sort(names)

		for _, name := range names {
			value, present := os.LookupEnv(name)
			if setOnly && !present {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(name), "=")
			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
