// Package main provides the itms-publisher CLI application.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/itms-toolkit/itms-publisher/pkg/config"
	"github.com/itms-toolkit/itms-publisher/pkg/errors"
	"github.com/itms-toolkit/itms-publisher/pkg/observability"
	"github.com/itms-toolkit/itms-publisher/pkg/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	homeDir    string
}

// binding maps a config key to the flag overriding it.
type binding struct {
	key  string
	flag string
}

var globalBindings = []binding{
	{"global.log_level", "log-level"},
	{"global.log_file", "log-file"},
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "itms-publisher",
		Short: "Publish Cucumber test reports to iTMS",
		Long: `itms-publisher - Publish Cucumber reports from a CI build to iTMS.

Run it as a post-build step: it scans the report folder of the workspace
for Cucumber JSON or JUnit files and submits each one, together with the
build number, status and user, to the configured iTMS server.`,
		Version:      version.FullString(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default is ./"+config.ProjectConfigFile+")")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "write JSON logs to this file, rotated by size")

	rootCmd.AddCommand(newPublishCmd(opts))
	rootCmd.AddCommand(newTestCmd(opts))
	rootCmd.AddCommand(newConfigureCmd(opts))
	rootCmd.AddCommand(newCyclesCmd(opts))
	rootCmd.AddCommand(newFormatsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig loads the config files and environment, then applies the
// flags of cmd that were set explicitly.
func (o *globalOptions) loadConfig(cmd *cobra.Command, bindings ...binding) (*config.Config, error) {
	loader := config.NewLoader()
	if o.homeDir != "" {
		loader.WithHomeDir(o.homeDir)
	}
	if o.configFile != "" {
		loader.WithFile(o.configFile)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, errors.ConfigError("failed to load configuration", err)
	}

	all := append(append([]binding{}, bindings...), globalBindings...)
	v, err := bindFlags(cmd, all)
	if err != nil {
		return nil, err
	}

	strs := cfg.StringFields()
	bools := cfg.BoolFields()
	for _, b := range all {
		if !v.IsSet(b.key) {
			continue
		}
		if dst, ok := strs[b.key]; ok {
			*dst = v.GetString(b.key)
		}
		if dst, ok := bools[b.key]; ok {
			*dst = v.GetBool(b.key)
		}
	}

	cfg.Trim()
	return cfg, nil
}

// bindFlags binds the flags of cmd to their config keys. The environment
// is consulted as well, using the same ITMS_PUBLISHER_SECTION__KEY names
// as the config loader.
func bindFlags(cmd *cobra.Command, bindings []binding) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	for _, b := range bindings {
		f := cmd.Flags().Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(b.key, f); err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("failed to bind flag --%s", b.flag), err)
		}
	}
	return v, nil
}

// newLogger creates the structured logger described by cfg.
func newLogger(cmd *cobra.Command, cfg *config.Config) (observability.Logger, error) {
	logger, err := observability.New(observability.Options{
		Level:   cfg.Global.LogLevel,
		File:    cfg.Global.LogFile,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, errors.ConfigError("failed to create logger", err)
	}
	return logger, nil
}
