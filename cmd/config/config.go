package config

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmdvault/cmdvault/pkg/service"
	"github.com/cmdvault/cmdvault/pkg/sync"
)

var (
	cfgFile string
	Verbose bool
)

// InitConfig wires viper: config file, env overrides and defaults.
func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "cmdvault")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CMDVAULT")

	viper.SetDefault("data_dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "cmdvault"))
	viper.SetDefault("sync.max_versions", sync.DefaultMaxVersions)
	viper.SetDefault("sync.description", "cmdvault backup")
	viper.SetDefault("sync.auto_sync", true)

	// Missing config file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

// NewLogger builds the process logger.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

// InitService builds the vault service from the resolved configuration.
func InitService() (*service.Service, error) {
	syncOpts, err := sync.DecodeOptions(viper.GetStringMap("sync"))
	if err != nil {
		return nil, err
	}

	cfg := &service.Config{
		DataDir: viper.GetString("data_dir"),
		GHToken: viper.GetString("gh_token"),
		Sync:    syncOpts,
	}
	return service.New(cfg, NewLogger())
}

// AddGlobalFlags registers flags shared by every subcommand.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/cmdvault/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "enable debug logging")
}
