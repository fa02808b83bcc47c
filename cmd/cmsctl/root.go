package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpupo63/consultancy-site-backend/client"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "cmsctl",
	Short: "Manage the consultancy site content from the terminal",
	Long: `cmsctl drives the admin API of the consultancy site: log in, list and
filter content with the same paging as the admin pages, export rows as JSON
and delete selections in bulk.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if viper.GetBool("verbose") {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/cmsctl/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "API root, e.g. https://example.com/api")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log requests and retries")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "cmsctl")
	}
	return filepath.Join(".", ".cmsctl")
}

func initConfig() {
	viper.SetDefault("api_url", "http://localhost:8080/api")
	viper.SetDefault("session_file", filepath.Join(configDir(), "token"))
	viper.SetDefault("timeout", "10s")

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
		viper.AddConfigPath("$HOME/.config/cmsctl")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CMSCTL")
	// CMSCTL_API_URL for api_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// newClient builds an API client whose session lives in session_file
func newClient() *client.Client {
	session := client.NewFileSession(viper.GetString("session_file"))
	return client.New(viper.GetString("api_url"), session,
		client.WithTimeout(viper.GetDuration("timeout")),
		client.WithUnauthorizedHook(func() {
			log.Warn().Msg("Session expired, run 'cmsctl login' again")
		}),
	)
}
