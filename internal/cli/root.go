// Package cli implements modctl, the moderation command line tool. It
// talks to a running bloghub server over the HTTP API.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bloghub/internal/cli/moderation"
)

var rootCmd = &cobra.Command{
	Use:   "modctl",
	Short: "bloghub moderation CLI",
	Long:  "Review, approve and remove comments on a bloghub server",
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "bloghub server base URL")
	rootCmd.PersistentFlags().String("token", "", "moderator bearer token")
	_ = viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("user.token", rootCmd.PersistentFlags().Lookup("token"))

	rootCmd.AddCommand(moderation.ModerationCmd)
}

func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}

	viper.SetConfigFile(filepath.Join(home, ".bloghub", "config.yaml"))
	viper.SetEnvPrefix("BLOGHUB")
	viper.AutomaticEnv()

	// Missing config file is fine; flags and env still apply
	_ = viper.ReadInConfig()
}
