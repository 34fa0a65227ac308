package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "finwarehouse",
	Short: "Rebuild and query the financial data warehouse",
	Long: "finwarehouse - A CLI tool that rebuilds a star-schema financial data warehouse " +
		"from the operational banking database and runs analytical reports against it",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home + "/.finwarehouse")
	}

	viper.SetEnvPrefix("finwarehouse")
	viper.AutomaticEnv()

	// A missing config file is fine; defaults and env vars apply
	_ = viper.ReadInConfig()
}
