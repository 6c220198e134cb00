package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pantrywatch/pantrywatch/internal/utils"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pantrywatch",
	Short: "Expiry alerts and unit conversion for your household food inventory.",
	Long: `pantrywatch watches your food inventory for items that are about to expire,
schedules device alerts for them (at most once per item per day), and converts
quantities between metric storage units and imperial display units.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pantrywatch.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("dbpath", "", "", "Path to the local database (default is $HOME/.pantrywatch.sqlite)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".pantrywatch")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.pantrywatch.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("api.base_url", "")
	viper.SetDefault("api.user_id", "")
	viper.SetDefault("api.token", "")
	viper.SetDefault("units.system", "metric")
	viper.SetDefault("notify.base_delay_seconds", 5)
	viper.SetDefault("notify.stride_seconds", 2)
	viper.SetDefault("notify.window_days", 3)
	viper.SetDefault("notify.command", "notify-send")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// databasePath resolves the --dbpath flag, falling back to a dotfile next to
// the config.
func databasePath(cmd *cobra.Command) string {
	dbPath, _ := cmd.Flags().GetString("dbpath")
	if dbPath != "" {
		return dbPath
	}
	home, err := homedir.Dir()
	if err != nil {
		return ".pantrywatch.sqlite"
	}
	return filepath.Join(home, ".pantrywatch.sqlite")
}
