package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"

	"github.com/pantrywatch/pantrywatch/internal/utils"
)

const keyringService = "pantrywatch"
const keyringUser = "api-token"

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the inventory API token",
}

// authSetTokenCmd represents the auth set-token command
var authSetTokenCmd = &cobra.Command{
	Use:   "set-token <token>",
	Short: "Store the API token in the OS keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keyring.Set(keyringService, keyringUser, args[0]); err != nil {
			return fmt.Errorf("could not store token in keyring: %w", err)
		}
		fmt.Println("Token stored.")
		return nil
	},
}

// authShowCmd represents the auth show command
var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show where the API token comes from",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := keyring.Get(keyringService, keyringUser); err == nil {
			fmt.Println("Token source: OS keyring")
			return nil
		}
		if viper.GetString("api.token") != "" {
			fmt.Println("Token source: config file (consider `pantrywatch auth set-token` instead)")
			return nil
		}
		fmt.Println("No API token configured.")
		return nil
	},
}

// authClearCmd represents the auth clear command
var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the API token from the OS keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keyring.Delete(keyringService, keyringUser); err != nil {
			return fmt.Errorf("could not remove token: %w", err)
		}
		fmt.Println("Token removed.")
		return nil
	},
}

// apiToken resolves the inventory API token: OS keyring first, config file as
// the fallback for hosts without a usable keyring.
func apiToken() string {
	if token, err := keyring.Get(keyringService, keyringUser); err == nil && token != "" {
		return token
	} else if err != nil && err != keyring.ErrNotFound {
		utils.Log.Debugf("keyring unavailable: %v", err)
	}
	return viper.GetString("api.token")
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetTokenCmd)
	authCmd.AddCommand(authShowCmd)
	authCmd.AddCommand(authClearCmd)
}
