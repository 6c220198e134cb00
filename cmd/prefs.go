package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantrywatch/pantrywatch/pkg/storage"
	"github.com/pantrywatch/pantrywatch/pkg/units"
)

// prefsCmd represents the prefs command
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage stored preferences",
}

// prefsGetCmd represents the prefs get command
var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the stored unit-system preference",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(preferredSystem(cmd))
		return nil
	},
}

// prefsSetCmd represents the prefs set command
var prefsSetCmd = &cobra.Command{
	Use:   "set <metric|imperial>",
	Short: "Store the unit-system preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		system, ok := units.ParseSystem(args[0])
		if !ok {
			return fmt.Errorf("unknown measurement system %q (want metric or imperial)", args[0])
		}

		db, err := storage.Open(databasePath(cmd))
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SetSlot(cmd.Context(), storage.SlotUnitPreference, string(system)); err != nil {
			return err
		}
		fmt.Printf("Unit preference set to %s.\n", system)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
}
