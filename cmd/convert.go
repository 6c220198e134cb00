package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pantrywatch/pantrywatch/pkg/storage"
	"github.com/pantrywatch/pantrywatch/pkg/units"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <quantity> <unit>",
	Short: "Convert a quantity between metric storage units and imperial display units",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := units.ParseQuantity(args[0])
		if err != nil {
			return fmt.Errorf("quantity %q is not numeric", args[0])
		}
		unit := args[1]

		reverse, _ := cmd.Flags().GetBool("reverse")
		if reverse {
			res := units.ToCanonical(qty, unit)
			fmt.Printf("%g %s\n", res.Quantity, res.Unit)
			return nil
		}

		target, _ := cmd.Flags().GetString("to")
		if target == "" {
			target = preferredSystem(cmd)
		}
		system, ok := units.ParseSystem(target)
		if !ok {
			return fmt.Errorf("unknown measurement system %q (want metric or imperial)", target)
		}

		res := units.Convert(qty, unit, system)
		fmt.Printf("%g %s\n", res.Quantity, res.Unit)
		return nil
	},
}

// preferredSystem resolves the target system from the stored UNIT_PREFERENCE
// slot, falling back to the config file.
func preferredSystem(cmd *cobra.Command) string {
	db, err := storage.Open(databasePath(cmd))
	if err == nil {
		defer db.Close()
		if pref, ok, err := db.GetSlot(context.Background(), storage.SlotUnitPreference); err == nil && ok {
			return pref
		}
	}
	return viper.GetString("units.system")
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("to", "t", "", "Target system: metric or imperial (default: stored preference)")
	convertCmd.Flags().BoolP("reverse", "r", false, "Convert imperial input back to the canonical metric unit")
}
