package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pantrywatch/pantrywatch/pkg/dayspan"
	"github.com/pantrywatch/pantrywatch/pkg/inventory"
	"github.com/pantrywatch/pantrywatch/pkg/units"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items expiring soon, with quantities in your preferred units",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		baseURL := viper.GetString("api.base_url")
		if baseURL == "" {
			return fmt.Errorf("no api.base_url configured; set it in ~/.pantrywatch.yaml")
		}
		client, err := inventory.NewClient(baseURL, viper.GetString("api.user_id"), apiToken())
		if err != nil {
			return err
		}

		items, err := client.Expiring(cmd.Context(), days)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Nothing expiring in the requested window.")
			return nil
		}

		system, _ := units.ParseSystem(preferredSystem(cmd))
		now := time.Now()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ITEM\tQUANTITY\tEXPIRES\tSTATUS\t")
		for _, it := range items {
			qty := units.Convert(it.Quantity, it.Unit, system)
			fmt.Fprintf(w, "%s\t%g %s\t%s\t%s\t\n", it.DisplayName, qty.Quantity, qty.Unit, it.ExpiryDate, freshness(it.ExpiryDate, now))
		}
		w.Flush()
		return nil
	},
}

// freshness buckets mirror the backend's freshness_status thresholds.
func freshness(expiryDate string, now time.Time) string {
	daysLeft, err := dayspan.DaysUntil(expiryDate, now)
	if err != nil {
		return "unknown"
	}
	switch {
	case daysLeft < 0:
		return "expired"
	case daysLeft <= 3:
		return "expiring soon"
	case daysLeft <= 7:
		return "consume soon"
	default:
		return "fresh"
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntP("days", "d", 7, "How many days ahead to look")
}
