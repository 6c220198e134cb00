package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pantrywatch/pantrywatch/internal/utils"
	"github.com/pantrywatch/pantrywatch/pkg/expiry"
	"github.com/pantrywatch/pantrywatch/pkg/history"
	"github.com/pantrywatch/pantrywatch/pkg/inventory"
	"github.com/pantrywatch/pantrywatch/pkg/notify"
	"github.com/pantrywatch/pantrywatch/pkg/storage"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the inventory for expiring items and schedule alerts",
	Long: `Fetches the current inventory snapshot (from the configured API, or from a
JSON file with --input), finds items expiring within the alert window, and
schedules one staggered device alert per item not already alerted today.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		wait, _ := cmd.Flags().GetBool("wait")
		inputFile, _ := cmd.Flags().GetString("input")

		items, err := loadSnapshot(cmd, inputFile, days)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			utils.Log.Info("Nothing expiring in the next few days.")
			return nil
		}

		db, err := storage.Open(databasePath(cmd))
		if err != nil {
			return err
		}
		defer db.Close()

		var notifier expiry.Notifier
		var cmdNotifier *notify.CommandNotifier
		if dryRun {
			notifier = &notify.LogNotifier{Log: utils.Log}
		} else {
			cmdNotifier = notify.NewCommandNotifier(strings.Fields(viper.GetString("notify.command")), utils.Log)
			notifier = cmdNotifier
		}

		sched := expiry.New(expiry.Config{
			History:          history.NewStore(db),
			Notifier:         notifier,
			Log:              utils.Log,
			BaseDelaySeconds: viper.GetInt("notify.base_delay_seconds"),
			StrideSeconds:    viper.GetInt("notify.stride_seconds"),
			WindowDays:       viper.GetInt("notify.window_days"),
			DryRun:           dryRun,
		})

		res, err := sched.Run(cmd.Context(), items, time.Now())
		if err != nil {
			return err
		}

		for _, req := range res.Requests {
			fmt.Printf("  +%3ds  %s\n", req.DelaySeconds, req.Body)
		}
		if res.Deduped > 0 {
			utils.Log.Infof("%d item(s) already alerted today", res.Deduped)
		}
		for _, e := range res.Errors {
			utils.Log.Warn(e)
		}

		if wait && cmdNotifier != nil && len(res.Requests) > 0 {
			utils.Log.Info("Waiting for alerts to fire...")
			cmdNotifier.Wait()
		}
		return nil
	},
}

// loadSnapshot reads items from a local JSON file or from the inventory API.
func loadSnapshot(cmd *cobra.Command, inputFile string, days int) ([]inventory.ItemSnapshot, error) {
	if inputFile != "" {
		raw, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, err
		}
		var items []inventory.ItemSnapshot
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", inputFile, err)
		}
		return items, nil
	}

	baseURL := viper.GetString("api.base_url")
	if baseURL == "" {
		return nil, fmt.Errorf("no api.base_url configured; set it in ~/.pantrywatch.yaml or use --input")
	}
	client, err := inventory.NewClient(baseURL, viper.GetString("api.user_id"), apiToken())
	if err != nil {
		return nil, err
	}
	return client.Expiring(cmd.Context(), days)
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().IntP("days", "d", 3, "How many days ahead to fetch expiring items")
	scanCmd.Flags().Bool("dry-run", false, "Print what would be scheduled without touching notifications or history")
	scanCmd.Flags().Bool("wait", false, "Block until all scheduled alerts have fired")
	scanCmd.Flags().StringP("input", "i", "", "Read the inventory snapshot from a JSON file instead of the API")
}
