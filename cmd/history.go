package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pantrywatch/pantrywatch/pkg/dayspan"
	"github.com/pantrywatch/pantrywatch/pkg/history"
	"github.com/pantrywatch/pantrywatch/pkg/storage"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show which items have already been alerted, per day",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(databasePath(cmd))
		if err != nil {
			return err
		}
		defer db.Close()

		h, err := history.NewStore(db).Load(cmd.Context())
		if err != nil {
			return err
		}
		if len(h) == 0 {
			fmt.Println("No notification history.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DEDUP KEY\t")
		for _, key := range h.Keys() {
			fmt.Fprintf(w, "%s\t\n", key)
		}
		w.Flush()
		return nil
	},
}

// historyClearCmd represents the history clear command
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all notification history (items may re-alert today)",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(databasePath(cmd))
		if err != nil {
			return err
		}
		defer db.Close()

		if err := history.NewStore(db).Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Notification history cleared.")
		return nil
	},
}

// historyPruneCmd represents the history prune command
var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop history entries older than a given day",
	RunE: func(cmd *cobra.Command, args []string) error {
		before, _ := cmd.Flags().GetString("before")
		if _, err := dayspan.DaysUntil(before, time.Now()); err != nil {
			return fmt.Errorf("--before must be a YYYY-MM-DD date: %w", err)
		}

		db, err := storage.Open(databasePath(cmd))
		if err != nil {
			return err
		}
		defer db.Close()

		removed, err := history.NewStore(db).PruneBefore(cmd.Context(), before)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d entr%s.\n", removed, pluralY(removed))
		return nil
	},
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyPruneCmd)
	historyPruneCmd.Flags().String("before", "", "Drop entries from days before this YYYY-MM-DD date")
	historyPruneCmd.MarkFlagRequired("before")
}
