package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pantrywatch/pantrywatch/internal/server"
	"github.com/pantrywatch/pantrywatch/internal/utils"
	"github.com/pantrywatch/pantrywatch/pkg/expiry"
	"github.com/pantrywatch/pantrywatch/pkg/history"
	"github.com/pantrywatch/pantrywatch/pkg/notify"
	"github.com/pantrywatch/pantrywatch/pkg/storage"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pantrywatch HTTP API",
	Long: `Runs a long-lived HTTP API exposing unit conversion, alert scheduling and
notification history. Alerts scheduled through the API fire as desktop
notifications from this process when their delay elapses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		auth, _ := cmd.Flags().GetString("auth")

		var user, pass string
		if auth != "" {
			parts := strings.SplitN(auth, ":", 2)
			if len(parts) != 2 {
				return fmt.Errorf("--auth must be user:password")
			}
			user, pass = parts[0], parts[1]
		}

		db, err := storage.Open(databasePath(cmd))
		if err != nil {
			return err
		}
		defer db.Close()

		notifier := notify.NewCommandNotifier(strings.Fields(viper.GetString("notify.command")), utils.Log)
		sched := expiry.New(expiry.Config{
			History:          history.NewStore(db),
			Notifier:         notifier,
			Log:              utils.Log,
			BaseDelaySeconds: viper.GetInt("notify.base_delay_seconds"),
			StrideSeconds:    viper.GetInt("notify.stride_seconds"),
			WindowDays:       viper.GetInt("notify.window_days"),
		})

		utils.Log.Infof("Listening on %s", listenAddr)
		return server.New(db, sched, user, pass).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("auth", "", "Basic auth credentials as user:password (empty disables auth)")
}
