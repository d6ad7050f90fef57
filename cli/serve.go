package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-sentinel/database"
	"go-sentinel/engine"
	"go-sentinel/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP scan API",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()

			db, err := database.New(viper.GetString("db"))
			if err != nil {
				logrus.Fatalf("couldn't open database: %v", err)
			}

			eng := newEngine(viper.GetInt("max-sessions"), engine.WithArchiver(db))
			defer eng.Shutdown()

			return server.Start(eng, viper.GetString("listen"))
		},
	}

	cmd.Flags().String("listen", ":8080", "Listen address")
	cmd.Flags().String("db", "sentinel.db", "SQLite archive path")
	cmd.Flags().Int("max-sessions", engine.DefaultMaxSessions, "Concurrent session cap")
	_ = viper.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("db", cmd.Flags().Lookup("db"))
	_ = viper.BindPFlag("max-sessions", cmd.Flags().Lookup("max-sessions"))

	return cmd
}
