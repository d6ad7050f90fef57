package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-sentinel/credentials"
	"go-sentinel/engine"
	"go-sentinel/models"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [targets...]",
		Short: "Run a one-shot scan and print findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("provide at least one target")
			}
			printBanner()

			cfg := &models.ScanConfig{
				Modules:   viper.GetStringSlice("modules"),
				Ports:     viper.GetIntSlice("ports"),
				WebScan:   viper.GetBool("web"),
				TimeoutMs: viper.GetInt("timeout"),
			}
			if credFile := viper.GetString("credentials"); credFile != "" {
				creds, err := credentials.Load(credFile)
				if err != nil {
					return err
				}
				cfg.Credentials = creds
			}

			events := engine.NewChannelEvents(256)
			eng := newEngine(1, engine.WithEvents(events))
			defer eng.Shutdown()

			id, err := eng.Start(args, cfg)
			if err != nil {
				return err
			}

			for ev := range events.C {
				switch ev.Kind {
				case "progress":
					fmt.Printf("\rprogress: %3d%%", ev.Percent)
				case "failed":
					fmt.Println()
					return fmt.Errorf("scan failed: %v", ev.Err)
				case "stopped":
					fmt.Println("\nscan stopped")
					session, _ := eng.Status(id)
					printFindings(&session)
					return nil
				case "completed":
					fmt.Println()
					session, _ := eng.Status(id)
					printFindings(&session)
					return nil
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("modules", nil, "Module selection (default: all)")
	cmd.Flags().IntSlice("ports", nil, "Port list for the network module")
	cmd.Flags().Bool("web", false, "Force web scanning of all targets")
	cmd.Flags().String("credentials", "", "Credentials file (YAML)")
	_ = viper.BindPFlag("modules", cmd.Flags().Lookup("modules"))
	_ = viper.BindPFlag("ports", cmd.Flags().Lookup("ports"))
	_ = viper.BindPFlag("web", cmd.Flags().Lookup("web"))
	_ = viper.BindPFlag("credentials", cmd.Flags().Lookup("credentials"))

	return cmd
}

var severityColors = map[models.Severity]*color.Color{
	models.SeverityCritical: color.New(color.FgRed, color.Bold),
	models.SeverityHigh:     color.New(color.FgRed),
	models.SeverityMedium:   color.New(color.FgYellow),
	models.SeverityLow:      color.New(color.FgCyan),
	models.SeverityInfo:     color.New(color.FgWhite),
}

func printFindings(session *models.ScanSession) {
	for _, f := range session.Findings {
		c, ok := severityColors[f.Severity]
		if !ok {
			c = color.New(color.FgWhite)
		}
		c.Printf("[%-8s] ", f.Severity)
		fmt.Printf("%-20s %s\n", f.Target, f.Title)
		if f.Description != "" {
			fmt.Printf("           %s\n", f.Description)
		}
	}

	sum := session.Summarize()
	fmt.Printf("\n%d findings (%d critical, %d high, %d medium, %d low, %d info) across %d targets in %s\n",
		sum.Counts.Total, sum.Counts.Critical, sum.Counts.High, sum.Counts.Medium,
		sum.Counts.Low, sum.Counts.Info, sum.TargetsScanned, sum.Duration)
}
