package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	port_scanner "go-sentinel/port-scanner"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [targets...]",
		Short: "Discover live hosts via TCP ping",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("provide at least one target or CIDR")
			}

			d := &port_scanner.HostDiscoverer{
				Timeout: time.Duration(viper.GetInt("timeout")) * time.Millisecond,
				Workers: viper.GetInt("workers"),
				OnProgress: func(done, total int) {
					fmt.Printf("\rchecked %d/%d hosts", done, total)
				},
			}

			live := d.Discover(context.Background(), args)
			fmt.Println()
			for _, h := range live {
				fmt.Println(h)
			}
			fmt.Printf("%d live hosts\n", len(live))
			return nil
		},
	}

	cmd.Flags().Int("workers", 20, "Concurrent probes")
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	return cmd
}
