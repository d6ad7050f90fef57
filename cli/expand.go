package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"go-sentinel/target"
)

func newExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand [specs...]",
		Short: "Show how target specs expand into hosts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("provide at least one target spec")
			}
			hosts := target.ExpandAll(args)
			for _, h := range hosts {
				fmt.Println(h)
			}
			fmt.Printf("%d hosts\n", len(hosts))
			return nil
		},
	}
}
