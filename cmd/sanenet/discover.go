package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mzyy94/sanenet/internal/sane"
)

func discoverCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find saned servers via mDNS",
		RunE: func(cmd *cobra.Command, args []string) error {
			servers, err := sane.Discover(cmd.Context(), sane.DiscoverOptions{Timeout: timeout})
			if err != nil {
				return err
			}
			if len(servers) == 0 {
				fmt.Println("no saned servers found")
				return nil
			}
			for _, s := range servers {
				fmt.Printf("%s\t%s\n", s.Name, s.Addr())
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "how long to browse")
	return cmd
}
