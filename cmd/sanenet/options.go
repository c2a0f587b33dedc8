package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mzyy94/sanenet/internal/sane"
)

func optionsCmd() *cobra.Command {
	var server, device string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the option descriptors of a device",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, session, err := connect(server)
			if err != nil {
				return err
			}
			defer conn.Close()

			handle, err := openDevice(session, device)
			if err != nil {
				return err
			}
			defer session.CloseDevice(handle)

			descriptors, err := session.OptionDescriptors(handle)
			if err != nil {
				return err
			}
			for i, d := range descriptors {
				if d == nil {
					continue
				}
				if d.Type == sane.TypeGroup {
					fmt.Printf("\n[%s]\n", d.Title)
					continue
				}
				inactive := ""
				if d.Capabilities.Has(sane.CapInactive) {
					inactive = " (inactive)"
				}
				fmt.Printf("%3d  %-24s %-8s unit=%-7s size=%d%s%s\n",
					i, d.Name, d.Type, d.Unit, d.Size, constraintSummary(d.Constraint), inactive)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "saned host or host:port")
	cmd.Flags().StringVar(&device, "device", "", "device name (default: first device)")
	return cmd
}
