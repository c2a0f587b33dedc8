package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func devicesCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List devices on a saned server",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, session, err := connect(server)
			if err != nil {
				return err
			}
			defer conn.Close()

			devices, err := session.ListDevices()
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Println("no devices")
				return nil
			}
			for _, d := range devices {
				fmt.Printf("%s\t%s %s (%s)\n", d.Name, d.Vendor, d.Model, d.Kind)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "saned host or host:port")
	return cmd
}
