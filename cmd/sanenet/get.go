package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mzyy94/sanenet/internal/sane"
)

func getCmd() *cobra.Command {
	var server, device string

	cmd := &cobra.Command{
		Use:   "get <option>",
		Short: "Read the current value of a device option",
		Args:  cobra.ExactArgs(1),
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

			index, desc, err := findOption(session, handle, args[0])
			if err != nil {
				return err
			}
			result, err := session.ControlOption(handle, index, sane.ActionGet, desc, nil)
			if err != nil {
				return err
			}
			fmt.Println(formatValue(result.Value))
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "saned host or host:port")
	cmd.Flags().StringVar(&device, "device", "", "device name (default: first device)")
	return cmd
}
