package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mzyy94/sanenet/internal/sane"
)

func setCmd() *cobra.Command {
	var server, device string
	var auto bool

	cmd := &cobra.Command{
		Use:   "set <option> [value]",
		Short: "Set a device option",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !auto && len(args) < 2 {
				return fmt.Errorf("a value is required unless --auto is given")
			}

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

			action := sane.ActionSet
			var value sane.OptionValue
			if auto {
				action = sane.ActionSetAutomatic
			} else {
				value, err = parseValue(desc, args[1])
				if err != nil {
					return err
				}
			}

			result, err := session.ControlOption(handle, index, action, desc, value)
			if err != nil {
				return err
			}
			if result.Flags.Has(sane.FlagInexact) {
				fmt.Println("note: the device rounded the requested value")
			}
			if result.Flags.Has(sane.FlagReloadOptions) {
				fmt.Println("note: the option list changed, re-run 'options'")
			}
			fmt.Println(formatValue(result.Value))
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "saned host or host:port")
	cmd.Flags().StringVar(&device, "device", "", "device name (default: first device)")
	cmd.Flags().BoolVar(&auto, "auto", false, "let the device pick the value")
	return cmd
}

// parseValue converts CLI text into the value shape the descriptor
// expects on the wire.
func parseValue(desc *sane.OptionDescriptor, text string) (sane.OptionValue, error) {
	switch desc.Type {
	case sane.TypeBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("option %q wants a boolean: %w", desc.Name, err)
		}
		return sane.BoolValue(b), nil
	case sane.TypeInt:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("option %q wants an integer: %w", desc.Name, err)
		}
		return sane.IntValue(n), nil
	case sane.TypeFixed:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("option %q wants a number: %w", desc.Name, err)
		}
		return sane.FixedFromFloat(f), nil
	case sane.TypeString:
		return sane.StringValue{Present: true, Text: text}, nil
	case sane.TypeButton:
		return sane.ButtonValue{}, nil
	}
	return nil, fmt.Errorf("option %q (type %s) is not settable", desc.Name, desc.Type)
}
