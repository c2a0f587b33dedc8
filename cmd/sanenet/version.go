package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mzyy94/sanenet/internal/sane"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sanenet %s (protocol %s, %s %s/%s)\n",
				version, sane.ProtocolVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
