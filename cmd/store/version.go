package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version, commit, and build information for the store CLI.`,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				printf(cmd, "%s", version)
				return
			}

			printf(cmd, "  Version:    %s", version)
			printf(cmd, "  Commit:     %s", commit)
			printf(cmd, "  Built:      %s", date)
			printf(cmd, "  Go version: %s", runtime.Version())
			printf(cmd, "  OS/Arch:    %s/%s", runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}
