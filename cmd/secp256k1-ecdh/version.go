package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

const versionFormat = "%s version %s-%s (%s %s/%s)"

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "unknown"
)

func versionString() string {
	return fmt.Sprintf(versionFormat, appName, version, commit, runtime.Version(),
		runtime.GOOS, runtime.GOARCH)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version of the " + appName + " binary",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}
}
