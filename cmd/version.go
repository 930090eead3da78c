package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the runtime's own version string, overridable at link time
// with -ldflags "-X github.com/speedboat/jsrt/cmd.Version=...".
var Version = "0.1.0-dev"

func getVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  "Show the application version and exit.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("jsrt v" + Version)
		},
	}
}
