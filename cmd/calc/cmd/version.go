package cmd

import (
	"fmt"
	"runtime"

	"github.com/patelanuj7/calculatorapp/pkg/core/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Calculator v%s\n", version.Platform)
		for _, c := range components {
			fmt.Fprintf(out, "  %-11s %s\n", c.label+":", version.ComponentVersion(c.name))
		}
		fmt.Fprintf(out, "  Build:      %s\n", version.String())
		fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var components = []struct{ label, name string }{
	{"Engine", "engine"},
	{"Server", "server"},
	{"TUI", "tui"},
	{"CLI", "cli"},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
