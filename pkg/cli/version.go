package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func NewVersionCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the version, build date, and git commit of modelrun.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersion(root.OutputOptions())
		},
	}

	return cmd
}

func printVersion(opts *OutputOptions) error {
	if opts.Quiet {
		return nil
	}

	versionInfo := map[string]string{
		"version":   cliVersion,
		"buildDate": cliBuildDate,
		"gitCommit": cliGitCommit,
		"goVersion": runtime.Version(),
	}

	if opts.Format == OutputJSON || opts.Format == OutputYAML {
		return PrintOutput(versionInfo, opts)
	}

	fmt.Fprintf(opts.Writer, "modelrun version %s\n", cliVersion)
	fmt.Fprintf(opts.Writer, "  Commit: %s\n", cliGitCommit)
	fmt.Fprintf(opts.Writer, "  Built:  %s\n", cliBuildDate)
	fmt.Fprintf(opts.Writer, "  Go:     %s\n", versionInfo["goVersion"])
	return nil
}
