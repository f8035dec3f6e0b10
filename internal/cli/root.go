// Package cli implements the chessmania command line.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:  "chessmania",
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
				return nil
			}
			level, err := logrus.ParseLevel(cmd.Flag("log-level").Value.String())
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	// global flags
	AddLogFlags(root)

	versionStr := "v0.1.0\n"
	root.SetVersionTemplate(versionStr)
	root.Version = versionStr

	root.AddCommand(Serve())
	root.AddCommand(Perft())
	root.AddCommand(Moves())

	return root
}

// AddLogFlags registers the --trace and --log-level flags on cmd and its
// subcommands.
func AddLogFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")
	cmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
}
