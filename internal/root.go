package internal

import (
	"fmt"

	"github.com/fwbox/burnish/internal/logger"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burnish",
		Short: "Fetch, verify and burn firmware release images",
		Long: `Burnish resolves a firmware or OS image from a release feed, verifies it
against the release's checksum manifest, caches it locally, and can write
it to removable media.`,
		Example: `  burnish fetch demo --target rpi4
  burnish burn demo --target rpi4 --device /dev/sdz`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.ConfigureFromFlags()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			versionFlag, _ := cmd.Flags().GetBool("version")
			if versionFlag {
				fmt.Printf("Version: %s (commit %s, built %s)\n", Version, Commit, Date)
				return
			}
			_ = cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")
	cmd.PersistentFlags().BoolVarP(&logger.FlagVerbose, "verbose", "V", false, "Enable debug output")
	cmd.PersistentFlags().BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only print errors")
	cmd.PersistentFlags().BoolVar(&logger.FlagJSON, "json-logs", false, "Emit JSON logs (CI)")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute() error {
	root := NewRootCmd()

	if err := root.Execute(); err != nil {
		logger.Debug("command failed: %v", err)
		return err
	}
	return nil
}
