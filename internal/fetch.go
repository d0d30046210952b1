package internal

import (
	"github.com/fwbox/burnish/internal/errs"
	"github.com/fwbox/burnish/internal/logger"
	"github.com/spf13/cobra"
)

func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <image>",
		Short: "Download and verify an image, caching it for later runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := catalogImage(cmd, args[0])
			if err != nil {
				return err
			}

			targetFlag, _ := cmd.Flags().GetString("target")
			tag, _ := cmd.Flags().GetString("tag")
			assumeYes, _ := cmd.Flags().GetBool("yes")

			target, err := pickTarget(img, targetFlag)
			if err != nil {
				return err
			}

			o, err := buildOrchestrator(cmd, assumeYes)
			if err != nil {
				return err
			}

			res, err := o.Fetch(cmd.Context(), img, target, tag)
			if err != nil {
				if hint := errs.Hint(errs.KindOf(err)); hint != "" {
					logger.Warn(hint)
				}
				if res != nil && res.TempOnly {
					logger.Warn("verified artifact kept at %s for this run only", res.Path)
				}
				return err
			}

			logger.Info("artifact ready: %s", res.Path)
			return nil
		},
	}

	cmd.Flags().StringP("target", "t", "", "Hardware target to fetch for")
	cmd.Flags().String("tag", "", "Pin a release tag instead of the latest stable")
	cmd.Flags().BoolP("yes", "y", false, "Assume yes on degraded-trust confirmations")
	return cmd
}
