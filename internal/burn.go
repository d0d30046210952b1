package internal

import (
	"fmt"

	"github.com/fwbox/burnish/internal/burner"
	"github.com/fwbox/burnish/internal/errs"
	"github.com/fwbox/burnish/internal/logger"
	"github.com/fwbox/burnish/internal/probe"
	"github.com/fwbox/burnish/internal/prompter"
	"github.com/spf13/cobra"
)

func NewBurnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burn <image>",
		Short: "Fetch an image and write it to removable media",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := catalogImage(cmd, args[0])
			if err != nil {
				return err
			}

			targetFlag, _ := cmd.Flags().GetString("target")
			tag, _ := cmd.Flags().GetString("tag")
			device, _ := cmd.Flags().GetString("device")
			assumeYes, _ := cmd.Flags().GetBool("yes")

			if device == "" {
				return fmt.Errorf("--device is required (e.g. /dev/sdz)")
			}

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
				if res == nil || !res.TempOnly {
					return err
				}
				// A verified temp copy is still burnable for this run.
				logger.Warn("burning from temporary copy %s", res.Path)
			}

			if !assumeYes {
				ok, perr := prompter.New(cmd.InOrStdin(), cmd.OutOrStdout()).
					Confirm(fmt.Sprintf("About to overwrite %s with %s. Continue?", device, res.Path))
				if perr != nil {
					return perr
				}
				if !ok {
					return fmt.Errorf("burn aborted")
				}
			}

			p := probe.New()
			b := burner.New(nil, p.FwupPath())
			if err := b.Burn(cmd.Context(), res.Path, res.Format, device); err != nil {
				return err
			}

			logger.Success("wrote %s (release %s) to %s", img.Name, res.Version, device)
			return nil
		},
	}

	cmd.Flags().StringP("target", "t", "", "Hardware target to burn for")
	cmd.Flags().String("tag", "", "Pin a release tag instead of the latest stable")
	cmd.Flags().StringP("device", "d", "", "Block device to write to")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmations (degraded trust and device overwrite)")
	return cmd
}
