package middleware

import (
	"context"

	"github.com/fwbox/burnish/internal/globalconfig"
	"github.com/spf13/cobra"
)

// RequireConfig loads the persistent config and stores it in the command
// context; commands needing a catalog cannot run without it.
func RequireConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	cfg, err := globalconfig.Load()
	if err != nil {
		return err
	}

	ctx := context.WithValue(cmd.Context(), CtxKeyPConfig, cfg)
	cmd.SetContext(ctx)
	return next(cmd, args)
}
