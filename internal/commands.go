package internal

import (
	"github.com/fwbox/burnish/internal/middleware"
	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	NewInitCmd,
	middleware.UseMiddlewareChain(middleware.RequireConfig, middleware.LoadCatalog)(NewFetchCmd),
	middleware.UseMiddlewareChain(middleware.RequireConfig, middleware.LoadCatalog)(NewBurnCmd),
	middleware.UseMiddlewareChain(middleware.RequireConfig, middleware.LoadCatalog)(NewListCmd),
	middleware.UseMiddlewareChain(middleware.RequireConfig)(NewCacheCmd),
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
