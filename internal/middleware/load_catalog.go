package middleware

import (
	"context"
	"fmt"

	"github.com/fwbox/burnish/internal/globalconfig"
	"github.com/fwbox/burnish/internal/models"
	"github.com/fwbox/burnish/internal/utils"
	"github.com/spf13/cobra"
)

// LoadCatalog parses the image catalog referenced by the persistent
// config and stores it in the command context.
func LoadCatalog(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	pcfg, err := Get[*globalconfig.PersistentConfig](cmd, CtxKeyPConfig)
	if err != nil {
		return err
	}

	var catalog models.Catalog
	if err := utils.FileReader(pcfg.CatalogFile, utils.FileTypeYAML, &catalog); err != nil {
		return err
	}
	for i := range catalog.Images {
		if err := catalog.Images[i].Validate(); err != nil {
			return fmt.Errorf("invalid catalog %s: %w", pcfg.CatalogFile, err)
		}
	}

	ctx := context.WithValue(cmd.Context(), CtxKeyCatalog, &catalog)
	cmd.SetContext(ctx)
	return next(cmd, args)
}
