package internal

import (
	"strings"

	"github.com/fwbox/burnish/internal/logger"
	"github.com/fwbox/burnish/internal/middleware"
	"github.com/fwbox/burnish/internal/models"

	"github.com/spf13/cobra"
)

func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the images in the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := middleware.Get[*models.Catalog](cmd, middleware.CtxKeyCatalog)
			if err != nil {
				return err
			}

			table := logger.CreateTable([]string{"Image", "Repository", "Targets", "Primary asset"})
			for _, img := range catalog.Images {
				targets := make([]string, 0, len(img.Targets))
				for _, t := range img.Targets {
					if img.ForcesRaw(t) {
						t += " (raw)"
					}
					targets = append(targets, t)
				}
				if err := table.Append([]string{
					img.Name, img.Repo, strings.Join(targets, ", "), img.PrimaryTemplate,
				}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}
