package internal

import (
	"os"
	"path/filepath"

	"github.com/fwbox/burnish/internal/globalconfig"
	"github.com/fwbox/burnish/internal/logger"
	"github.com/fwbox/burnish/internal/utils"

	"github.com/spf13/cobra"
)

const sampleCatalog = `images:
  - name: sample
    repo: your-org/sample-firmware
    primary_template: "sample-{target}-{version}.fw"
    targets:
      - rpi4
`

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize burnish configuration in current directory",
		Long: `Initialize burnish configuration.
This command will:
- Create burnish.yml in the current directory
- Create the configuration directory in ~/.config/burnish
- Save the catalog file path in the global configuration`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			catalogFile := filepath.Join(cwd, "burnish.yml")
			if ok, _ := utils.FileExists(catalogFile); !ok {
				if err := utils.CreateFile(catalogFile, []byte(sampleCatalog), utils.FileTypeRaw, 0o644); err != nil {
					return err
				}
				logger.Success("Created catalog file %s", catalogFile)
			}

			cfg := &globalconfig.PersistentConfig{
				CatalogFile: catalogFile,
			}
			if err := cfg.Save(); err != nil {
				return err
			}

			logger.Success("Initialized burnish in current directory")
			return nil
		},
	}
}
