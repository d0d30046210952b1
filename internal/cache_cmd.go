package internal

import (
	"github.com/fwbox/burnish/internal/cache"
	"github.com/fwbox/burnish/internal/config"
	"github.com/fwbox/burnish/internal/globalconfig"
	"github.com/fwbox/burnish/internal/logger"
	"github.com/fwbox/burnish/internal/middleware"
	"github.com/fwbox/burnish/internal/utils"

	"github.com/spf13/cobra"
)

func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the artifact cache",
	}
	cmd.AddCommand(newCacheListCmd(), newCacheCleanCmd())
	return cmd
}

func openStore(cmd *cobra.Command) (*cache.Store, error) {
	pcfg, err := middleware.Get[*globalconfig.PersistentConfig](cmd, middleware.CtxKeyPConfig)
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if pcfg.CacheDir != "" {
		cfg.CacheRoot = pcfg.CacheDir
	}
	root, err := cfg.ResolveCacheRoot()
	if err != nil {
		return nil, err
	}
	return cache.New(root)
}

func newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List verified cached artifacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}

			entries, err := store.Entries()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				logger.Info("cache is empty (%s)", store.Root())
				return nil
			}

			table := logger.CreateTable([]string{"Asset", "Size", "SHA256"})
			for _, e := range entries {
				hash := e.StoredHash
				if len(hash) > 12 {
					hash = hash[:12] + "…"
				}
				if err := table.Append([]string{
					e.Name, utils.HumanSize(e.SizeBytes), hash,
				}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}

func newCacheCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete every cached artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			if err := store.Clean(); err != nil {
				return err
			}
			logger.Success("cache emptied (%s)", store.Root())
			return nil
		},
	}
}
