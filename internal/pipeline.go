package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/fwbox/burnish/internal/cache"
	"github.com/fwbox/burnish/internal/config"
	"github.com/fwbox/burnish/internal/download"
	"github.com/fwbox/burnish/internal/fetcher"
	"github.com/fwbox/burnish/internal/globalconfig"
	"github.com/fwbox/burnish/internal/logger"
	"github.com/fwbox/burnish/internal/middleware"
	"github.com/fwbox/burnish/internal/models"
	"github.com/fwbox/burnish/internal/probe"
	"github.com/fwbox/burnish/internal/prompter"
	"github.com/fwbox/burnish/internal/release"
	"github.com/fwbox/burnish/internal/service"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// buildOrchestrator wires the fetch pipeline from the persistent config
// and the environment probe.
func buildOrchestrator(cmd *cobra.Command, assumeYes bool) (*fetcher.Orchestrator, error) {
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
		return nil, fmt.Errorf("failed to prepare cache directory: %w", err)
	}
	store, err := cache.New(root)
	if err != nil {
		return nil, err
	}

	client := service.NewHTTPClient(cfg.DownloadTimeout)
	o := fetcher.New(client, release.NewClient(cfg.APIBaseURL, client), store)
	o.FwupAvailable = probe.New().FwupAvailable()
	o.MaxAttempts = cfg.MaxDownloadAttempts
	o.OnProgress = barProgress()

	if assumeYes {
		o.Prompt = prompter.Static{Answer: true}
	} else {
		o.Prompt = prompter.New(os.Stdin, os.Stdout)
	}

	return o, nil
}

// barProgress adapts the chunk callback to a terminal progress bar,
// determinate when the total is known, a byte spinner otherwise.
func barProgress() download.ProgressFunc {
	var bar *progressbar.ProgressBar
	return func(written, total int64) {
		if bar == nil {
			bar = progressbar.NewOptions64(total,
				progressbar.OptionSetDescription("downloading"),
				progressbar.OptionSetWriter(logger.Out()),
				progressbar.OptionShowBytes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(logger.Out()) }),
			)
		}
		_ = bar.Set64(written)
	}
}

func catalogImage(cmd *cobra.Command, name string) (*models.Image, error) {
	catalog, err := middleware.Get[*models.Catalog](cmd, middleware.CtxKeyCatalog)
	if err != nil {
		return nil, err
	}
	img, ok := catalog.Find(name)
	if !ok {
		return nil, fmt.Errorf("image %q is not in the catalog (try 'burnish list')", name)
	}
	return img, nil
}

// pickTarget defaults to the image's sole target when none was given.
func pickTarget(img *models.Image, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if len(img.Targets) == 1 {
		return img.Targets[0], nil
	}
	return "", fmt.Errorf("image %s has multiple targets, pick one with --target", img.Name)
}
