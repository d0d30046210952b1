// Package burner writes a verified artifact to removable media through
// external tools. Firmware containers go through fwup; disk images are
// decompressed and written with dd. Configuration reaches the tools as
// explicit arguments, never via process environment.
package burner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwbox/burnish/internal/extract"
	"github.com/fwbox/burnish/internal/logger"
	"github.com/fwbox/burnish/internal/resolver"
	"github.com/fwbox/burnish/internal/runner"
)

const burnTimeout = 30 * time.Minute

type Burner struct {
	Runner runner.CommandRunner
	// FwupPath is the resolved fwup binary; required for firmware burns.
	FwupPath string
	// Task selects the fwup task to apply, "complete" by default.
	Task string
}

func New(r runner.CommandRunner, fwupPath string) *Burner {
	if r == nil {
		r = runner.ExecRunner{}
	}
	return &Burner{Runner: r, FwupPath: fwupPath, Task: "complete"}
}

// Burn writes imagePath to device according to its format.
func (b *Burner) Burn(ctx context.Context, imagePath string, format resolver.Format, device string) error {
	if device == "" {
		return fmt.Errorf("no target device given")
	}

	if format == resolver.FormatFirmware {
		return b.applyFirmware(ctx, imagePath, device)
	}
	return b.writeRaw(ctx, imagePath, device)
}

func (b *Burner) applyFirmware(ctx context.Context, imagePath, device string) error {
	if b.FwupPath == "" {
		return fmt.Errorf("fwup is required to apply %s but was not found on PATH", imagePath)
	}

	logger.Info("applying %s to %s with fwup", imagePath, device)
	out, err := b.Runner.Run(ctx, burnTimeout, runner.Stream,
		b.FwupPath, "-a", "-i", imagePath, "-t", b.Task, "-d", device)
	if err != nil {
		return fmt.Errorf("fwup failed: %w%s", err, trailing(out))
	}
	return nil
}

func (b *Burner) writeRaw(ctx context.Context, imagePath, device string) error {
	raw, err := extract.ToFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to prepare raw image: %w", err)
	}

	logger.Info("writing %s to %s", raw, device)
	out, err := b.Runner.Run(ctx, burnTimeout, runner.Stream,
		"dd", "if="+raw, "of="+device, "bs=4M", "conv=fsync", "status=progress")
	if err != nil {
		return fmt.Errorf("dd failed: %w%s", err, trailing(out))
	}
	return nil
}

func trailing(out []byte) string {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return ""
	}
	return "\n" + s
}
