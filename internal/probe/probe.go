// Package probe checks which external tools the local environment offers.
// The fetch pipeline never probes on its own; it receives these results.
package probe

import (
	"os/exec"

	"github.com/fwbox/burnish/internal/logger"
)

const fwupBinary = "fwup"

type Probe struct {
	// LookPath is swappable in tests; defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

func New() *Probe {
	return &Probe{LookPath: exec.LookPath}
}

// FwupAvailable reports whether fwup is on PATH, which decides if the
// compact firmware format can be consumed at all.
func (p *Probe) FwupAvailable() bool {
	path, err := p.LookPath(fwupBinary)
	if err != nil {
		logger.Debug("fwup not found on PATH: %v", err)
		return false
	}
	logger.Debug("found fwup at %s", path)
	return true
}

// FwupPath returns the resolved fwup location, or "" when absent.
func (p *Probe) FwupPath() string {
	path, err := p.LookPath(fwupBinary)
	if err != nil {
		return ""
	}
	return path
}
