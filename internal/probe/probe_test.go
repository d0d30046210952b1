package probe

import (
	"fmt"
	"testing"

	"github.com/fwbox/burnish/internal/logger"
	"github.com/stretchr/testify/assert"
)

func init() { logger.UseTestMode() }

func TestFwupAvailable(t *testing.T) {
	p := &Probe{LookPath: func(string) (string, error) { return "/usr/bin/fwup", nil }}
	assert.True(t, p.FwupAvailable())
	assert.Equal(t, "/usr/bin/fwup", p.FwupPath())
}

func TestFwupMissing(t *testing.T) {
	p := &Probe{LookPath: func(string) (string, error) { return "", fmt.Errorf("not found") }}
	assert.False(t, p.FwupAvailable())
	assert.Equal(t, "", p.FwupPath())
}
