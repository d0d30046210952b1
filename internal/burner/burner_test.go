package burner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwbox/burnish/internal/logger"
	"github.com/fwbox/burnish/internal/resolver"
	"github.com/fwbox/burnish/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { logger.UseTestMode() }

func TestBurn_FirmwareUsesFwup(t *testing.T) {
	mock := runner.NewMockRunner()
	b := New(mock, "/usr/bin/fwup")

	err := b.Burn(context.Background(), "/cache/demo.fw", resolver.FormatFirmware, "/dev/sdz")
	require.NoError(t, err)

	require.Len(t, mock.Commands, 1)
	cmd := mock.Commands[0]
	assert.Equal(t, "/usr/bin/fwup", cmd.Name)
	assert.Equal(t, []string{"-a", "-i", "/cache/demo.fw", "-t", "complete", "-d", "/dev/sdz"}, cmd.Args)
}

func TestBurn_FirmwareWithoutFwup(t *testing.T) {
	b := New(runner.NewMockRunner(), "")
	err := b.Burn(context.Background(), "/cache/demo.fw", resolver.FormatFirmware, "/dev/sdz")
	assert.Error(t, err)
}

func TestBurn_RawImageUsesDD(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "demo.img")
	require.NoError(t, os.WriteFile(img, []byte("raw image"), 0o644))

	mock := runner.NewMockRunner()
	b := New(mock, "")

	err := b.Burn(context.Background(), img, resolver.FormatRawImage, "/dev/sdz")
	require.NoError(t, err)

	require.Len(t, mock.Commands, 1)
	cmd := mock.Commands[0]
	assert.Equal(t, "dd", cmd.Name)
	assert.Contains(t, cmd.Args, "if="+img)
	assert.Contains(t, cmd.Args, "of=/dev/sdz")
}

func TestBurn_NoDevice(t *testing.T) {
	b := New(runner.NewMockRunner(), "/usr/bin/fwup")
	err := b.Burn(context.Background(), "/cache/demo.fw", resolver.FormatFirmware, "")
	assert.Error(t, err)
}
