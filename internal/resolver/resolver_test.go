package resolver

import (
	"testing"

	"github.com/fwbox/burnish/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoImage() *models.Image {
	return &models.Image{
		Name:              "demo",
		Repo:              "fwbox/demo",
		PrimaryTemplate:   "demo-{target}-{version}.fw",
		SecondaryTemplate: "demo-{target}-{version}.img.gz",
		Targets:           []string{"rpi4", "bbb"},
		Overrides: map[string]models.Override{
			"bbb": {ForceRaw: true},
		},
	}
}

func TestResolve_PrimaryWhenFwupAvailable(t *testing.T) {
	got, err := Resolve(demoImage(), "rpi4", "1.2.0", true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "demo-rpi4-1.2.0.fw", got[0].Name)
	assert.Equal(t, FormatFirmware, got[0].Format)
}

func TestResolve_FallbackChainWithoutFwup(t *testing.T) {
	got, err := Resolve(demoImage(), "rpi4", "1.2.0", false)
	require.NoError(t, err)

	want := []Candidate{
		{Name: "demo-rpi4-1.2.0.zip", Format: FormatArchive},
		{Name: "demo-rpi4-1.2.0.img.gz", Format: FormatCompressedImage},
		{Name: "demo-rpi4-1.2.0.img", Format: FormatRawImage},
	}
	assert.Equal(t, want, got)
}

func TestResolve_OverrideForcesSingleSecondary(t *testing.T) {
	// Even with fwup available, a forced-raw target gets exactly one
	// candidate and no fallback chain.
	got, err := Resolve(demoImage(), "bbb", "1.2.0", true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "demo-bbb-1.2.0.img.gz", got[0].Name)
	assert.Equal(t, FormatCompressedImage, got[0].Format)
}

func TestResolve_OverrideWithoutSecondaryTemplate(t *testing.T) {
	img := demoImage()
	img.SecondaryTemplate = ""

	got, err := Resolve(img, "bbb", "1.2.0", false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "demo-bbb-1.2.0.img.gz", got[0].Name)
}

func TestResolve_UnknownTarget(t *testing.T) {
	_, err := Resolve(demoImage(), "pinephone", "1.2.0", true)
	assert.Error(t, err)
}

func TestFormatOfXZ(t *testing.T) {
	assert.Equal(t, FormatCompressedImage, formatOf("demo-1.2.0.img.xz"))
}
