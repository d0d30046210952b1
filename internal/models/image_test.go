package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validImage() Image {
	return Image{
		Name:            "demo",
		Repo:            "fwbox/demo",
		PrimaryTemplate: "demo-{target}-{version}.fw",
		Targets:         []string{"rpi4", "bbb"},
		Overrides: map[string]Override{
			"bbb": {ForceRaw: true},
		},
	}
}

func TestExpandTemplate(t *testing.T) {
	got := ExpandTemplate("demo-{target}-{version}.fw", "rpi4", "1.2.0")
	assert.Equal(t, "demo-rpi4-1.2.0.fw", got)
}

func TestExpandTemplate_NoPlaceholders(t *testing.T) {
	assert.Equal(t, "checksums.txt", ExpandTemplate("checksums.txt", "rpi4", "1.2.0"))
}

func TestCatalogFind(t *testing.T) {
	c := Catalog{Images: []Image{validImage()}}

	img, ok := c.Find("demo")
	require.True(t, ok)
	assert.Equal(t, "demo", img.Name)

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestImageTargetHelpers(t *testing.T) {
	img := validImage()

	assert.True(t, img.HasTarget("rpi4"))
	assert.False(t, img.HasTarget("x86"))
	assert.True(t, img.ForcesRaw("bbb"))
	assert.False(t, img.ForcesRaw("rpi4"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Image)
		wantErr string
	}{
		{"valid", func(*Image) {}, ""},
		{"missing name", func(i *Image) { i.Name = "" }, "missing a name"},
		{"repo without owner", func(i *Image) { i.Repo = "demo" }, "owner/name"},
		{"no primary template", func(i *Image) { i.PrimaryTemplate = "" }, "primary_template"},
		{"no targets", func(i *Image) { i.Targets = nil }, "at least one target"},
		{"override for unknown target", func(i *Image) {
			i.Overrides = map[string]Override{"x86": {ForceRaw: true}}
		}, "undeclared target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := validImage()
			tt.mutate(&img)

			err := img.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
