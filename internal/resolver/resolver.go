// Package resolver turns an image/target pair into the ordered list of
// asset names to try against the release feed.
package resolver

import (
	"fmt"
	"strings"

	"github.com/fwbox/burnish/internal/models"
)

// Format is a closed set of asset container formats. The fallback chain
// is an explicit ordered list of these, never suffix math scattered
// around the pipeline.
type Format int

const (
	// FormatFirmware is the compact .fw container, applied by fwup.
	FormatFirmware Format = iota
	// FormatArchive is a .zip wrapping a raw image.
	FormatArchive
	// FormatCompressedImage is a gzip- or xz-compressed raw image.
	FormatCompressedImage
	// FormatRawImage is a ready-to-write .img.
	FormatRawImage
)

func (f Format) Ext() string {
	switch f {
	case FormatFirmware:
		return ".fw"
	case FormatArchive:
		return ".zip"
	case FormatCompressedImage:
		return ".img.gz"
	default:
		return ".img"
	}
}

func (f Format) String() string {
	switch f {
	case FormatFirmware:
		return "firmware"
	case FormatArchive:
		return "archive"
	case FormatCompressedImage:
		return "compressed image"
	default:
		return "raw image"
	}
}

// fallbackOrder is the fixed priority when fwup is unavailable.
var fallbackOrder = []Format{FormatArchive, FormatCompressedImage, FormatRawImage}

// Candidate is one asset name in the fallback sequence.
type Candidate struct {
	Name   string
	Format Format
}

// Resolve returns the ordered candidates for an image/target.
//
// A target override forcing the raw route yields the secondary descriptor
// alone. With fwup available, the primary firmware asset alone. Otherwise
// a chain derived from the primary name: archive, compressed image, raw
// image, in that order. Each later entry is only worth attempting once
// the previous one is confirmed absent on the remote feed.
func Resolve(img *models.Image, target, version string, fwupAvailable bool) ([]Candidate, error) {
	if !img.HasTarget(target) {
		return nil, fmt.Errorf("image %s does not declare target %q (targets: %s)",
			img.Name, target, strings.Join(img.Targets, ", "))
	}

	primary := models.ExpandTemplate(img.PrimaryTemplate, target, version)

	if img.ForcesRaw(target) {
		name := primary
		if img.SecondaryTemplate != "" {
			name = models.ExpandTemplate(img.SecondaryTemplate, target, version)
		} else {
			name = swapExt(primary, FormatCompressedImage.Ext())
		}
		return []Candidate{{Name: name, Format: formatOf(name)}}, nil
	}

	if fwupAvailable {
		return []Candidate{{Name: primary, Format: FormatFirmware}}, nil
	}

	chain := make([]Candidate, 0, len(fallbackOrder))
	for _, f := range fallbackOrder {
		chain = append(chain, Candidate{Name: swapExt(primary, f.Ext()), Format: f})
	}
	return chain, nil
}

// formatOf classifies an asset name by extension, longest suffix first.
func formatOf(name string) Format {
	switch {
	case strings.HasSuffix(name, ".fw"):
		return FormatFirmware
	case strings.HasSuffix(name, ".zip"):
		return FormatArchive
	case strings.HasSuffix(name, ".img.gz"), strings.HasSuffix(name, ".img.xz"):
		return FormatCompressedImage
	default:
		return FormatRawImage
	}
}

func swapExt(primary, ext string) string {
	base := strings.TrimSuffix(primary, ".fw")
	return base + ext
}
