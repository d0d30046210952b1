package models

import (
	"fmt"
	"strings"
)

// Image describes one flashable image line from the catalog file.
type Image struct {
	Name string `yaml:"name"`
	// Repo is the "owner/name" of the GitHub repository publishing releases.
	Repo string `yaml:"repo"`
	// PrimaryTemplate names the compact firmware asset, e.g.
	// "demo-{target}-{version}.fw". Placeholders: {target}, {version}.
	PrimaryTemplate string `yaml:"primary_template"`
	// SecondaryTemplate names the disk-image asset used when a target
	// forces the raw route, e.g. "demo-{target}-{version}.img.gz".
	SecondaryTemplate string              `yaml:"secondary_template,omitempty"`
	Targets           []string            `yaml:"targets"`
	Overrides         map[string]Override `yaml:"overrides,omitempty"`
}

// Override holds per-target deviations from the image defaults.
type Override struct {
	// ForceRaw skips the firmware format entirely for this target.
	ForceRaw bool `yaml:"force_raw,omitempty"`
}

type Catalog struct {
	Images []Image `yaml:"images"`
}

func (c *Catalog) Find(name string) (*Image, bool) {
	for i := range c.Images {
		if c.Images[i].Name == name {
			return &c.Images[i], true
		}
	}
	return nil, false
}

func (img *Image) HasTarget(target string) bool {
	for _, t := range img.Targets {
		if t == target {
			return true
		}
	}
	return false
}

func (img *Image) ForcesRaw(target string) bool {
	o, ok := img.Overrides[target]
	return ok && o.ForceRaw
}

// ExpandTemplate substitutes {target} and {version} in an asset template.
func ExpandTemplate(tmpl, target, version string) string {
	r := strings.NewReplacer("{target}", target, "{version}", version)
	return r.Replace(tmpl)
}

func (img *Image) Validate() error {
	if img.Name == "" {
		return fmt.Errorf("image is missing a name")
	}
	if img.Repo == "" || !strings.Contains(img.Repo, "/") {
		return fmt.Errorf("image %s: repo must be owner/name, got %q", img.Name, img.Repo)
	}
	if img.PrimaryTemplate == "" {
		return fmt.Errorf("image %s: primary_template is required", img.Name)
	}
	if len(img.Targets) == 0 {
		return fmt.Errorf("image %s: at least one target is required", img.Name)
	}
	for t := range img.Overrides {
		if !img.HasTarget(t) {
			return fmt.Errorf("image %s: override for undeclared target %q", img.Name, t)
		}
	}
	return nil
}
