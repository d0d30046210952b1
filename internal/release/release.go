// Package release talks to the GitHub release feed for one repository:
// listing releases, picking the newest stable tag, and locating assets.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fwbox/burnish/internal/errs"
	"github.com/fwbox/burnish/internal/logger"
	"github.com/fwbox/burnish/internal/service"
	"github.com/fwbox/burnish/internal/utils"
)

const manifestAssetName = "checksums.txt"

type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

type Release struct {
	TagName    string  `json:"tag_name"`
	Name       string  `json:"name"`
	Draft      bool    `json:"draft"`
	Prerelease bool    `json:"prerelease"`
	Assets     []Asset `json:"assets"`
}

// Version is the tag with any leading "v" stripped.
func (r *Release) Version() string {
	return strings.TrimPrefix(r.TagName, "v")
}

// FindAsset reports whether the release carries an asset with this exact
// name. A false return is the "confirmed absent" signal the fallback
// chain advances on.
func (r *Release) FindAsset(name string) (*Asset, bool) {
	for i := range r.Assets {
		if r.Assets[i].Name == name {
			return &r.Assets[i], true
		}
	}
	return nil, false
}

// ManifestURL returns the checksum manifest download URL, or "" when the
// release publishes none.
func (r *Release) ManifestURL() string {
	if a, ok := r.FindAsset(manifestAssetName); ok {
		return a.BrowserDownloadURL
	}
	return ""
}

type Client struct {
	APIBaseURL string
	HTTP       service.HTTPClient
}

func NewClient(apiBaseURL string, client service.HTTPClient) *Client {
	return &Client{APIBaseURL: apiBaseURL, HTTP: client}
}

// Latest lists the repository's releases and returns the one with the
// highest stable semver tag, skipping drafts, prereleases and tags that
// do not parse as versions.
func (c *Client) Latest(ctx context.Context, repo string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases?per_page=30", c.APIBaseURL, repo)
	releases, err := c.list(ctx, url)
	if err != nil {
		return nil, err
	}

	var best *Release
	var bestVer *semver.Version
	for i := range releases {
		r := &releases[i]
		if r.Draft || r.Prerelease {
			continue
		}
		v, err := semver.NewVersion(r.Version())
		if err != nil {
			logger.Debug("skipping release %s: tag is not semver", r.TagName)
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best, bestVer = r, v
		}
	}

	if best == nil {
		return nil, errs.New(errs.NoStableRelease, "no stable release found for %s", repo)
	}
	return best, nil
}

// ByTag fetches one specific release.
func (c *Client) ByTag(ctx context.Context, repo, tag string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/tags/%s", c.APIBaseURL, repo, tag)

	resp, err := service.Get(ctx, c.HTTP, url)
	if err != nil {
		return nil, err
	}
	defer utils.Try(resp.Body.Close)

	var r Release
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode release %s: %w", tag, err)
	}
	return &r, nil
}

func (c *Client) list(ctx context.Context, url string) ([]Release, error) {
	resp, err := service.Get(ctx, c.HTTP, url)
	if err != nil {
		return nil, err
	}
	defer utils.Try(resp.Body.Close)

	var releases []Release
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("failed to decode release listing: %w", err)
	}
	return releases, nil
}
