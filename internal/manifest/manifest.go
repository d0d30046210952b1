// Package manifest retrieves and parses the plaintext checksum listing
// published alongside a release ("hash  filename", one entry per line).
package manifest

import (
	"bufio"
	"context"
	"regexp"
	"strings"

	"github.com/fwbox/burnish/internal/errs"
	"github.com/fwbox/burnish/internal/service"
	"github.com/fwbox/burnish/internal/utils"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Fetch downloads the manifest and returns the digest recorded for
// assetName. The manifest is intentionally never cached: it is small and
// must reflect the current remote state.
//
// Error kinds: NoManifest (empty URL, no network call is made),
// ManifestUnavailable (transport or non-200), HashNotFound (fetched but
// no line names the asset), MalformedHash (line found, value is not
// 64 hex chars).
func Fetch(ctx context.Context, client service.HTTPClient, manifestURL, assetName string) (string, error) {
	if manifestURL == "" {
		return "", errs.New(errs.NoManifest, "release publishes no checksum manifest")
	}

	resp, err := service.Get(ctx, client, manifestURL)
	if err != nil {
		return "", errs.Wrap(errs.ManifestUnavailable, err, "checksum manifest %s unreachable", manifestURL)
	}
	defer utils.Try(resp.Body.Close)

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		hash, name, ok := splitLine(scanner.Text())
		if !ok || name != assetName {
			continue
		}
		hash = strings.ToLower(hash)
		if !hexPattern.MatchString(hash) {
			return "", errs.New(errs.MalformedHash, "manifest entry for %s is not a sha256 digest: %q", assetName, hash)
		}
		return hash, nil
	}
	if err := scanner.Err(); err != nil {
		return "", errs.Wrap(errs.ManifestUnavailable, err, "failed reading checksum manifest")
	}

	return "", errs.New(errs.HashNotFound, "no checksum for %s in manifest", assetName)
}

// splitLine splits on the first whitespace run into (hash, filename).
// Lines that don't parse are skipped rather than fatal.
func splitLine(line string) (hash, name string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return "", "", false
	}
	hash = line[:idx]
	name = strings.TrimLeft(line[idx:], " \t")
	if name == "" {
		return "", "", false
	}
	return hash, name, true
}
