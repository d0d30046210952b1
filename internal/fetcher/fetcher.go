// Package fetcher composes resolver, release feed, cache, downloader and
// verifier into the one public operation: "get me a verified local copy
// of this image for this target".
package fetcher

import (
	"context"
	"strings"

	"github.com/fwbox/burnish/internal/cache"
	"github.com/fwbox/burnish/internal/download"
	"github.com/fwbox/burnish/internal/errs"
	"github.com/fwbox/burnish/internal/logger"
	"github.com/fwbox/burnish/internal/manifest"
	"github.com/fwbox/burnish/internal/models"
	"github.com/fwbox/burnish/internal/prompter"
	"github.com/fwbox/burnish/internal/release"
	"github.com/fwbox/burnish/internal/resolver"
	"github.com/fwbox/burnish/internal/service"
	"github.com/fwbox/burnish/internal/verify"
)

// Result reports where the verified artifact ended up.
type Result struct {
	Path      string
	Hash      string
	Format    resolver.Format
	Version   string
	FromCache bool
	// TempOnly marks a verified artifact that could not be persisted to
	// the cache; Path then points at the temporary copy, usable for this
	// run only.
	TempOnly bool
}

type Orchestrator struct {
	Client     service.HTTPClient
	Releases   *release.Client
	Cache      *cache.Store
	Prompt     prompter.Prompter
	OnProgress download.ProgressFunc
	// FwupAvailable comes from the environment probe; the pipeline never
	// probes on its own.
	FwupAvailable bool
	// MaxAttempts bounds transport retries per candidate.
	MaxAttempts int
}

func New(client service.HTTPClient, releases *release.Client, store *cache.Store) *Orchestrator {
	return &Orchestrator{
		Client:      client,
		Releases:    releases,
		Cache:       store,
		Prompt:      prompter.Static{Answer: false},
		MaxAttempts: 2,
	}
}

// Fetch resolves, downloads if needed, verifies and caches one asset.
// tag pins a release; empty means the newest stable one.
//
// Candidates advance only when the release listing confirms the previous
// name absent, or after its bounded download attempts are exhausted.
// Verification failures are terminal for the whole operation: a corrupt
// transfer must not masquerade as a missing asset.
func (o *Orchestrator) Fetch(ctx context.Context, img *models.Image, target, tag string) (*Result, error) {
	rel, err := o.lookupRelease(ctx, img.Repo, tag)
	if err != nil {
		return nil, err
	}
	version := rel.Version()
	logger.Info("using release %s of %s", rel.TagName, img.Repo)

	candidates, err := resolver.Resolve(img, target, version, o.FwupAvailable)
	if err != nil {
		return nil, err
	}

	manifestURL := rel.ManifestURL()

	var lastErr error
	anyListed := false

	for _, cand := range candidates {
		asset, listed := rel.FindAsset(cand.Name)
		if !listed {
			logger.Debug("asset %s not published on %s, trying next format", cand.Name, rel.TagName)
			continue
		}
		anyListed = true

		res, err := o.fetchCandidate(ctx, cand, asset, manifestURL, version)
		if err == nil || res != nil {
			return res, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
		switch errs.KindOf(err) {
		case errs.TransportFailure:
			// Advance to the next candidate, remembering the failure.
			logger.Warn("downloading %s failed: %v", cand.Name, err)
			lastErr = err
		default:
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	if !anyListed {
		return nil, errs.New(errs.CandidateNotFound,
			"no asset for %s target %s exists on release %s under any fallback name", img.Name, target, rel.TagName)
	}
	return nil, errs.New(errs.CandidateNotFound, "no usable asset for %s target %s", img.Name, target)
}

func (o *Orchestrator) lookupRelease(ctx context.Context, repo, tag string) (*release.Release, error) {
	if tag != "" {
		return o.Releases.ByTag(ctx, repo, tag)
	}
	return o.Releases.Latest(ctx, repo)
}

// fetchCandidate runs CacheCheck → Downloading → PostVerify → Committed
// for one candidate. A nil result with a TransportFailure error tells the
// caller to advance the chain; any other error is terminal.
func (o *Orchestrator) fetchCandidate(
	ctx context.Context,
	cand resolver.Candidate,
	asset *release.Asset,
	manifestURL, version string,
) (*Result, error) {
	remoteHash := func(ctx context.Context) (string, error) {
		return manifest.Fetch(ctx, o.Client, manifestURL, cand.Name)
	}

	outcome, err := o.Cache.Lookup(ctx, cand.Name, remoteHash)
	if err != nil {
		return nil, err
	}
	switch outcome.State {
	case verify.Valid:
		logger.Success("using cached %s", cand.Name)
		stored, err := o.Cache.StoredHash(cand.Name)
		if err != nil {
			return nil, err
		}
		return &Result{
			Path:      o.Cache.Path(cand.Name),
			Hash:      stored,
			Format:    cand.Format,
			Version:   version,
			FromCache: true,
		}, nil
	case verify.Invalid:
		logger.Warn("cached %s failed verification (%s), re-downloading", cand.Name, outcome.Reason)
		if err := o.Cache.Invalidate(cand.Name); err != nil {
			return nil, err
		}
	}

	tmp := o.Cache.TempPath(cand.Name)
	if err := o.downloadWithRetry(ctx, asset, tmp); err != nil {
		discard(o.Cache, cand.Name)
		return nil, err
	}

	hash, err := o.postVerify(ctx, cand.Name, tmp, asset.Size, remoteHash)
	if err != nil {
		discard(o.Cache, cand.Name)
		return nil, err
	}

	entry, err := o.Cache.Commit(cand.Name, tmp, hash)
	if err != nil {
		// The artifact is fetched and verified, only persisting failed.
		// Hand the temporary copy to the caller for this run.
		logger.LogError("failed to persist %s to cache: %v", cand.Name, err)
		return &Result{
			Path:     tmp,
			Hash:     hash,
			Format:   cand.Format,
			Version:  version,
			TempOnly: true,
		}, err
	}

	logger.Success("downloaded and verified %s (%d bytes)", cand.Name, entry.SizeBytes)
	return &Result{
		Path:    entry.LocalPath,
		Hash:    entry.StoredHash,
		Format:  cand.Format,
		Version: version,
	}, nil
}

// downloadWithRetry restarts the transfer from zero on each attempt;
// partial writes are never resumed.
func (o *Orchestrator) downloadWithRetry(ctx context.Context, asset *release.Asset, tmp string) error {
	attempts := o.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			logger.Warn("retrying download of %s (attempt %d of %d)", asset.Name, attempt, attempts)
		}
		_, err := download.Download(ctx, o.Client, asset.BrowserDownloadURL, tmp, o.OnProgress)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return err
		}
	}
	return lastErr
}

// postVerify checks the declared size and the manifest digest. With no
// server-side digest available, the user must explicitly accept trusting
// a locally computed hash; declining fails the operation.
func (o *Orchestrator) postVerify(
	ctx context.Context,
	assetName, tmp string,
	declaredSize int64,
	remoteHash cache.RemoteHashFunc,
) (string, error) {
	expectedSize := declaredSize
	if expectedSize <= 0 {
		expectedSize = verify.SizeUnknown
	}

	hash, hashErr := remoteHash(ctx)
	if hashErr == nil {
		outcome, err := verify.Verify(tmp, expectedSize, hash)
		if err != nil {
			return "", err
		}
		if outcome.State != verify.Valid {
			return "", invalidKind(outcome)
		}
		return hash, nil
	}

	switch errs.KindOf(hashErr) {
	case errs.NoManifest:
		logger.Warn("release publishes no checksum manifest; server-side verification is not possible")
	case errs.ManifestUnavailable:
		logger.Warn("checksum manifest unreachable; server-side verification unavailable")
	default:
		logger.Warn("no usable checksum for %s: %v", assetName, hashErr)
	}

	outcome, err := verify.Verify(tmp, expectedSize, "")
	if err != nil {
		return "", err
	}
	if outcome.State != verify.Valid {
		return "", invalidKind(outcome)
	}

	local, err := verify.FileSHA256(tmp)
	if err != nil {
		return "", err
	}

	ok, err := o.prompt().Confirm(
		"No remote checksum could be verified for " + assetName +
			" (local sha256 " + local[:12] + "…). Trust this download?")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errs.New(errs.Aborted, "download of %s rejected without server-side verification", assetName)
	}
	return local, nil
}

func (o *Orchestrator) prompt() prompter.Prompter {
	if o.Prompt == nil {
		return prompter.Static{Answer: false}
	}
	return o.Prompt
}

func invalidKind(outcome verify.Outcome) error {
	kind := errs.HashMismatch
	if strings.HasPrefix(outcome.Reason, "size mismatch") {
		kind = errs.SizeMismatch
	}
	return errs.New(kind, "%s", outcome.Reason)
}

// discard removes whatever partial state a failed candidate left behind.
func discard(store *cache.Store, assetName string) {
	tmp := store.TempPath(assetName)
	if err := removeIfPresent(tmp); err != nil {
		logger.Debug("failed to remove partial %s: %v", tmp, err)
	}
}
