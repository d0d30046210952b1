// Package cache owns the on-disk artifact cache: one content file per
// asset plus a ".sha256" sidecar holding its verified digest. Presence of
// the sidecar is itself the "has this ever been verified" signal.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwbox/burnish/internal/errs"
	"github.com/fwbox/burnish/internal/logger"
	"github.com/fwbox/burnish/internal/utils"
	"github.com/fwbox/burnish/internal/verify"
)

const sidecarExt = ".sha256"

// Entry describes one committed artifact.
type Entry struct {
	Name       string
	LocalPath  string
	StoredHash string
	SizeBytes  int64
}

// RemoteHashFunc fetches the current remote digest for the asset being
// looked up. Errors are classified with errs kinds; NoManifest,
// ManifestUnavailable and friends all mean "no server-side truth".
type RemoteHashFunc func(ctx context.Context) (string, error)

// Store is the sole writer inside its root directory.
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string { return s.root }

// Path returns where the content file for an asset lives.
func (s *Store) Path(assetName string) string {
	return filepath.Join(s.root, assetName)
}

func (s *Store) sidecarPath(assetName string) string {
	return s.Path(assetName) + sidecarExt
}

// TempPath is where in-flight downloads land before Commit renames them.
func (s *Store) TempPath(assetName string) string {
	return s.Path(assetName) + ".partial"
}

// Lookup decides whether a cached copy of assetName can be served.
//
// Order matters: a missing file is Absent; a file with no sidecar is an
// interrupted prior download, deleted and reported Absent; with a sidecar
// the remote digest is consulted first, and only when the manifest is
// unreachable does the stored digest serve as a best-effort offline
// check. A remote digest that differs from the local content is
// staleness, purged and reported Absent so the caller re-downloads.
func (s *Store) Lookup(ctx context.Context, assetName string, remote RemoteHashFunc) (verify.Outcome, error) {
	path := s.Path(assetName)

	exists, err := utils.FileExists(path)
	if err != nil {
		return verify.Outcome{}, err
	}
	if !exists {
		return verify.AbsentOutcome(), nil
	}

	stored, err := s.readSidecar(assetName)
	if err != nil {
		return verify.Outcome{}, err
	}
	if stored == "" {
		// Never serve a file that was never verified.
		logger.Warn("cached %s has no hash record (interrupted download?), discarding", assetName)
		if err := s.Invalidate(assetName); err != nil {
			return verify.Outcome{}, err
		}
		return verify.AbsentOutcome(), nil
	}

	local, err := verify.FileSHA256(path)
	if err != nil {
		return verify.Outcome{}, err
	}

	remoteHash, remoteErr := "", error(nil)
	if remote != nil {
		remoteHash, remoteErr = remote(ctx)
	} else {
		remoteErr = errs.New(errs.NoManifest, "no remote hash source")
	}

	if remoteErr == nil {
		if strings.EqualFold(local, remoteHash) {
			return verify.ValidOutcome(), nil
		}
		// The published artifact changed under the same name. Staleness,
		// not corruption: purge loudly and let the caller re-download.
		logger.Warn("cached %s is stale (remote artifact changed), discarding", assetName)
		if err := s.Invalidate(assetName); err != nil {
			return verify.Outcome{}, err
		}
		return verify.AbsentOutcome(), nil
	}

	if kind := errs.KindOf(remoteErr); kind == errs.ManifestUnavailable {
		logger.Warn("server-side verification unavailable, checking against locally stored hash only")
	} else {
		logger.Debug("no remote hash for %s (%v), using stored hash", assetName, remoteErr)
	}

	if strings.EqualFold(local, stored) {
		return verify.ValidOutcome(), nil
	}
	return verify.InvalidOutcome(fmt.Sprintf("cached %s does not match its stored hash", assetName)), nil
}

// Commit renames a verified temp file into place and then records its
// digest. The sidecar is written only after the content rename is
// durable, so a crash in between is observed as Absent on next lookup.
// When the sidecar write fails the content is moved back to tmpPath,
// keeping that path valid for the caller.
func (s *Store) Commit(assetName, tmpPath, hash string) (*Entry, error) {
	final := s.Path(assetName)

	if err := utils.RenameAtomic(tmpPath, final); err != nil {
		return nil, errs.Wrap(errs.CacheWriteFailure, err, "failed to move %s into cache", assetName)
	}

	sidecar := s.sidecarPath(assetName)
	hash = strings.ToLower(hash)
	if err := utils.WriteFileAtomic(sidecar+".tmp", sidecar, strings.NewReader(hash+"\n")); err != nil {
		if rerr := os.Rename(final, tmpPath); rerr != nil {
			return nil, errs.Wrap(errs.CacheWriteFailure, rerr,
				"failed to record hash for %s and to restore its temp copy", assetName)
		}
		return nil, errs.Wrap(errs.CacheWriteFailure, err, "failed to record hash for %s", assetName)
	}

	info, err := os.Stat(final)
	if err != nil {
		return nil, errs.Wrap(errs.CacheWriteFailure, err, "failed to stat committed %s", assetName)
	}

	return &Entry{
		Name:       assetName,
		LocalPath:  final,
		StoredHash: hash,
		SizeBytes:  info.Size(),
	}, nil
}

// StoredHash returns the digest recorded for assetName, "" when no
// sidecar exists.
func (s *Store) StoredHash(assetName string) (string, error) {
	return s.readSidecar(assetName)
}

// Invalidate removes the content file and its sidecar.
func (s *Store) Invalidate(assetName string) error {
	for _, p := range []string{s.Path(assetName), s.sidecarPath(assetName)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// Entries lists committed artifacts (files with a sidecar).
func (s *Store) Entries() ([]Entry, error) {
	dirents, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, d := range dirents {
		name := d.Name()
		if d.IsDir() || strings.HasSuffix(name, sidecarExt) || strings.HasSuffix(name, ".partial") {
			continue
		}
		stored, err := s.readSidecar(name)
		if err != nil || stored == "" {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:       name,
			LocalPath:  s.Path(name),
			StoredHash: stored,
			SizeBytes:  info.Size(),
		})
	}
	return entries, nil
}

// Clean removes every cached artifact, verified or not.
func (s *Store) Clean() error {
	dirents, err := os.ReadDir(s.root)
	if err != nil {
		return err
	}
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, d.Name())); err != nil {
			return err
		}
	}
	return nil
}

// readSidecar returns the recorded digest, "" when no sidecar exists.
func (s *Store) readSidecar(assetName string) (string, error) {
	data, err := os.ReadFile(s.sidecarPath(assetName))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read hash record for %s: %w", assetName, err)
	}
	return strings.ToLower(strings.TrimSpace(string(data))), nil
}
