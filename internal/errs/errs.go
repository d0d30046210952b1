package errs

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the fetch pipeline can surface. Callers
// branch on kinds, never on error strings.
type Kind string

const (
	CandidateNotFound   Kind = "CANDIDATE_NOT_FOUND"
	NoStableRelease     Kind = "NO_STABLE_RELEASE"
	TransportFailure    Kind = "TRANSPORT_FAILURE"
	SizeMismatch        Kind = "SIZE_MISMATCH"
	HashMismatch        Kind = "HASH_MISMATCH"
	NoManifest          Kind = "NO_MANIFEST"
	ManifestUnavailable Kind = "MANIFEST_UNAVAILABLE"
	HashNotFound        Kind = "HASH_NOT_FOUND"
	MalformedHash       Kind = "MALFORMED_HASH"
	CacheWriteFailure   Kind = "CACHE_WRITE_FAILURE"
	Aborted             Kind = "ABORTED"
)

// E carries a kind plus an optional wrapped cause.
type E struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *E) Unwrap() error { return e.Err }

func New(kind Kind, format string, a ...any) *E {
	return &E{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

func Wrap(kind Kind, err error, format string, a ...any) *E {
	return &E{Kind: kind, Msg: fmt.Sprintf(format, a...), Err: err}
}

// KindOf extracts the kind from an error chain, or "" if none.
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool { return KindOf(err) == kind }

var hints = map[Kind]string{
	CandidateNotFound: `No downloadable asset found for this image/target.

The release feed was reachable but none of the candidate filenames exist
on the latest release. Check that the target name is correct and that the
release has finished publishing its assets.`,

	NoStableRelease: `The repository has published no stable release.

Only drafts or prereleases were found on the feed. Pin one explicitly
with --tag to use it anyway.`,

	ManifestUnavailable: `The checksum manifest could not be fetched.

Verification fell back to locally stored hashes only. If you are offline
this is expected; otherwise retry once connectivity is restored.`,

	CacheWriteFailure: `The artifact was downloaded and verified but could not be
persisted to the cache. The temporary copy is still usable for this run,
but the next invocation will download again.`,
}

// Hint returns the long-form user guidance for a kind, if any.
func Hint(kind Kind) string { return hints[kind] }
