package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"testing"

	"github.com/fwbox/burnish/internal/errs"
	"github.com/fwbox/burnish/internal/logger"
	"github.com/fwbox/burnish/internal/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { logger.UseTestMode() }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func digest(content []byte) string {
	d := sha256.Sum256(content)
	return hex.EncodeToString(d[:])
}

func remoteOK(hash string) RemoteHashFunc {
	return func(context.Context) (string, error) { return hash, nil }
}

func remoteDown() RemoteHashFunc {
	return func(context.Context) (string, error) {
		return "", errs.New(errs.ManifestUnavailable, "manifest unreachable")
	}
}

// commitArtifact writes content through the real download-then-commit path.
func commitArtifact(t *testing.T, s *Store, name string, content []byte) *Entry {
	t.Helper()
	tmp := s.TempPath(name)
	require.NoError(t, os.WriteFile(tmp, content, 0o644))
	e, err := s.Commit(name, tmp, digest(content))
	require.NoError(t, err)
	return e
}

func TestLookup_Absent(t *testing.T) {
	s := newTestStore(t)

	out, err := s.Lookup(context.Background(), "x.fw", remoteOK("whatever"))
	require.NoError(t, err)
	assert.Equal(t, verify.Absent, out.State)
}

func TestLookup_FileWithoutSidecarIsPurged(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path("x.fw"), []byte("orphan"), 0o644))

	out, err := s.Lookup(context.Background(), "x.fw", remoteOK(digest([]byte("orphan"))))
	require.NoError(t, err)
	assert.Equal(t, verify.Absent, out.State)

	_, statErr := os.Stat(s.Path("x.fw"))
	assert.True(t, os.IsNotExist(statErr), "unverified file must be deleted, never served")
}

func TestLookup_ValidAgainstRemote(t *testing.T) {
	s := newTestStore(t)
	content := []byte("firmware v1")
	commitArtifact(t, s, "x.fw", content)

	out, err := s.Lookup(context.Background(), "x.fw", remoteOK(digest(content)))
	require.NoError(t, err)
	assert.Equal(t, verify.Valid, out.State)
}

func TestLookup_StaleRemoteIsPurged(t *testing.T) {
	s := newTestStore(t)
	commitArtifact(t, s, "x.fw", []byte("firmware v1"))

	// Remote now publishes different content under the same name.
	out, err := s.Lookup(context.Background(), "x.fw", remoteOK(digest([]byte("firmware v2"))))
	require.NoError(t, err)
	assert.Equal(t, verify.Absent, out.State, "staleness is Absent, not an error")

	_, statErr := os.Stat(s.Path("x.fw"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(s.sidecarPath("x.fw"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLookup_OfflineFallsBackToStoredHash(t *testing.T) {
	s := newTestStore(t)
	content := []byte("firmware v1")
	commitArtifact(t, s, "x.fw", content)

	out, err := s.Lookup(context.Background(), "x.fw", remoteDown())
	require.NoError(t, err)
	assert.Equal(t, verify.Valid, out.State)
}

func TestLookup_OfflineCorruptionIsInvalid(t *testing.T) {
	s := newTestStore(t)
	commitArtifact(t, s, "x.fw", []byte("firmware v1"))

	// Corrupt the content after commit.
	require.NoError(t, os.WriteFile(s.Path("x.fw"), []byte("bitrot"), 0o644))

	out, err := s.Lookup(context.Background(), "x.fw", remoteDown())
	require.NoError(t, err)
	assert.Equal(t, verify.Invalid, out.State)
	assert.NotEmpty(t, out.Reason)

	// Offline corruption is reported, not silently purged.
	_, statErr := os.Stat(s.Path("x.fw"))
	assert.NoError(t, statErr)
}

func TestCommit_ThenLookupRoundtrip(t *testing.T) {
	s := newTestStore(t)
	content := []byte("firmware payload")
	e := commitArtifact(t, s, "x.fw", content)

	assert.Equal(t, s.Path("x.fw"), e.LocalPath)
	assert.Equal(t, digest(content), e.StoredHash)
	assert.Equal(t, int64(len(content)), e.SizeBytes)

	// Temp file is gone after the rename.
	_, statErr := os.Stat(s.TempPath("x.fw"))
	assert.True(t, os.IsNotExist(statErr))

	out, err := s.Lookup(context.Background(), "x.fw", remoteOK(digest(content)))
	require.NoError(t, err)
	assert.Equal(t, verify.Valid, out.State)
}

func TestCommit_SidecarLowercased(t *testing.T) {
	s := newTestStore(t)
	tmp := s.TempPath("x.fw")
	require.NoError(t, os.WriteFile(tmp, []byte("bytes"), 0o644))

	e, err := s.Commit("x.fw", tmp, "ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789")
	require.NoError(t, err)
	assert.Equal(t, "abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789", e.StoredHash)

	raw, err := os.ReadFile(s.sidecarPath("x.fw"))
	require.NoError(t, err)
	assert.Equal(t, e.StoredHash+"\n", string(raw))
}

func TestCommit_MissingTempIsCacheWriteFailure(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Commit("x.fw", s.TempPath("x.fw"), "aa")
	assert.Equal(t, errs.CacheWriteFailure, errs.KindOf(err))
}

func TestCommit_SidecarFailureRestoresTemp(t *testing.T) {
	s := newTestStore(t)
	content := []byte("verified bytes")
	tmp := s.TempPath("x.fw")
	require.NoError(t, os.WriteFile(tmp, content, 0o644))

	// A directory squatting on the sidecar path makes its rename fail.
	require.NoError(t, os.Mkdir(s.sidecarPath("x.fw"), 0o755))

	_, err := s.Commit("x.fw", tmp, digest(content))
	assert.Equal(t, errs.CacheWriteFailure, errs.KindOf(err))

	// The content moved back to the temp path, not stranded at the final one.
	got, err := os.ReadFile(tmp)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	_, statErr := os.Stat(s.Path("x.fw"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStoredHash(t *testing.T) {
	s := newTestStore(t)
	content := []byte("bytes")
	commitArtifact(t, s, "x.fw", content)

	stored, err := s.StoredHash("x.fw")
	require.NoError(t, err)
	assert.Equal(t, digest(content), stored)

	stored, err = s.StoredHash("missing.fw")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestInvalidate(t *testing.T) {
	s := newTestStore(t)
	commitArtifact(t, s, "x.fw", []byte("bytes"))

	require.NoError(t, s.Invalidate("x.fw"))
	require.NoError(t, s.Invalidate("x.fw"), "invalidating twice is fine")

	out, err := s.Lookup(context.Background(), "x.fw", nil)
	require.NoError(t, err)
	assert.Equal(t, verify.Absent, out.State)
}

func TestEntries_SkipsPartialsAndOrphans(t *testing.T) {
	s := newTestStore(t)
	commitArtifact(t, s, "a.fw", []byte("aaa"))
	commitArtifact(t, s, "b.img", []byte("bbb"))
	require.NoError(t, os.WriteFile(s.TempPath("c.img"), []byte("in flight"), 0o644))
	require.NoError(t, os.WriteFile(s.Path("orphan.img"), []byte("no sidecar"), 0o644))

	entries, err := s.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	names := []string{entries[0].Name, entries[1].Name}
	assert.ElementsMatch(t, []string{"a.fw", "b.img"}, names)
}

func TestClean(t *testing.T) {
	s := newTestStore(t)
	commitArtifact(t, s, "a.fw", []byte("aaa"))
	require.NoError(t, os.WriteFile(s.TempPath("b.img"), []byte("partial"), 0o644))

	require.NoError(t, s.Clean())

	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
