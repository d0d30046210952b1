package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artifact.fw")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func sum(content []byte) string {
	s := sha256.Sum256(content)
	return hex.EncodeToString(s[:])
}

func TestVerify_NoExpectations(t *testing.T) {
	path := writeTemp(t, []byte("anything"))

	// The degraded-trust default: nothing to check means valid.
	out, err := Verify(path, SizeUnknown, "")
	require.NoError(t, err)
	assert.Equal(t, Valid, out.State)
}

func TestVerify_Absent(t *testing.T) {
	out, err := Verify(filepath.Join(t.TempDir(), "missing"), SizeUnknown, "")
	require.NoError(t, err)
	assert.Equal(t, Absent, out.State)
}

func TestVerify_SizeMismatchBeforeHash(t *testing.T) {
	content := make([]byte, 999)
	path := writeTemp(t, content)

	// Wrong size plus a garbage hash: the size check must win, so the
	// reason names sizes, not hashes.
	out, err := Verify(path, 1000, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, Invalid, out.State)
	assert.Equal(t, "size mismatch: expected 1000, got 999", out.Reason)
}

func TestVerify_SizeAndHashMatch(t *testing.T) {
	content := make([]byte, 1000)
	for i := range content {
		content[i] = byte(i)
	}
	path := writeTemp(t, content)

	out, err := Verify(path, 1000, sum(content))
	require.NoError(t, err)
	assert.Equal(t, Valid, out.State)
}

func TestVerify_HashCaseInsensitive(t *testing.T) {
	content := []byte("firmware bytes")
	path := writeTemp(t, content)

	out, err := Verify(path, SizeUnknown, strings.ToUpper(sum(content)))
	require.NoError(t, err)
	assert.Equal(t, Valid, out.State)
}

func TestVerify_HashMismatch(t *testing.T) {
	path := writeTemp(t, []byte("actual"))

	out, err := Verify(path, SizeUnknown, sum([]byte("expected")))
	require.NoError(t, err)
	assert.Equal(t, Invalid, out.State)
	assert.Equal(t, "hash mismatch", out.Reason)
}

func TestFileSHA256(t *testing.T) {
	content := []byte("some firmware payload")
	path := writeTemp(t, content)

	digest, err := FileSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, sum(content), digest)
}
