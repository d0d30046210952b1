package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// State is the tagged result of a verification or cache lookup.
type State int

const (
	Absent State = iota
	Valid
	Invalid
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "absent"
	}
}

// Outcome pairs a state with the reason when the state is Invalid.
type Outcome struct {
	State  State
	Reason string
}

func ValidOutcome() Outcome  { return Outcome{State: Valid} }
func AbsentOutcome() Outcome { return Outcome{State: Absent} }

func InvalidOutcome(reason string) Outcome {
	return Outcome{State: Invalid, Reason: reason}
}

// SizeUnknown disables the size expectation in Verify.
const SizeUnknown int64 = -1

const hashBufSize = 256 * 1024

// FileSHA256 computes the lowercase hex digest of a file with a fixed-size
// read buffer, independent of how the file was written.
func FileSHA256(path string) (digest string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close failed: %w", cerr)
		}
	}()

	hasher := sha256.New()
	buf := make([]byte, hashBufSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return "", fmt.Errorf("failed to compute SHA256 for %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), err
}

// Verify checks a downloaded file against whatever expectations exist.
// expectedSize of SizeUnknown and an empty expectedHash each disable their
// check; with neither, the result is Valid. Size is checked before any
// hashing so an obviously truncated transfer fails cheaply.
func Verify(path string, expectedSize int64, expectedHash string) (Outcome, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return AbsentOutcome(), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if expectedSize != SizeUnknown && info.Size() != expectedSize {
		return InvalidOutcome(fmt.Sprintf("size mismatch: expected %d, got %d", expectedSize, info.Size())), nil
	}

	if expectedHash != "" {
		digest, err := FileSHA256(path)
		if err != nil {
			return Outcome{}, err
		}
		if !strings.EqualFold(digest, expectedHash) {
			return InvalidOutcome("hash mismatch"), nil
		}
	}

	return ValidOutcome(), nil
}
