// Package download streams one remote asset to disk in fixed-size chunks
// with progress callbacks and cancellation between chunks.
package download

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/fwbox/burnish/internal/errs"
	"github.com/fwbox/burnish/internal/service"
	"github.com/fwbox/burnish/internal/utils"
)

// TotalUnknown is passed to ProgressFunc when the server sends no
// Content-Length; the caller renders an indeterminate indicator.
const TotalUnknown int64 = -1

// ProgressFunc receives the running byte count after every chunk.
type ProgressFunc func(written, total int64)

const chunkSize = 256 * 1024

// Download streams url into dst and returns the bytes written. On any
// failure the partial dst file is left behind for the caller to discard;
// there is no resume, a retry always restarts from zero.
func Download(ctx context.Context, client service.HTTPClient, url, dst string, onProgress ProgressFunc) (int64, error) {
	resp, err := service.Get(ctx, client, url)
	if err != nil {
		return 0, err
	}
	defer utils.Try(resp.Body.Close)

	total := resp.ContentLength
	if total < 0 {
		total = TotalUnknown
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}

	written, copyErr := copyChunks(ctx, f, resp.Body, total, onProgress)

	if cerr := f.Close(); cerr != nil && copyErr == nil {
		copyErr = cerr
	}
	if copyErr != nil {
		return written, copyErr
	}

	if total != TotalUnknown && written != total {
		return written, errs.New(errs.TransportFailure, "short read: got %d of %d bytes", written, total)
	}
	return written, nil
}

func copyChunks(ctx context.Context, dst io.Writer, src io.Reader, total int64, onProgress ProgressFunc) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64

	for {
		// Cancellation takes effect between chunks, never mid-chunk.
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			if wn < n {
				return written, io.ErrShortWrite
			}
			if onProgress != nil {
				onProgress(written, total)
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return written, nil
			}
			return written, errs.Wrap(errs.TransportFailure, rerr, "transfer interrupted after %d bytes", written)
		}
	}
}
