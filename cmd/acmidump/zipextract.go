package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"

	"acmicore/internal/acmierr"
)

// zipExtractor is the default ZipExtractor, backed by archive/zip. It
// requires the archive to contain exactly one entry.
type zipExtractor struct{}

func (zipExtractor) Extract(ctx context.Context, data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", acmierr.ErrCorruptContainer, err)
	}
	if len(r.File) != 1 {
		return nil, fmt.Errorf("%w: expected exactly 1 entry, got %d", acmierr.ErrCorruptContainer, len(r.File))
	}

	f, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", acmierr.ErrCorruptContainer, err)
	}
	defer f.Close()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", acmierr.ErrCancelled, ctx.Err())
	default:
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", acmierr.ErrCorruptContainer, err)
	}
	return content, nil
}
