// Package store implements the Model Store: the backend-agnostic fetch,
// unpack, and load pipeline shared by every backing store (local directory,
// S3-compatible, Azure Blob), plus the concurrent Registry and the
// long-running Poller that keeps it fresh.
package store

import (
	"context"
	"io"
)

// Backend is the narrow capability a backing store exposes; everything
// else (staging, unpacking, naming, loading) is shared logic in this
// package so each backend only has to know how to talk to its transport.
type Backend interface {
	// IsEmpty reports whether hint (bucket, container, or directory)
	// currently has no artefacts, without downloading anything.
	IsEmpty(ctx context.Context, hint string) (bool, error)

	// ListArtefacts enumerates every artefact name under hint. A failure
	// here is a transport-layer failure and aborts the whole fetch.
	ListArtefacts(ctx context.Context, hint string) ([]string, error)

	// Download streams the named artefact's bytes into dest. A failure
	// here is a per-artefact failure: the caller logs and skips it.
	Download(ctx context.Context, hint, artefact string, dest io.Writer) error
}
