// Package local implements store.Backend against a plain directory of
// ".tar.gz" artefacts, with no network transport involved.
package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jams-project/jams/pkg/jamserrors"
	"github.com/jams-project/jams/pkg/jams/store"
)

// Backend enumerates and reads artefacts from a local directory. hint is
// ignored; the directory is fixed at construction.
type Backend struct {
	dir string
}

// New returns a Backend rooted at dir.
func New(dir string) *Backend {
	return &Backend{dir: dir}
}

var _ store.Backend = (*Backend)(nil)

func (b *Backend) IsEmpty(_ context.Context, _ string) (bool, error) {
	names, err := b.listNames()
	if err != nil {
		return false, err
	}
	return len(names) == 0, nil
}

func (b *Backend) ListArtefacts(_ context.Context, _ string) ([]string, error) {
	return b.listNames()
}

func (b *Backend) listNames() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindFetch, err, "failed to read model directory %s", b.dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tar.gz") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (b *Backend) Download(_ context.Context, _, artefact string, dest io.Writer) error {
	src, err := os.Open(filepath.Join(b.dir, artefact))
	if err != nil {
		return jamserrors.Wrap(jamserrors.KindFetch, err, "failed to open artefact %s", artefact)
	}
	defer src.Close()

	if _, err := io.Copy(dest, src); err != nil {
		return jamserrors.Wrap(jamserrors.KindFetch, err, "failed to read artefact %s", artefact)
	}
	return nil
}
