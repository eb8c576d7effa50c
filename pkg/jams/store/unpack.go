package store

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jams-project/jams/pkg/jamserrors"
)

// unpackArtefact extracts the gzipped tar at tarGzPath into a fresh
// directory under outputDir named after the artefact's stem (its name
// minus the .tar.gz suffix), returning that directory's path. No ecosystem
// tar library appears anywhere in the reference pack, so this uses the
// standard library directly (see DESIGN.md).
func unpackArtefact(tarGzPath, outputDir string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(tarGzPath), ".tar.gz")
	destDir := filepath.Join(outputDir, stem)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", jamserrors.Wrap(jamserrors.KindFetch, err, "failed to create unpack dir for %s", stem)
	}

	f, err := os.Open(tarGzPath)
	if err != nil {
		return "", jamserrors.Wrap(jamserrors.KindFetch, err, "failed to open artefact %s", tarGzPath)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", jamserrors.Wrap(jamserrors.KindFetch, err, "failed to open gzip stream for %s", tarGzPath)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", jamserrors.Wrap(jamserrors.KindFetch, err, "failed to read tar entry in %s", tarGzPath)
		}

		target, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return "", err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", jamserrors.Wrap(jamserrors.KindFetch, err, "failed to create dir %s", target)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return "", jamserrors.Wrap(jamserrors.KindFetch, err, "failed to create parent dir for %s", target)
			}
			if err := extractFile(tr, target, hdr.Mode); err != nil {
				return "", err
			}
		default:
			// Symlinks and other special entries are not expected in model
			// artefacts; skip them rather than fail the whole unpack.
			continue
		}
	}

	return destDir, nil
}

func extractFile(r io.Reader, target string, mode int64) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(mode))
	if err != nil {
		return jamserrors.Wrap(jamserrors.KindFetch, err, "failed to create file %s", target)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return jamserrors.Wrap(jamserrors.KindFetch, err, "failed to write file %s", target)
	}
	return nil
}

// safeJoin prevents a malicious or corrupted tar entry from writing outside
// destDir via ".." path segments (zip-slip).
func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, name)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) && target != filepath.Clean(destDir) {
		return "", jamserrors.New(jamserrors.KindFetch, "tar entry %q escapes destination directory", name)
	}
	return target, nil
}
