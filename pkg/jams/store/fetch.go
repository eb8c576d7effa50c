package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/jams-project/jams/pkg/jamserrors"
	"github.com/jams-project/jams/pkg/logging"
)

// FetchModels enumerates every artefact under hint, streams each into a
// process-private temporary directory (fresh per call), unpacks it into
// outputDir, and loads it through the shared Adapter dispatch. Per-artefact
// failures (download, unpack, unrecognized framework, engine load) are
// logged and skipped; the call only fails outright if enumeration itself
// fails at the transport layer. Skipped artefacts are also accumulated into
// a single multierror that is logged once, so the log shows every failure
// from the cycle, not just the first; it is not returned to the caller.
func FetchModels(ctx context.Context, backend Backend, hint, outputDir string, logger logging.Interface) ([]LoadedModel, error) {
	names, err := backend.ListArtefacts(ctx, hint)
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindFetch, err, "failed to enumerate artefacts under %q", hint)
	}

	downloadDir, err := os.MkdirTemp("", "jams_fetch_")
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindFetch, err, "failed to create temporary download directory")
	}
	defer os.RemoveAll(downloadDir)

	var loaded []LoadedModel
	var skipped *multierror.Error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}

		if err := fetchOne(ctx, backend, hint, name, downloadDir, outputDir, &loaded); err != nil {
			skipped = multierror.Append(skipped, fmt.Errorf("%s: %w", name, err))
			logger.WithField("artefact", name).WithError(err).Warn("skipping artefact")
		}
	}

	if skipped != nil && skipped.Len() > 0 {
		logger.WithField("skipped_count", skipped.Len()).Warn(skipped.Error())
	}

	return loaded, nil
}

func fetchOne(ctx context.Context, backend Backend, hint, name, downloadDir, outputDir string, loaded *[]LoadedModel) error {
	destPath := filepath.Join(downloadDir, name)
	f, err := os.Create(destPath)
	if err != nil {
		return jamserrors.Wrap(jamserrors.KindFetch, err, "failed to create download file for %s", name)
	}
	downloadErr := backend.Download(ctx, hint, name, f)
	closeErr := f.Close()
	if downloadErr != nil {
		return jamserrors.Wrap(jamserrors.KindFetch, downloadErr, "failed to download %s", name)
	}
	if closeErr != nil {
		return jamserrors.Wrap(jamserrors.KindFetch, closeErr, "failed to finalize download of %s", name)
	}

	unpackedDir, err := unpackArtefact(destPath, outputDir)
	if err != nil {
		return err
	}

	lm, err := loadArtefactDir(unpackedDir)
	if err != nil {
		return err
	}

	*loaded = append(*loaded, lm)
	return nil
}

// FetchOneArtefact downloads and loads a single named artefact (used by
// add_model/update_model, which operate on one artefact rather than a bulk
// enumeration).
func FetchOneArtefact(ctx context.Context, backend Backend, hint, artefact, outputDir string) (LoadedModel, error) {
	downloadDir, err := os.MkdirTemp("", "jams_fetch_")
	if err != nil {
		return LoadedModel{}, jamserrors.Wrap(jamserrors.KindFetch, err, "failed to create temporary download directory")
	}
	defer os.RemoveAll(downloadDir)

	destPath := filepath.Join(downloadDir, artefact)
	f, err := os.Create(destPath)
	if err != nil {
		return LoadedModel{}, jamserrors.Wrap(jamserrors.KindFetch, err, "failed to create download file for %s", artefact)
	}
	downloadErr := backend.Download(ctx, hint, artefact, f)
	closeErr := f.Close()
	if downloadErr != nil {
		return LoadedModel{}, jamserrors.Wrap(jamserrors.KindFetch, downloadErr, "failed to download %s", artefact)
	}
	if closeErr != nil {
		return LoadedModel{}, jamserrors.Wrap(jamserrors.KindFetch, closeErr, "failed to finalize download of %s", artefact)
	}

	unpackedDir, err := unpackArtefact(destPath, outputDir)
	if err != nil {
		return LoadedModel{}, err
	}

	return loadArtefactDir(unpackedDir)
}
