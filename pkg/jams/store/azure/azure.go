// Package azure implements store.Backend against an Azure Blob Storage
// container, including the Azurite emulator used in tests.
package azure

import (
	"context"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/jams-project/jams/pkg/jams/store"
	"github.com/jams-project/jams/pkg/jamserrors"
)

const pageSize = int32(10)

// Options configures the Azure client, including the Azurite emulator
// endpoint used in place of a real storage account.
type Options struct {
	ServiceURL string
	Account    string
	AccessKey  string
}

// Backend talks to one Azure Blob Storage account (hint is the container
// name, passed on every call).
type Backend struct {
	client *azblob.Client
}

// New builds a Backend from Options. When AccessKey is set (e.g. for
// Azurite) a shared-key credential is used; otherwise the default Azure
// identity chain applies.
func New(opts Options) (*Backend, error) {
	var client *azblob.Client
	if opts.AccessKey != "" {
		cred, err := azblob.NewSharedKeyCredential(opts.Account, opts.AccessKey)
		if err != nil {
			return nil, jamserrors.Wrap(jamserrors.KindStoreInit, err, "failed to build azure shared key credential")
		}
		client, err = azblob.NewClientWithSharedKeyCredential(opts.ServiceURL, cred, nil)
		if err != nil {
			return nil, jamserrors.Wrap(jamserrors.KindStoreInit, err, "failed to build azure client")
		}
	} else {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, jamserrors.Wrap(jamserrors.KindStoreInit, err, "failed to build azure default credential")
		}
		client, err = azblob.NewClient(opts.ServiceURL, cred, nil)
		if err != nil {
			return nil, jamserrors.Wrap(jamserrors.KindStoreInit, err, "failed to build azure client")
		}
	}

	return &Backend{client: client}, nil
}

var _ store.Backend = (*Backend)(nil)

func (b *Backend) IsEmpty(ctx context.Context, containerName string) (bool, error) {
	names, err := b.ListArtefacts(ctx, containerName)
	if err != nil {
		return false, err
	}
	return len(names) == 0, nil
}

func (b *Backend) ListArtefacts(ctx context.Context, containerName string) ([]string, error) {
	var names []string
	pager := b.client.NewListBlobsFlatPager(containerName, &container.ListBlobsFlatOptions{
		MaxResults: &pageSize,
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, jamserrors.Wrap(jamserrors.KindFetch, err, "failed to list blobs in %s", containerName)
		}
		for _, blob := range page.Segment.BlobItems {
			if blob.Name != nil && strings.HasSuffix(*blob.Name, ".tar.gz") {
				names = append(names, *blob.Name)
			}
		}
	}
	return names, nil
}

// Download opens a chunked blob stream and copies it to dest, concatenating
// every chunk into a complete byte stream as it comes in.
func (b *Backend) Download(ctx context.Context, containerName, artefact string, dest io.Writer) error {
	resp, err := b.client.DownloadStream(ctx, containerName, artefact, nil)
	if err != nil {
		return jamserrors.Wrap(jamserrors.KindFetch, err, "failed to open blob stream for %s", artefact)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(dest, resp.Body); err != nil {
		return jamserrors.Wrap(jamserrors.KindFetch, err, "failed to read blob %s", artefact)
	}
	return nil
}

