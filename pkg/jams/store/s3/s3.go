// Package s3 implements store.Backend against an S3-compatible object
// store, including AWS S3 itself and the MinIO/localstack emulators used
// in tests.
package s3

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jams-project/jams/pkg/jams/store"
	"github.com/jams-project/jams/pkg/jamserrors"
)

// pageSize matches the enumeration page size used throughout the backing
// store's listing operations.
const pageSize = 10

// Options configures the S3 client, including the alternate endpoint used
// to talk to MinIO or localstack instead of real AWS.
type Options struct {
	Region         string
	Endpoint       string
	ForcePathStyle bool
}

// Backend talks to one S3 bucket (hint is always that bucket's name,
// passed through on every call so a single Backend can, in principle,
// serve multiple buckets).
type Backend struct {
	client *s3.Client
}

// New builds a Backend from Options, using the default AWS credential
// chain; an alternate endpoint (MinIO/localstack) only changes the service
// URL, and credentials still come from that chain.
func New(ctx context.Context, opts Options) (*Backend, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindStoreInit, err, "failed to load AWS config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.ForcePathStyle
	})

	return &Backend{client: client}, nil
}

var _ store.Backend = (*Backend)(nil)

func (b *Backend) IsEmpty(ctx context.Context, bucket string) (bool, error) {
	names, err := b.listOnePage(ctx, bucket)
	if err != nil {
		return false, err
	}
	return len(names) == 0, nil
}

func (b *Backend) listOnePage(ctx context.Context, bucket string) ([]string, error) {
	resp, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(pageSize),
	})
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindFetch, err, "failed to list objects in %s", bucket)
	}

	var names []string
	for _, obj := range resp.Contents {
		if obj.Key != nil && strings.HasSuffix(*obj.Key, ".tar.gz") {
			names = append(names, *obj.Key)
		}
	}
	return names, nil
}

func (b *Backend) ListArtefacts(ctx context.Context, bucket string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(pageSize),
	}

	var names []string
	paginator := s3.NewListObjectsV2Paginator(b.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, jamserrors.Wrap(jamserrors.KindFetch, err, "failed to list objects in %s", bucket)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && strings.HasSuffix(*obj.Key, ".tar.gz") {
				names = append(names, *obj.Key)
			}
		}
	}
	return names, nil
}

func (b *Backend) Download(ctx context.Context, bucket, artefact string, dest io.Writer) error {
	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(artefact),
	})
	if err != nil {
		return jamserrors.Wrap(jamserrors.KindFetch, err, "failed to get object %s from %s", artefact, bucket)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(dest, resp.Body); err != nil {
		return jamserrors.Wrap(jamserrors.KindFetch, err, "failed to read object %s from %s", artefact, bucket)
	}
	return nil
}
