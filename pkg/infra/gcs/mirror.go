package gcs

import (
	"context"
	"io"
	"os"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"google.golang.org/api/option"
)

// Mirror copies release artifacts to gs://<bucket>/<prefix>/<owner>/<repo>/<tag>/<name>
type Mirror struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewMirror creates a GCS artifact mirror using Application Default Credentials
// unless client options say otherwise
func NewMirror(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*Mirror, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client", goerr.V("bucket", bucket))
	}

	return &Mirror{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// ObjectName returns the object path an artifact of release is stored at
func (m *Mirror) ObjectName(release *model.ReleaseEvent, artifact *model.Artifact) string {
	return path.Join(m.prefix, release.Repository.Owner, release.Repository.Name, release.TagName, artifact.Name)
}

// Mirror uploads the artifact file
func (m *Mirror) Mirror(ctx context.Context, release *model.ReleaseEvent, artifact *model.Artifact) error {
	name := m.ObjectName(release, artifact)

	f, err := os.Open(artifact.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to open artifact", goerr.V("path", artifact.Path))
	}
	defer f.Close()

	w := m.client.Bucket(m.bucket).Object(name).NewWriter(ctx)
	w.ContentType = artifact.ContentType

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", m.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", m.bucket), goerr.V("object", name))
	}

	ctxlog.From(ctx).Info("Mirrored artifact",
		"bucket", m.bucket,
		"object", name,
	)
	return nil
}

// Close releases the underlying client
func (m *Mirror) Close() error {
	return m.client.Close()
}
