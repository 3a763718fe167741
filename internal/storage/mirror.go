// Package storage mirrors stored term PDFs to an S3-compatible
// bucket. The mirror is advisory, like the metadata log: a failed
// upload is logged and the submission still succeeds.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// ObjectPutter is the slice of the S3 API the mirror needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Mirror copies saved PDFs to a bucket under a fixed key prefix.
type Mirror struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *logrus.Logger
}

// NewMirror returns a mirror writing to bucket. A nil *Mirror is a
// valid no-op mirror, which is how a deployment without MIRROR_BUCKET
// runs.
func NewMirror(client ObjectPutter, bucket, prefix string, logger *logrus.Logger) *Mirror {
	return &Mirror{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Upload pushes one PDF to the bucket. Best effort: errors go to the
// log and are returned for tests, but callers do not fail the
// submission on them.
func (m *Mirror) Upload(ctx context.Context, fileName string, pdf []byte) error {
	if m == nil {
		return nil
	}

	key := path.Join(m.prefix, fileName)
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		m.logger.WithError(err).WithField("key", key).Warn("mirror upload failed")
		return fmt.Errorf("mirror %s: %w", key, err)
	}

	m.logger.WithField("key", key).Debug("mirrored pdf")
	return nil
}
