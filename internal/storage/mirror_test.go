package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestMirrorUpload(t *testing.T) {
	putter := &fakePutter{}
	m := NewMirror(putter, "termos-bucket", "termos", quietLogger())

	err := m.Upload(context.Background(), "termo-musae-bot-Ana-1.pdf", []byte("%PDF"))
	require.NoError(t, err)

	require.Len(t, putter.inputs, 1)
	in := putter.inputs[0]
	assert.Equal(t, "termos-bucket", aws.ToString(in.Bucket))
	assert.Equal(t, "termos/termo-musae-bot-Ana-1.pdf", aws.ToString(in.Key))
	assert.Equal(t, "application/pdf", aws.ToString(in.ContentType))

	body, err := io.ReadAll(in.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(body))
}

func TestMirrorUploadFailureIsReported(t *testing.T) {
	putter := &fakePutter{err: errors.New("bucket gone")}
	m := NewMirror(putter, "termos-bucket", "termos", quietLogger())

	err := m.Upload(context.Background(), "a.pdf", []byte("x"))
	assert.Error(t, err)
}

func TestNilMirrorIsNoop(t *testing.T) {
	var m *Mirror
	assert.NoError(t, m.Upload(context.Background(), "a.pdf", []byte("x")))
}
