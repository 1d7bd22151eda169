package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/caretrack/internal/gateway"
)

type fakeClient struct {
	puts    []*s3.PutObjectInput
	bodies  []string
	putErr  error
	headErr error
}

func (f *fakeClient) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(params.Body)
	f.puts = append(f.puts, params)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeClient) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func TestCreateFilePutsObjectUnderPrefix(t *testing.T) {
	client := &fakeClient{}
	storage, err := New(client, Config{Bucket: "caretrack-docs", Prefix: "/identification/", PublicBaseURL: "https://cdn.test/"})
	require.NoError(t, err)

	f, err := storage.CreateFile(context.Background(), "ids", "f1", gateway.InputFile{
		Name:        "passport.pdf",
		ContentType: "application/pdf",
		Size:        3,
		Reader:      strings.NewReader("pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, "f1", f.ID)

	require.Len(t, client.puts, 1)
	put := client.puts[0]
	assert.Equal(t, "caretrack-docs", aws.ToString(put.Bucket))
	assert.Equal(t, "identification/ids/f1", aws.ToString(put.Key))
	assert.Equal(t, "application/pdf", aws.ToString(put.ContentType))
	assert.Equal(t, "*", aws.ToString(put.IfNoneMatch))
	assert.Equal(t, "pdf", client.bodies[0])

	assert.Equal(t, "https://cdn.test/identification/ids/f1", storage.FileViewURL("ids", "f1"))
}

func TestCreateFileWrapsUploadError(t *testing.T) {
	boom := errors.New("access denied")
	storage, err := New(&fakeClient{putErr: boom}, Config{Bucket: "b"})
	require.NoError(t, err)

	_, err = storage.CreateFile(context.Background(), "ids", "f1", gateway.InputFile{Reader: strings.NewReader("x")})
	assert.ErrorIs(t, err, boom)
}

func TestPingChecksBucket(t *testing.T) {
	storage, err := New(&fakeClient{headErr: errors.New("no such bucket")}, Config{Bucket: "b"})
	require.NoError(t, err)
	assert.Error(t, storage.Ping(context.Background()))
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(&fakeClient{}, Config{})
	assert.Error(t, err)
}
