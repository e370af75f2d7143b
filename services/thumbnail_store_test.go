package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	key         string
	contentType string
	body        []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3ThumbnailStoreArchive(t *testing.T) {
	img := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer img.Close()

	fake := &fakeS3{}
	store := NewS3ThumbnailStoreWithClient(fake, "recipes", "https://cdn.example/")

	url, err := store.Archive(context.Background(), "52772", img.URL+"/images/teriyaki")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/thumbnails/52772.jpg", url)
	assert.Equal(t, "thumbnails/52772.jpg", fake.key)
	assert.Equal(t, "image/jpeg", fake.contentType)
	assert.Equal(t, "jpeg-bytes", string(fake.body))
}

func TestS3ThumbnailStoreDownloadFailure(t *testing.T) {
	img := httptest.NewServer(http.NotFoundHandler())
	defer img.Close()

	fake := &fakeS3{}
	store := NewS3ThumbnailStoreWithClient(fake, "recipes", "")
	_, err := store.Archive(context.Background(), "1", img.URL+"/x.png")
	require.Error(t, err)
	assert.Empty(t, fake.key)
}

func TestThumbnailExt(t *testing.T) {
	assert.Equal(t, ".png", thumbnailExt("image/png", ""))
	assert.Equal(t, ".webp", thumbnailExt("", "https://x/y/pic.WEBP?size=1"))
	assert.Equal(t, ".jpg", thumbnailExt("", "https://x/y/pic"))
}

func TestPassThroughStore(t *testing.T) {
	url, err := PassThroughStore{}.Archive(context.Background(), "1", "https://img.example/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/1.jpg", url)
}
