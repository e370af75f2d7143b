package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ThumbnailStore copies a meal's thumbnail somewhere durable and returns
// the URL to render.
type ThumbnailStore interface {
	Archive(ctx context.Context, mealID, sourceURL string) (string, error)
}

// PassThroughStore keeps the upstream URL.
type PassThroughStore struct{}

func (PassThroughStore) Archive(_ context.Context, _ string, sourceURL string) (string, error) {
	return sourceURL, nil
}

type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ThumbnailStore downloads the thumbnail and uploads it under
// thumbnails/<mealID><ext>.
type S3ThumbnailStore struct {
	client    S3PutObjectAPI
	http      *http.Client
	bucket    string
	publicURL string
}

func NewS3ThumbnailStore(ctx context.Context, bucket, region, publicURL string) (*S3ThumbnailStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}
	return NewS3ThumbnailStoreWithClient(s3.NewFromConfig(cfg), bucket, publicURL), nil
}

func NewS3ThumbnailStoreWithClient(client S3PutObjectAPI, bucket, publicURL string) *S3ThumbnailStore {
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3ThumbnailStore{
		client:    client,
		http:      &http.Client{Timeout: 15 * time.Second},
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *S3ThumbnailStore) Archive(ctx context.Context, mealID, sourceURL string) (string, error) {
	if sourceURL == "" {
		return "", nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download thumbnail: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("thumbnail download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read thumbnail: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	ext := thumbnailExt(contentType, sourceURL)
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	key := "thumbnails/" + mealID + ext
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

func thumbnailExt(contentType, sourceURL string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	if ext := path.Ext(strings.SplitN(sourceURL, "?", 2)[0]); ext != "" {
		return strings.ToLower(ext)
	}
	return ".jpg"
}
