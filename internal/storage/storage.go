package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	storage_go "github.com/supabase-community/storage-go"
)

// AudioStore uploads synthesized narration to a Supabase Storage bucket.
type AudioStore struct {
	client *storage_go.Client
	bucket string
	logger *logrus.Logger
}

// NewAudioStore creates an AudioStore writing into bucket.
func NewAudioStore(client *storage_go.Client, bucket string, logger *logrus.Logger) *AudioStore {
	return &AudioStore{client: client, bucket: bucket, logger: logger}
}

// UploadAudio stores data at path inside the bucket and returns its public URL.
func (s *AudioStore) UploadAudio(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	upsert := true
	_, err := s.client.UploadFile(s.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio to %s/%s: %w", s.bucket, path, err)
	}

	publicURL := s.client.GetPublicUrl(s.bucket, path).SignedURL
	s.logger.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"path":   path,
		"bytes":  len(data),
	}).Info("Uploaded narration audio")
	return publicURL, nil
}
