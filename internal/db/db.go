package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	postgrest "github.com/supabase-community/postgrest-go"

	"videothingy/narrator/models"
)

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("video record not found")
	// ErrStaleTransition is returned when an update targets a row that already left
	// pending/processing.
	ErrStaleTransition = errors.New("video record is no longer pending or processing")
)

// openStatuses are the states an update may move a row out of.
var openStatuses = []string{string(models.StatusPending), string(models.StatusProcessing)}

// VideoStore reads and writes generation job rows through PostgREST.
type VideoStore struct {
	client *postgrest.Client
	table  string
	logger *logrus.Logger
}

// NewVideoStore creates a store over the given table.
func NewVideoStore(client *postgrest.Client, table string, logger *logrus.Logger) *VideoStore {
	return &VideoStore{client: client, table: table, logger: logger}
}

// Insert creates a new row and returns it as stored, including the generated id.
func (s *VideoStore) Insert(ctx context.Context, v models.NewVideo) (*models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, _, err := s.client.From(s.table).
		Insert(v, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert video record: %w", err)
	}

	var results []models.Video
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("could not process video creation response: %w", err)
	}
	if len(results) == 0 {
		return nil, errors.New("no record returned after insert")
	}

	s.logger.WithFields(logrus.Fields{
		"video_id": results[0].ID,
		"user_id":  v.UserID,
		"status":   results[0].Status,
	}).Info("Created video record")
	return &results[0], nil
}

// Complete moves an open row to completed and records both asset URLs.
func (s *VideoStore) Complete(ctx context.Context, id uuid.UUID, videoURL, audioURL string) error {
	return s.transition(ctx, id, map[string]interface{}{
		"status":    models.StatusCompleted,
		"video_url": videoURL,
		"audio_url": audioURL,
	})
}

// Fail moves an open row to failed. Asset URLs are left untouched.
func (s *VideoStore) Fail(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, map[string]interface{}{
		"status": models.StatusFailed,
	})
}

// transition applies updates only while the row is pending or processing, so a
// terminal row is never rewritten.
func (s *VideoStore) transition(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, _, err := s.client.From(s.table).
		Update(updates, "representation", "").
		Eq("id", id.String()).
		In("status", openStatuses).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update video record %s: %w", id, err)
	}

	var results []models.Video
	if err := json.Unmarshal(body, &results); err != nil {
		return fmt.Errorf("could not process video update response for %s: %w", id, err)
	}
	if len(results) == 0 {
		s.logger.WithField("video_id", id).Warn("No open video record matched update")
		return fmt.Errorf("%w: %s", ErrStaleTransition, id)
	}

	s.logger.WithFields(logrus.Fields{
		"video_id": id,
		"status":   updates["status"],
	}).Info("Updated video record")
	return nil
}

// Get fetches a row by id.
func (s *VideoStore) Get(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, _, err := s.client.From(s.table).
		Select("*", "", false).
		Eq("id", id.String()).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve video %s: %w", id, err)
	}

	var results []models.Video
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("could not process video data for %s: %w", id, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &results[0], nil
}
