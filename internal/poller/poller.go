// Package poller keeps processing jobs in each studio session in sync with
// their stored rows.
package poller

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"videothingy/narrator/internal/studio"
	"videothingy/narrator/models"
)

// RowFetcher loads a job row by id.
type RowFetcher interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Video, error)
}

// Synchronizer periodically re-reads the current job of every session that is
// still processing and applies status changes.
type Synchronizer struct {
	sessions *studio.Registry
	rows     RowFetcher
	interval time.Duration
	idleTTL  time.Duration
	logger   *logrus.Logger
}

// NewSynchronizer creates a Synchronizer. A zero idleTTL disables session sweeping.
func NewSynchronizer(sessions *studio.Registry, rows RowFetcher, interval, idleTTL time.Duration, logger *logrus.Logger) *Synchronizer {
	return &Synchronizer{
		sessions: sessions,
		rows:     rows,
		interval: interval,
		idleTTL:  idleTTL,
		logger:   logger,
	}
}

// Run polls until ctx is done.
func (s *Synchronizer) Run(ctx context.Context) {
	s.logger.WithField("interval", s.interval.String()).Info("Job status synchronizer started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Job status synchronizer stopped")
			return
		case <-ticker.C:
			s.SyncOnce(ctx)
			if s.idleTTL > 0 {
				if n := s.sessions.Sweep(s.idleTTL); n > 0 {
					s.logger.WithField("sessions", n).Debug("Swept idle studio sessions")
				}
			}
		}
	}
}

// SyncOnce polls every processing job once and returns how many sessions changed.
// Fetch errors are logged and retried on the next tick.
func (s *Synchronizer) SyncOnce(ctx context.Context) int {
	applied := 0
	s.sessions.Each(func(st *studio.Studio) {
		if ctx.Err() != nil {
			return
		}
		ticket, ok := st.PollTarget()
		if !ok {
			return
		}

		row, err := s.rows.Get(ctx, ticket.VideoID)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"session_id": st.ID(),
				"video_id":   ticket.VideoID,
			}).Warn("Failed to poll video status")
			return
		}

		if st.ApplyPoll(ticket, *row) {
			applied++
			s.logger.WithFields(logrus.Fields{
				"session_id": st.ID(),
				"video_id":   row.ID,
				"status":     row.Status,
			}).Info("Video status updated from store")
		}
	})
	return applied
}
