package store

import (
	"context"
	"fmt"
)

// Migrate creates the video metrics tables if they do not exist. The
// videos table holds current per-video aggregate counters; video_snapshots
// holds periodic measurements with signed deltas against the previous one.
func (s *Store) Migrate(ctx context.Context) error {
	s.log.Info("running database migrations")

	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS videos (
			id UUID PRIMARY KEY,
			creator_id UUID NOT NULL,
			video_created_at TIMESTAMPTZ NOT NULL,
			views_count BIGINT NOT NULL,
			likes_count BIGINT NOT NULL,
			comments_count BIGINT NOT NULL,
			reports_count BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create videos table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS video_snapshots (
			id UUID PRIMARY KEY,
			video_id UUID NOT NULL REFERENCES videos (id),
			views_count BIGINT NOT NULL,
			likes_count BIGINT NOT NULL,
			comments_count BIGINT NOT NULL,
			reports_count BIGINT NOT NULL,
			delta_views_count BIGINT NOT NULL,
			delta_likes_count BIGINT NOT NULL,
			delta_comments_count BIGINT NOT NULL,
			delta_reports_count BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create video_snapshots table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_video_snapshots_video_id
		ON video_snapshots (video_id)
	`)
	if err != nil {
		return fmt.Errorf("failed to create video_snapshots video index: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_video_snapshots_created_at
		ON video_snapshots (created_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to create video_snapshots time index: %w", err)
	}

	s.log.Info("database migrations completed")
	return nil
}
