package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// videoDocument mirrors the videos.json export format.
type videoDocument struct {
	Videos []videoRecord `json:"videos"`
}

type videoRecord struct {
	ID             string           `json:"id"`
	CreatorID      string           `json:"creator_id"`
	VideoCreatedAt timestamp        `json:"video_created_at"`
	ViewsCount     int64            `json:"views_count"`
	LikesCount     int64            `json:"likes_count"`
	CommentsCount  int64            `json:"comments_count"`
	ReportsCount   int64            `json:"reports_count"`
	CreatedAt      timestamp        `json:"created_at"`
	UpdatedAt      timestamp        `json:"updated_at"`
	Snapshots      []snapshotRecord `json:"snapshots"`
}

type snapshotRecord struct {
	ID                 string    `json:"id"`
	ViewsCount         int64     `json:"views_count"`
	LikesCount         int64     `json:"likes_count"`
	CommentsCount      int64     `json:"comments_count"`
	ReportsCount       int64     `json:"reports_count"`
	DeltaViewsCount    int64     `json:"delta_views_count"`
	DeltaLikesCount    int64     `json:"delta_likes_count"`
	DeltaCommentsCount int64     `json:"delta_comments_count"`
	DeltaReportsCount  int64     `json:"delta_reports_count"`
	CreatedAt          timestamp `json:"created_at"`
	UpdatedAt          timestamp `json:"updated_at"`
}

// timestamp accepts both RFC 3339 and the offset-less ISO form the export
// uses.
type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// LoadVideos bulk-loads a videos.json document in a single transaction and
// returns the number of videos and snapshots inserted.
func (s *Store) LoadVideos(ctx context.Context, r io.Reader) (int, int, error) {
	var doc videoDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, 0, fmt.Errorf("failed to decode videos document: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	videos := 0
	snapshots := 0
	for _, v := range doc.Videos {
		videoID, err := uuid.Parse(v.ID)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid video id %q: %w", v.ID, err)
		}
		creatorID, err := uuid.Parse(v.CreatorID)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid creator id %q for video %s: %w", v.CreatorID, videoID, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO videos (id, creator_id, video_created_at, views_count, likes_count, comments_count, reports_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`, videoID, creatorID, v.VideoCreatedAt.Time, v.ViewsCount, v.LikesCount, v.CommentsCount, v.ReportsCount, v.CreatedAt.Time, v.UpdatedAt.Time)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert video %s: %w", videoID, err)
		}
		videos++

		for _, snap := range v.Snapshots {
			snapshotID, err := uuid.Parse(snap.ID)
			if err != nil {
				return 0, 0, fmt.Errorf("invalid snapshot id %q for video %s: %w", snap.ID, videoID, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO video_snapshots (id, video_id, views_count, likes_count, comments_count, reports_count, delta_views_count, delta_likes_count, delta_comments_count, delta_reports_count, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				ON CONFLICT (id) DO NOTHING
			`, snapshotID, videoID, snap.ViewsCount, snap.LikesCount, snap.CommentsCount, snap.ReportsCount,
				snap.DeltaViewsCount, snap.DeltaLikesCount, snap.DeltaCommentsCount, snap.DeltaReportsCount,
				snap.CreatedAt.Time, snap.UpdatedAt.Time)
			if err != nil {
				return 0, 0, fmt.Errorf("failed to insert snapshot %s: %w", snapshotID, err)
			}
			snapshots++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit load: %w", err)
	}

	s.log.Info("loaded videos document", "videos", videos, "snapshots", snapshots)
	return videos, snapshots, nil
}
