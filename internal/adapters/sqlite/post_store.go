package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gramboard/gramboard/internal/app/ports"
	"github.com/gramboard/gramboard/internal/db/queries"
)

type postDatabase interface {
	UpsertInstagramPost(ctx context.Context, arg queries.UpsertInstagramPostParams) error
	GetInstagramPost(ctx context.Context, id string) (queries.InstagramPost, error)
	ListInstagramPostsByUser(ctx context.Context, userID int64) ([]queries.InstagramPost, error)
	AppendInstagramPostMetric(ctx context.Context, arg queries.AppendInstagramPostMetricParams) error
	ListInstagramPostMetrics(ctx context.Context, postID string) ([]queries.InstagramPostMetric, error)
}

// PostStore is the sqlite-backed post and metric snapshot store.
type PostStore struct {
	db postDatabase
}

// NewPostStore constructs a sqlite post store.
func NewPostStore(database postDatabase) *PostStore {
	return &PostStore{db: database}
}

// UpsertPost creates or overwrites the post row keyed by provider media id.
// Atomicity of the create-or-update is the database's unique-key upsert.
func (s *PostStore) UpsertPost(ctx context.Context, post ports.Post) error {
	return s.db.UpsertInstagramPost(ctx, queries.UpsertInstagramPostParams{
		ID:           post.ID,
		UserID:       post.UserID,
		Caption:      nullString(post.Caption),
		MediaUrl:     nullString(post.MediaURL),
		MediaType:    post.MediaType,
		LikeCount:    int64(post.LikeCount),
		CommentCount: int64(post.CommentCount),
		PostedAt:     post.PostedAt.UTC().Format(timeLayout),
	})
}

// AppendSnapshot adds one metric sample; snapshot rows are never updated.
func (s *PostStore) AppendSnapshot(ctx context.Context, postID string, likeCount, commentCount int) error {
	return s.db.AppendInstagramPostMetric(ctx, queries.AppendInstagramPostMetricParams{
		PostID:       postID,
		LikeCount:    int64(likeCount),
		CommentCount: int64(commentCount),
	})
}

func (s *PostStore) GetPost(ctx context.Context, id string) (ports.Post, error) {
	row, err := s.db.GetInstagramPost(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.Post{}, ports.ErrPostNotFound
		}
		return ports.Post{}, err
	}
	return mapPost(row), nil
}

func (s *PostStore) ListPostsByUser(ctx context.Context, userID int64) ([]ports.Post, error) {
	rows, err := s.db.ListInstagramPostsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts := make([]ports.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, mapPost(row))
	}
	return posts, nil
}

func (s *PostStore) ListSnapshots(ctx context.Context, postID string) ([]ports.MetricSnapshot, error) {
	rows, err := s.db.ListInstagramPostMetrics(ctx, postID)
	if err != nil {
		return nil, err
	}
	snapshots := make([]ports.MetricSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, ports.MetricSnapshot{
			PostID:       row.PostID,
			LikeCount:    int(row.LikeCount),
			CommentCount: int(row.CommentCount),
			RecordedAt:   parseTime(row.RecordedAt),
		})
	}
	return snapshots, nil
}

func mapPost(row queries.InstagramPost) ports.Post {
	var postedAt time.Time
	if row.PostedAt != "" {
		postedAt = parseTime(row.PostedAt)
	}
	return ports.Post{
		ID:           row.ID,
		UserID:       row.UserID,
		Caption:      stringPtr(row.Caption),
		MediaURL:     stringPtr(row.MediaUrl),
		MediaType:    row.MediaType,
		LikeCount:    int(row.LikeCount),
		CommentCount: int(row.CommentCount),
		PostedAt:     postedAt,
	}
}

var _ ports.PostStore = (*PostStore)(nil)
