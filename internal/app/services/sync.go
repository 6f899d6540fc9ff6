package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gramboard/gramboard/internal/app/ports"
	"github.com/gramboard/gramboard/internal/instagram"
)

// PlatformInstagram is the platform key for Instagram credentials.
const PlatformInstagram = "instagram"

var (
	// ErrNotConnected indicates no usable Instagram credential is stored.
	ErrNotConnected = errors.New("instagram account not connected")
	// ErrMissingAccountID indicates a credential without a resolved business
	// account id. Resolution only happens during the OAuth callback, so the
	// user has to reconnect rather than sync again.
	ErrMissingAccountID = errors.New("missing instagram account id; reconnect account")
)

// SyncErrorKind classifies sync failures for transport-specific mapping.
type SyncErrorKind string

const (
	// SyncErrorUnknown is used when the error is nil or not classified.
	SyncErrorUnknown SyncErrorKind = "unknown"
	// SyncErrorNotConnected indicates a missing credential.
	SyncErrorNotConnected SyncErrorKind = "not_connected"
	// SyncErrorMissingAccountID indicates an unresolved business account id.
	SyncErrorMissingAccountID SyncErrorKind = "missing_account_id"
	// SyncErrorTokenExpired indicates the provider rejected the stored token.
	SyncErrorTokenExpired SyncErrorKind = "token_expired"
)

// ClassifySyncError classifies a returned sync error.
func ClassifySyncError(err error) SyncErrorKind {
	switch {
	case err == nil:
		return SyncErrorUnknown
	case errors.Is(err, ErrNotConnected):
		return SyncErrorNotConnected
	case errors.Is(err, ErrMissingAccountID):
		return SyncErrorMissingAccountID
	case errors.Is(err, instagram.ErrTokenExpired):
		return SyncErrorTokenExpired
	default:
		return SyncErrorUnknown
	}
}

// MediaFetcher retrieves recent media for a resolved business account.
type MediaFetcher interface {
	RecentMedia(ctx context.Context, igAccountID, accessToken string) ([]instagram.Media, error)
}

// SyncedPost is the client-safe projection of one synced media item.
type SyncedPost struct {
	ID           string  `json:"id"`
	Caption      *string `json:"caption"`
	MediaURL     *string `json:"mediaUrl"`
	MediaType    string  `json:"mediaType"`
	LikeCount    int     `json:"likeCount"`
	CommentCount int     `json:"commentCount"`
	Timestamp    string  `json:"timestamp"`
	Permalink    *string `json:"permalink"`
}

// SyncService pulls recent Instagram media into local storage and appends a
// metric snapshot per post on every run.
type SyncService struct {
	accounts ports.AccountStore
	posts    ports.PostStore
	fetcher  MediaFetcher
	log      *slog.Logger
}

// NewSyncService constructs a sync service.
func NewSyncService(accounts ports.AccountStore, posts ports.PostStore, fetcher MediaFetcher, log *slog.Logger) *SyncService {
	if log == nil {
		log = slog.Default()
	}
	return &SyncService{accounts: accounts, posts: posts, fetcher: fetcher, log: log}
}

// Sync fetches the user's recent media, upserts each post, appends one metric
// snapshot per post, and returns the normalized list in provider order.
// Upserting the same item twice leaves the post row unchanged in content but
// still appends a fresh snapshot; the snapshots are the engagement time series.
func (s *SyncService) Sync(ctx context.Context, userID int64) ([]SyncedPost, error) {
	cred, err := s.accounts.GetCredential(ctx, userID, PlatformInstagram)
	if err != nil {
		if errors.Is(err, ports.ErrCredentialNotFound) {
			return nil, ErrNotConnected
		}
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if cred.AccessToken == "" {
		return nil, ErrNotConnected
	}
	if cred.InstagramAccountID == "" {
		return nil, ErrMissingAccountID
	}

	media, err := s.fetcher.RecentMedia(ctx, cred.InstagramAccountID, cred.AccessToken)
	if err != nil {
		return nil, err
	}

	// Sequential by design: a failure persisting item N keeps items 1..N-1
	// and aborts the rest.
	synced := make([]SyncedPost, 0, len(media))
	for _, item := range media {
		post, err := normalizeMedia(userID, item)
		if err != nil {
			return nil, fmt.Errorf("normalize media %s: %w", item.ID, err)
		}
		if err := s.posts.UpsertPost(ctx, post); err != nil {
			return nil, fmt.Errorf("upsert post %s: %w", post.ID, err)
		}
		if err := s.posts.AppendSnapshot(ctx, post.ID, post.LikeCount, post.CommentCount); err != nil {
			return nil, fmt.Errorf("append snapshot for post %s: %w", post.ID, err)
		}
		synced = append(synced, SyncedPost{
			ID:           post.ID,
			Caption:      post.Caption,
			MediaURL:     post.MediaURL,
			MediaType:    post.MediaType,
			LikeCount:    post.LikeCount,
			CommentCount: post.CommentCount,
			Timestamp:    post.PostedAt.UTC().Format(time.RFC3339),
			Permalink:    optionalString(item.Permalink),
		})
	}

	s.log.Info("Instagram sync completed", "user_id", userID, "posts", len(synced))
	return synced, nil
}

// normalizeMedia maps a provider media item onto the local post shape,
// substituting defaults for fields the provider omitted.
func normalizeMedia(userID int64, item instagram.Media) (ports.Post, error) {
	postedAt, err := parseMediaTimestamp(item.Timestamp)
	if err != nil {
		return ports.Post{}, err
	}

	mediaType := item.MediaType
	if mediaType == "" {
		mediaType = "IMAGE"
	}

	return ports.Post{
		ID:           item.ID,
		UserID:       userID,
		Caption:      optionalString(item.Caption),
		MediaURL:     optionalString(item.MediaURL),
		MediaType:    mediaType,
		LikeCount:    countOrZero(item.LikeCount),
		CommentCount: countOrZero(item.CommentsCount),
		PostedAt:     postedAt,
	}, nil
}

// parseMediaTimestamp accepts RFC3339 and the Graph API's zone format
// without a colon ("2024-01-15T10:30:00+0000").
func parseMediaTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05-0700", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func countOrZero(value *int) int {
	if value == nil || *value < 0 {
		return 0
	}
	return *value
}
