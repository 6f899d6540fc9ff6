package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCredentialNotFound indicates no stored credential for (user, platform).
	ErrCredentialNotFound = errors.New("social account credential not found")
	// ErrPostNotFound indicates the post id is unknown.
	ErrPostNotFound = errors.New("instagram post not found")
	// ErrUserNotFound indicates no user row matched the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// User is a local dashboard account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Credential is one connected social account for a user.
// InstagramAccountID holds the resolved business-account id; empty means
// resolution has not succeeded yet.
type Credential struct {
	UserID             int64
	Platform           string
	AccessToken        string
	InstagramAccountID string
	ConnectedAt        time.Time
}

// Connection is the client-safe projection of a credential.
type Connection struct {
	Platform    string
	ConnectedAt time.Time
}

// Post is one normalized Instagram media item. Nil Caption and MediaURL mean
// the provider omitted those fields.
type Post struct {
	ID           string
	UserID       int64
	Caption      *string
	MediaURL     *string
	MediaType    string
	LikeCount    int
	CommentCount int
	PostedAt     time.Time
}

// MetricSnapshot is one append-only engagement sample for a post.
type MetricSnapshot struct {
	PostID       string
	LikeCount    int
	CommentCount int
	RecordedAt   time.Time
}

// UserStore persists dashboard accounts.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// AccountStore persists per (user, platform) social credentials.
type AccountStore interface {
	GetCredential(ctx context.Context, userID int64, platform string) (Credential, error)
	UpsertCredential(ctx context.Context, cred Credential) error
	ListConnections(ctx context.Context, userID int64) ([]Connection, error)
}

// PostStore persists normalized posts and their metric time series.
// UpsertPost and AppendSnapshot are intentionally separate operations: post
// rows are overwritten in place, snapshot rows only ever accumulate.
type PostStore interface {
	UpsertPost(ctx context.Context, post Post) error
	AppendSnapshot(ctx context.Context, postID string, likeCount, commentCount int) error
	GetPost(ctx context.Context, id string) (Post, error)
	ListPostsByUser(ctx context.Context, userID int64) ([]Post, error)
	ListSnapshots(ctx context.Context, postID string) ([]MetricSnapshot, error)
}
