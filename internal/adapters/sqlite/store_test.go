package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gramboard/gramboard/internal/app/ports"
	"github.com/gramboard/gramboard/internal/db"
)

func openTestDatabase(t *testing.T) *db.Database {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "gramboard-test"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func seedUser(t *testing.T, database *db.Database, email string) ports.User {
	t.Helper()
	users := NewUserStore(database)
	user, err := users.CreateUser(context.Background(), email, "$2a$10$hash")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func strPtr(v string) *string { return &v }

func TestUserStoreCreateAndFetch(t *testing.T) {
	database := openTestDatabase(t)
	users := NewUserStore(database)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, "ada@example.com", "$2a$10$hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned user id")
	}

	fetched, err := users.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if fetched.ID != created.ID || fetched.PasswordHash != "$2a$10$hash" {
		t.Fatalf("unexpected user row: %+v", fetched)
	}

	if _, err := users.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ports.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserStoreRejectsDuplicateEmail(t *testing.T) {
	database := openTestDatabase(t)
	users := NewUserStore(database)
	ctx := context.Background()

	if _, err := users.CreateUser(ctx, "ada@example.com", "hash-1"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := users.CreateUser(ctx, "ada@example.com", "hash-2"); !errors.Is(err, ports.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAccountStoreUpsertReplacesCredential(t *testing.T) {
	database := openTestDatabase(t)
	user := seedUser(t, database, "ada@example.com")
	accounts := NewAccountStore(database)
	ctx := context.Background()

	if _, err := accounts.GetCredential(ctx, user.ID, "instagram"); !errors.Is(err, ports.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}

	err := accounts.UpsertCredential(ctx, ports.Credential{
		UserID:      user.ID,
		Platform:    "instagram",
		AccessToken: "token-1",
	})
	if err != nil {
		t.Fatalf("upsert credential: %v", err)
	}

	err = accounts.UpsertCredential(ctx, ports.Credential{
		UserID:             user.ID,
		Platform:           "instagram",
		AccessToken:        "token-2",
		InstagramAccountID: "B2",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	cred, err := accounts.GetCredential(ctx, user.ID, "instagram")
	if err != nil {
		t.Fatalf("get credential: %v", err)
	}
	if cred.AccessToken != "token-2" || cred.InstagramAccountID != "B2" {
		t.Fatalf("second upsert must replace the row, got %+v", cred)
	}

	connections, err := accounts.ListConnections(ctx, user.ID)
	if err != nil {
		t.Fatalf("list connections: %v", err)
	}
	if len(connections) != 1 {
		t.Fatalf("expected one connection per platform, got %d", len(connections))
	}
	if connections[0].Platform != "instagram" || connections[0].ConnectedAt.IsZero() {
		t.Fatalf("unexpected connection: %+v", connections[0])
	}
}

func TestAccountStoreScopesCredentialsPerUser(t *testing.T) {
	database := openTestDatabase(t)
	ada := seedUser(t, database, "ada@example.com")
	grace := seedUser(t, database, "grace@example.com")
	accounts := NewAccountStore(database)
	ctx := context.Background()

	if err := accounts.UpsertCredential(ctx, ports.Credential{UserID: ada.ID, Platform: "instagram", AccessToken: "ada-token"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := accounts.GetCredential(ctx, grace.ID, "instagram"); !errors.Is(err, ports.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound for the other user, got %v", err)
	}
}

func TestPostStoreUpsertIsIdempotentAndSnapshotsAppend(t *testing.T) {
	database := openTestDatabase(t)
	user := seedUser(t, database, "ada@example.com")
	posts := NewPostStore(database)
	ctx := context.Background()

	post := ports.Post{
		ID:           "m1",
		UserID:       user.ID,
		Caption:      strPtr("Hello"),
		MediaURL:     strPtr("https://cdn.example.com/m1.jpg"),
		MediaType:    "IMAGE",
		LikeCount:    5,
		CommentCount: 2,
		PostedAt:     time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	if err := posts.UpsertPost(ctx, post); err != nil {
		t.Fatalf("upsert post: %v", err)
	}
	if err := posts.AppendSnapshot(ctx, post.ID, 5, 2); err != nil {
		t.Fatalf("append snapshot: %v", err)
	}

	// Second sync of the same media id: counts move, the row stays one.
	post.LikeCount = 9
	post.CommentCount = 3
	if err := posts.UpsertPost(ctx, post); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if err := posts.AppendSnapshot(ctx, post.ID, 9, 3); err != nil {
		t.Fatalf("second snapshot: %v", err)
	}

	listed, err := posts.ListPostsByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one post row after re-sync, got %d", len(listed))
	}
	if listed[0].LikeCount != 9 || listed[0].CommentCount != 3 {
		t.Fatalf("expected refreshed counts, got %+v", listed[0])
	}
	if listed[0].Caption == nil || *listed[0].Caption != "Hello" {
		t.Fatalf("expected caption to survive, got %+v", listed[0].Caption)
	}
	if !listed[0].PostedAt.Equal(post.PostedAt) {
		t.Fatalf("posted_at round trip: got %v, want %v", listed[0].PostedAt, post.PostedAt)
	}

	snapshots, err := posts.ListSnapshots(ctx, post.ID)
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("expected one snapshot per sync, got %d", len(snapshots))
	}
	if snapshots[0].LikeCount != 5 || snapshots[1].LikeCount != 9 {
		t.Fatalf("snapshots must keep history in order: %+v", snapshots)
	}
}

func TestPostStoreListsNewestFirst(t *testing.T) {
	database := openTestDatabase(t)
	user := seedUser(t, database, "ada@example.com")
	posts := NewPostStore(database)
	ctx := context.Background()

	older := ports.Post{ID: "m1", UserID: user.ID, MediaType: "IMAGE", PostedAt: time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC)}
	newer := ports.Post{ID: "m2", UserID: user.ID, MediaType: "VIDEO", PostedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	if err := posts.UpsertPost(ctx, older); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := posts.UpsertPost(ctx, newer); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	listed, err := posts.ListPostsByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "m2" || listed[1].ID != "m1" {
		t.Fatalf("expected newest-first ordering, got %+v", listed)
	}
}

func TestPostStoreGetPostMissing(t *testing.T) {
	database := openTestDatabase(t)
	posts := NewPostStore(database)

	if _, err := posts.GetPost(context.Background(), "missing"); !errors.Is(err, ports.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
