package instagram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFirstBusinessAccountReturnsFirstMatch(t *testing.T) {
	t.Parallel()

	var p3Lookups atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me/accounts":
			_, _ = w.Write([]byte(`{"data":[{"id":"p1","name":"First"},{"id":"p2","name":"Second"},{"id":"p3","name":"Third"}]}`))
		case "/p1":
			_, _ = w.Write([]byte(`{"id":"p1"}`))
		case "/p2":
			_, _ = w.Write([]byte(`{"id":"p2","instagram_business_account":{"id":"B2"}}`))
		case "/p3":
			p3Lookups.Add(1)
			_, _ = w.Write([]byte(`{"id":"p3","instagram_business_account":{"id":"B3"}}`))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewGraphClient(srv.URL, nil)
	accountID, err := client.FirstBusinessAccount(context.Background(), "token")
	if err != nil {
		t.Fatalf("FirstBusinessAccount error = %v", err)
	}
	if accountID != "B2" {
		t.Fatalf("expected first match B2, got %q", accountID)
	}
	if p3Lookups.Load() != 0 {
		t.Fatal("expected scan to short-circuit before p3")
	}
}

func TestFirstBusinessAccountSkipsFailingPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me/accounts":
			_, _ = w.Write([]byte(`{"data":[{"id":"p1"},{"id":"p2"}]}`))
		case "/p1":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"message":"permission denied"}}`))
		case "/p2":
			_, _ = w.Write([]byte(`{"id":"p2","instagram_business_account":{"id":"B2"}}`))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewGraphClient(srv.URL, nil)
	accountID, err := client.FirstBusinessAccount(context.Background(), "token")
	if err != nil {
		t.Fatalf("FirstBusinessAccount error = %v", err)
	}
	if accountID != "B2" {
		t.Fatalf("expected B2 after skipping failed page, got %q", accountID)
	}
}

func TestFirstBusinessAccountNoPages(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewGraphClient(srv.URL, nil)
	accountID, err := client.FirstBusinessAccount(context.Background(), "token")
	if err != nil {
		t.Fatalf("FirstBusinessAccount error = %v", err)
	}
	if accountID != "" {
		t.Fatalf("expected empty account id, got %q", accountID)
	}
}

func TestFirstBusinessAccountListPagesFailureAborts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"server error"}}`))
	}))
	defer srv.Close()

	client := NewGraphClient(srv.URL, nil)
	if _, err := client.FirstBusinessAccount(context.Background(), "token"); err == nil {
		t.Fatal("expected error when page listing fails")
	}
}

func TestRecentMediaClassifiesExpiredToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		status      int
		body        string
		wantExpired bool
	}{
		{"expired token", http.StatusBadRequest, `{"error":{"message":"Error validating access token: Session has expired"}}`, true},
		{"invalid token", http.StatusBadRequest, `{"error":{"message":"the token is invalid"}}`, true},
		{"unauthorized invalid", http.StatusUnauthorized, `{"error":{"message":"Invalid OAuth access token"}}`, true},
		{"server error", http.StatusInternalServerError, `server error`, false},
		{"plain client error", http.StatusBadRequest, `{"error":{"message":"unsupported request"}}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewGraphClient(srv.URL, nil)
			_, err := client.RecentMedia(context.Background(), "ig-user", "token")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrTokenExpired); got != tc.wantExpired {
				t.Fatalf("errors.Is(err, ErrTokenExpired) = %v, want %v (err=%v)", got, tc.wantExpired, err)
			}
			if !tc.wantExpired && !errors.Is(err, ErrFetchFailed) {
				t.Fatalf("expected ErrFetchFailed, got %v", err)
			}
		})
	}
}

func TestRecentMediaRequestsFixedFieldSet(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ig-user/media" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != mediaFields {
			t.Fatalf("unexpected fields: %s", got)
		}
		fmt.Fprint(w, `{"data":[
			{"id":"m1","caption":"Hello","media_type":"IMAGE","media_url":"https://cdn.example.com/m1.jpg","timestamp":"2024-01-15T10:30:00+0000","comments_count":2,"like_count":5,"permalink":"https://instagram.com/p/m1"},
			{"id":"m2","media_type":"VIDEO","timestamp":"2024-01-14T09:00:00+0000"}
		]}`)
	}))
	defer srv.Close()

	client := NewGraphClient(srv.URL, nil)
	media, err := client.RecentMedia(context.Background(), "ig-user", "token")
	if err != nil {
		t.Fatalf("RecentMedia error = %v", err)
	}
	if len(media) != 2 {
		t.Fatalf("expected 2 items, got %d", len(media))
	}
	if media[0].LikeCount == nil || *media[0].LikeCount != 5 {
		t.Fatalf("unexpected like count: %v", media[0].LikeCount)
	}
	if media[1].LikeCount != nil || media[1].CommentsCount != nil {
		t.Fatal("expected omitted counts to stay nil")
	}
	if media[1].Caption != "" || media[1].MediaURL != "" {
		t.Fatal("expected omitted caption and media_url to stay empty")
	}
}

func TestRecentMediaEmptyAccount(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewGraphClient(srv.URL, nil)
	media, err := client.RecentMedia(context.Background(), "ig-user", "token")
	if err != nil {
		t.Fatalf("RecentMedia error = %v", err)
	}
	if len(media) != 0 {
		t.Fatalf("expected no media, got %d", len(media))
	}
}
