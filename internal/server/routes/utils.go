package routes

import (
	"time"

	"github.com/gramboard/gramboard/internal/app/ports"
)

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

type postJSON struct {
	ID           string  `json:"id"`
	Caption      *string `json:"caption"`
	MediaURL     *string `json:"mediaUrl"`
	MediaType    string  `json:"mediaType"`
	LikeCount    int     `json:"likeCount"`
	CommentCount int     `json:"commentCount"`
	Timestamp    string  `json:"timestamp"`
}

func mapPosts(posts []ports.Post) []postJSON {
	out := make([]postJSON, 0, len(posts))
	for _, post := range posts {
		out = append(out, postJSON{
			ID:           post.ID,
			Caption:      post.Caption,
			MediaURL:     post.MediaURL,
			MediaType:    post.MediaType,
			LikeCount:    post.LikeCount,
			CommentCount: post.CommentCount,
			Timestamp:    post.PostedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

type snapshotJSON struct {
	PostID       string `json:"postId"`
	LikeCount    int    `json:"likeCount"`
	CommentCount int    `json:"commentCount"`
	RecordedAt   string `json:"recordedAt"`
}

func mapSnapshots(snapshots []ports.MetricSnapshot) []snapshotJSON {
	out := make([]snapshotJSON, 0, len(snapshots))
	for _, snapshot := range snapshots {
		out = append(out, snapshotJSON{
			PostID:       snapshot.PostID,
			LikeCount:    snapshot.LikeCount,
			CommentCount: snapshot.CommentCount,
			RecordedAt:   snapshot.RecordedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

type connectionJSON struct {
	Platform    string `json:"platform"`
	ConnectedAt string `json:"connectedAt"`
}

func mapConnections(connections []ports.Connection) []connectionJSON {
	out := make([]connectionJSON, 0, len(connections))
	for _, connection := range connections {
		out = append(out, connectionJSON{
			Platform:    connection.Platform,
			ConnectedAt: connection.ConnectedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
