package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gramboard/gramboard/internal/app/ports"
	"github.com/gramboard/gramboard/internal/app/services"
)

// igTokenExpiredCode is the stable machine-readable code the client uses to
// prompt a reconnect instead of showing a generic failure.
const igTokenExpiredCode = "IG_TOKEN_EXPIRED"

// InstagramRoutes registers the Instagram connect and sync endpoints.
type InstagramRoutes struct {
	connect     *services.ConnectService
	sync        *services.SyncService
	posts       ports.PostStore
	requireAuth echo.MiddlewareFunc
	log         *slog.Logger
}

// NewInstagramRoutes constructs Instagram routes.
func NewInstagramRoutes(connect *services.ConnectService, sync *services.SyncService, posts ports.PostStore, requireAuth echo.MiddlewareFunc, log *slog.Logger) *InstagramRoutes {
	if log == nil {
		log = slog.Default()
	}
	return &InstagramRoutes{connect: connect, sync: sync, posts: posts, requireAuth: requireAuth, log: log}
}

// RegisterRoutes registers the Instagram routes on the server. The callback
// is unauthenticated on purpose: the provider redirect carries no bearer
// token, identity travels inside the signed state parameter.
func (r *InstagramRoutes) RegisterRoutes(s *echo.Echo) {
	g := s.Group("/api/instagram")
	g.GET("/auth/start", r.handleAuthStart, r.requireAuth)
	g.GET("/auth/callback", r.handleAuthCallback)
	g.POST("/sync", r.handleSync, r.requireAuth)
	g.GET("/posts", r.handleListPosts, r.requireAuth)
	g.GET("/posts/:id/metrics", r.handlePostMetrics, r.requireAuth)
}

func (r *InstagramRoutes) handleAuthStart(c echo.Context) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
	}

	url, err := r.connect.StartAuth(userID)
	if err != nil {
		if errors.Is(err, services.ErrAuthNotConfigured) {
			return c.JSON(http.StatusServiceUnavailable, errorBody("Instagram integration is not configured"))
		}
		r.log.Error("Failed to start Instagram auth", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to start Instagram auth"))
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

func (r *InstagramRoutes) handleAuthCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return c.JSON(http.StatusBadRequest, errorBody("Missing code/state"))
	}

	if err := r.connect.CompleteCallback(c.Request().Context(), state, code); err != nil {
		if errors.Is(err, services.ErrInvalidState) {
			return c.JSON(http.StatusBadRequest, errorBody("Invalid state"))
		}
		r.log.Error("Instagram callback failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("OAuth exchange failed"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (r *InstagramRoutes) handleSync(c echo.Context) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
	}

	posts, err := r.sync.Sync(c.Request().Context(), userID)
	if err != nil {
		switch services.ClassifySyncError(err) {
		case services.SyncErrorNotConnected:
			return c.JSON(http.StatusUnauthorized, errorBody("Instagram not connected"))
		case services.SyncErrorMissingAccountID:
			return c.JSON(http.StatusBadRequest, errorBody("Missing Instagram account id; reconnect account"))
		case services.SyncErrorTokenExpired:
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "Token expired",
				"code":  igTokenExpiredCode,
			})
		default:
			r.log.Error("Instagram sync failed", "user_id", userID, "error", err)
			return c.JSON(http.StatusInternalServerError, errorBody("Failed to sync Instagram"))
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"posts": posts})
}

func (r *InstagramRoutes) handleListPosts(c echo.Context) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
	}

	posts, err := r.posts.ListPostsByUser(c.Request().Context(), userID)
	if err != nil {
		r.log.Error("Failed to list Instagram posts", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to fetch Instagram posts"))
	}
	return c.JSON(http.StatusOK, map[string]any{"posts": mapPosts(posts)})
}

func (r *InstagramRoutes) handlePostMetrics(c echo.Context) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
	}

	postID := c.Param("id")
	post, err := r.posts.GetPost(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return c.JSON(http.StatusNotFound, errorBody("Post not found"))
		}
		r.log.Error("Failed to load post", "post_id", postID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to fetch post metrics"))
	}
	if post.UserID != userID {
		return c.JSON(http.StatusNotFound, errorBody("Post not found"))
	}

	snapshots, err := r.posts.ListSnapshots(c.Request().Context(), postID)
	if err != nil {
		r.log.Error("Failed to list snapshots", "post_id", postID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to fetch post metrics"))
	}
	return c.JSON(http.StatusOK, map[string]any{"metrics": mapSnapshots(snapshots)})
}
