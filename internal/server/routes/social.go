package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/gramboard/gramboard/internal/app/services"
)

// SocialRoutes registers manual social-account management endpoints.
type SocialRoutes struct {
	connect     *services.ConnectService
	requireAuth echo.MiddlewareFunc
	log         *slog.Logger
}

// NewSocialRoutes constructs social routes.
func NewSocialRoutes(connect *services.ConnectService, requireAuth echo.MiddlewareFunc, log *slog.Logger) *SocialRoutes {
	if log == nil {
		log = slog.Default()
	}
	return &SocialRoutes{connect: connect, requireAuth: requireAuth, log: log}
}

// RegisterRoutes registers social routes on the server.
func (r *SocialRoutes) RegisterRoutes(s *echo.Echo) {
	g := s.Group("/api/social", r.requireAuth)
	g.POST("/connect", r.handleConnect)
	g.GET("/status", r.handleStatus)
}

type connectRequest struct {
	Platform    string `json:"platform"`
	AccessToken string `json:"accessToken"`
	AccountID   string `json:"accountId"`
}

func (r connectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Platform, validation.Required),
		validation.Field(&r.AccessToken, validation.Required),
	)
}

func (r *SocialRoutes) handleConnect(c echo.Context) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
	}

	var req connectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	if err := r.connect.Connect(c.Request().Context(), userID, req.Platform, req.AccessToken, req.AccountID); err != nil {
		r.log.Error("Failed to connect account", "user_id", userID, "platform", req.Platform, "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to connect account"))
	}
	return c.JSON(http.StatusOK, map[string]string{"message": fmt.Sprintf("%s account connected", req.Platform)})
}

func (r *SocialRoutes) handleStatus(c echo.Context) error {
	userID, ok := authUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
	}

	connections, err := r.connect.Connections(c.Request().Context(), userID)
	if err != nil {
		r.log.Error("Failed to list connected accounts", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to fetch connected accounts"))
	}
	return c.JSON(http.StatusOK, map[string]any{"connected": mapConnections(connections)})
}
