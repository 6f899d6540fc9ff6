package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/gramboard/gramboard/internal/adapters/sqlite"
	"github.com/gramboard/gramboard/internal/app/services"
	"github.com/gramboard/gramboard/internal/config"
	"github.com/gramboard/gramboard/internal/db"
	"github.com/gramboard/gramboard/internal/instagram"
	"github.com/gramboard/gramboard/internal/observability"
	"github.com/gramboard/gramboard/internal/server"
	"github.com/gramboard/gramboard/internal/server/routes"
)

func main() {
	log := slog.New(observability.WrapSlogHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return
	}
	if !cfg.Instagram.Enabled() {
		slog.Warn("Instagram OAuth is not configured, connect flow disabled")
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	userStore := sqlite.NewUserStore(database)
	accountStore := sqlite.NewAccountStore(database)
	postStore := sqlite.NewPostStore(database)

	stateCodec := instagram.NewStateCodec(cfg.Auth.JWTSecret, 0)
	oauthClient := instagram.NewOAuthClient(instagram.OAuthConfig{
		AppID:       cfg.Instagram.AppID,
		AppSecret:   cfg.Instagram.AppSecret,
		RedirectURI: cfg.Instagram.RedirectURI,
	})
	graphClient := instagram.NewGraphClient("", log)

	connectService := services.NewConnectService(accountStore, stateCodec, oauthClient, graphClient, cfg.Instagram.Enabled(), log)
	syncService := services.NewSyncService(accountStore, postStore, graphClient, log)

	requireAuth := routes.RequireAuth(cfg.Auth.JWTSecret)

	srv := server.New(log)
	srv.RegisterRouter(routes.NewAuthRoutes(userStore, cfg.Auth.JWTSecret, log))
	srv.RegisterRouter(routes.NewInstagramRoutes(connectService, syncService, postStore, requireAuth, log))
	srv.RegisterRouter(routes.NewSocialRoutes(connectService, requireAuth, log))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting server", "port", cfg.Server.Port)
	slog.Error("Closing server", "error", srv.Start(addr))
}
