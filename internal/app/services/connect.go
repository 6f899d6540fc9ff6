package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gramboard/gramboard/internal/app/ports"
	"github.com/gramboard/gramboard/internal/instagram"
)

var (
	// ErrInvalidState indicates a missing, malformed, tampered or expired
	// OAuth state token. The user has to restart the connection flow.
	ErrInvalidState = errors.New("invalid or expired state token")
	// ErrAuthNotConfigured indicates the Instagram app registration is not
	// loaded, so no authorization URL can be built.
	ErrAuthNotConfigured = errors.New("instagram oauth is not configured")
)

// TokenExchanger performs the OAuth authorization-code exchange steps.
type TokenExchanger interface {
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	ExchangeLongLived(ctx context.Context, shortToken string) (string, error)
}

// AccountResolver discovers the Instagram business account behind a token.
type AccountResolver interface {
	FirstBusinessAccount(ctx context.Context, accessToken string) (string, error)
}

// StateCodec mints and verifies OAuth state tokens.
type StateCodec interface {
	Issue(userID int64) (string, error)
	Verify(token string) *instagram.StateClaims
}

// ConnectService drives the Instagram OAuth connect flow and manual
// credential management.
type ConnectService struct {
	accounts ports.AccountStore
	states   StateCodec
	oauth    TokenExchanger
	resolver AccountResolver
	enabled  bool
	log      *slog.Logger
}

// NewConnectService constructs a connect service. enabled gates the OAuth
// endpoints when the app registration is absent (local development).
func NewConnectService(accounts ports.AccountStore, states StateCodec, oauth TokenExchanger, resolver AccountResolver, enabled bool, log *slog.Logger) *ConnectService {
	if log == nil {
		log = slog.Default()
	}
	return &ConnectService{
		accounts: accounts,
		states:   states,
		oauth:    oauth,
		resolver: resolver,
		enabled:  enabled,
		log:      log,
	}
}

// StartAuth issues a fresh state token bound to the user and returns the
// provider authorization URL embedding it.
func (s *ConnectService) StartAuth(userID int64) (string, error) {
	if !s.enabled {
		return "", ErrAuthNotConfigured
	}
	state, err := s.states.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issue state token: %w", err)
	}
	return s.oauth.AuthorizationURL(state), nil
}

// CompleteCallback verifies the state, runs the two-step token exchange,
// resolves the business account id and persists the credential. A resolution
// failure is logged and swallowed: the credential is stored without an
// account id and sync later reports the distinct reconnect error.
func (s *ConnectService) CompleteCallback(ctx context.Context, state, code string) error {
	claims := s.states.Verify(state)
	if claims == nil {
		return ErrInvalidState
	}

	shortToken, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return err
	}
	longToken, err := s.oauth.ExchangeLongLived(ctx, shortToken)
	if err != nil {
		return err
	}

	accountID, err := s.resolver.FirstBusinessAccount(ctx, longToken)
	if err != nil {
		s.log.Warn("Could not resolve Instagram business account id", "user_id", claims.UserID, "error", err)
		accountID = ""
	}

	err = s.accounts.UpsertCredential(ctx, ports.Credential{
		UserID:             claims.UserID,
		Platform:           PlatformInstagram,
		AccessToken:        longToken,
		InstagramAccountID: accountID,
	})
	if err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	return nil
}

// Connect stores a manually supplied credential for any platform.
func (s *ConnectService) Connect(ctx context.Context, userID int64, platform, accessToken, accountID string) error {
	err := s.accounts.UpsertCredential(ctx, ports.Credential{
		UserID:             userID,
		Platform:           strings.ToLower(strings.TrimSpace(platform)),
		AccessToken:        accessToken,
		InstagramAccountID: accountID,
	})
	if err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	return nil
}

// Connections lists the user's connected platforms without exposing tokens.
func (s *ConnectService) Connections(ctx context.Context, userID int64) ([]ports.Connection, error) {
	return s.accounts.ListConnections(ctx, userID)
}
