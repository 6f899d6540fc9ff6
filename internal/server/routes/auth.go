package routes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/gramboard/gramboard/internal/app/ports"
	"github.com/gramboard/gramboard/internal/observability"
)

const (
	authUserIDKey  = "authUserID"
	bearerPrefix   = "Bearer "
	loginTokenTTL  = 24 * time.Hour
	bcryptHashCost = 10
)

// LoginClaims is the JWT payload issued at login and checked on every
// authenticated request.
type LoginClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthRoutes registers registration and login endpoints.
type AuthRoutes struct {
	users  ports.UserStore
	secret []byte
	log    *slog.Logger
}

// NewAuthRoutes constructs auth routes signing login tokens with secret.
func NewAuthRoutes(users ports.UserStore, secret string, log *slog.Logger) *AuthRoutes {
	if log == nil {
		log = slog.Default()
	}
	return &AuthRoutes{users: users, secret: []byte(secret), log: log}
}

// RegisterRoutes registers authentication routes on the server.
func (a *AuthRoutes) RegisterRoutes(s *echo.Echo) {
	g := s.Group("/api/auth")
	g.POST("/register", a.handleRegister)
	g.POST("/login", a.handleLogin)
}

// RequireAuth checks the bearer token and stores the authenticated user id on
// the request.
func RequireAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
			}
			claims := &LoginClaims{}
			parsed, err := jwt.ParseWithClaims(strings.TrimPrefix(header, bearerPrefix), claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return key, nil
			})
			if err != nil || !parsed.Valid || claims.UserID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
			}

			ctx := observability.WithRequestIdentity(c.Request().Context(), claims.UserID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(authUserIDKey, claims.UserID)
			return next(c)
		}
	}
}

func authUserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(authUserIDKey).(int64)
	return id, ok && id > 0
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
	)
}

func (a *AuthRoutes) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptHashCost)
	if err != nil {
		a.log.Error("Failed to hash password", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Registration failed"))
	}

	if _, err := a.users.CreateUser(c.Request().Context(), strings.ToLower(strings.TrimSpace(req.Email)), string(hash)); err != nil {
		if errors.Is(err, ports.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, errorBody("Email already exists"))
		}
		a.log.Error("Failed to create user", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Registration failed"))
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "User registered"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthRoutes) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	user, err := a.users.GetUserByEmail(c.Request().Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, errorBody("Invalid credentials"))
		}
		a.log.Error("Failed to load user", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Login failed"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, errorBody("Incorrect password"))
	}

	now := time.Now()
	claims := &LoginClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(loginTokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		a.log.Error("Failed to sign login token", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Login failed"))
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}
