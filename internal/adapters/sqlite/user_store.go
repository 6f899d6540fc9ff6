package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gramboard/gramboard/internal/app/ports"
	"github.com/gramboard/gramboard/internal/db/queries"
)

type userDatabase interface {
	CreateUser(ctx context.Context, arg queries.CreateUserParams) (queries.User, error)
	GetUserByEmail(ctx context.Context, email string) (queries.User, error)
}

// UserStore is the sqlite-backed dashboard account store.
type UserStore struct {
	db userDatabase
}

// NewUserStore constructs a sqlite user store.
func NewUserStore(database userDatabase) *UserStore {
	return &UserStore{db: database}
}

func (s *UserStore) CreateUser(ctx context.Context, email, passwordHash string) (ports.User, error) {
	row, err := s.db.CreateUser(ctx, queries.CreateUserParams{Email: email, PasswordHash: passwordHash})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ports.User{}, ports.ErrEmailTaken
		}
		return ports.User{}, err
	}
	return mapUser(row), nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (ports.User, error) {
	row, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.User{}, ports.ErrUserNotFound
		}
		return ports.User{}, err
	}
	return mapUser(row), nil
}

func mapUser(row queries.User) ports.User {
	return ports.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    parseTime(row.CreatedAt),
	}
}

var _ ports.UserStore = (*UserStore)(nil)
