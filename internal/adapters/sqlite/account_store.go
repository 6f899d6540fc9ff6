package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gramboard/gramboard/internal/app/ports"
	"github.com/gramboard/gramboard/internal/db/queries"
)

type accountDatabase interface {
	GetSocialAccount(ctx context.Context, arg queries.GetSocialAccountParams) (queries.SocialAccount, error)
	UpsertSocialAccount(ctx context.Context, arg queries.UpsertSocialAccountParams) (queries.SocialAccount, error)
	ListSocialAccountsByUser(ctx context.Context, userID int64) ([]queries.SocialAccount, error)
}

// AccountStore is the sqlite-backed social credential store.
type AccountStore struct {
	db accountDatabase
}

// NewAccountStore constructs a sqlite account store.
func NewAccountStore(database accountDatabase) *AccountStore {
	return &AccountStore{db: database}
}

func (s *AccountStore) GetCredential(ctx context.Context, userID int64, platform string) (ports.Credential, error) {
	row, err := s.db.GetSocialAccount(ctx, queries.GetSocialAccountParams{UserID: userID, Platform: platform})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.Credential{}, ports.ErrCredentialNotFound
		}
		return ports.Credential{}, err
	}
	return mapCredential(row), nil
}

func (s *AccountStore) UpsertCredential(ctx context.Context, cred ports.Credential) error {
	_, err := s.db.UpsertSocialAccount(ctx, queries.UpsertSocialAccountParams{
		UserID:             cred.UserID,
		Platform:           cred.Platform,
		AccessToken:        cred.AccessToken,
		InstagramAccountID: nullStringFrom(cred.InstagramAccountID),
	})
	return err
}

func (s *AccountStore) ListConnections(ctx context.Context, userID int64) ([]ports.Connection, error) {
	rows, err := s.db.ListSocialAccountsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	connections := make([]ports.Connection, 0, len(rows))
	for _, row := range rows {
		connections = append(connections, ports.Connection{
			Platform:    row.Platform,
			ConnectedAt: parseTime(row.ConnectedAt),
		})
	}
	return connections, nil
}

func mapCredential(row queries.SocialAccount) ports.Credential {
	var accountID string
	if row.InstagramAccountID.Valid {
		accountID = row.InstagramAccountID.String
	}
	var connectedAt time.Time
	if row.ConnectedAt != "" {
		connectedAt = parseTime(row.ConnectedAt)
	}
	return ports.Credential{
		UserID:             row.UserID,
		Platform:           row.Platform,
		AccessToken:        row.AccessToken,
		InstagramAccountID: accountID,
		ConnectedAt:        connectedAt,
	}
}

var _ ports.AccountStore = (*AccountStore)(nil)
