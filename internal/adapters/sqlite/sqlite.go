// Package sqlite adapts the sqlc query layer to the application store ports.
package sqlite

import (
	"database/sql"
	"time"
)

const timeLayout = "2006-01-02T15:04:05Z"

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullStringFrom(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}

func parseTime(value string) time.Time {
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, value)
	return t
}
