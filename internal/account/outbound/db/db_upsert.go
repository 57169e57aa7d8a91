package db

import (
	"context"

	"github.com/shandysiswandi/shopbite/internal/account/entity"
)

const queryUpsertAccount = `
INSERT INTO account_users (user_id, name, email, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
ON CONFLICT (user_id) DO UPDATE
SET name = EXCLUDED.name, email = EXCLUDED.email, updated_at = EXCLUDED.updated_at
`

// UpsertAccount writes the projection row for a user in one statement, so a
// redelivered event overwrites rather than duplicates.
func (s *DB) UpsertAccount(ctx context.Context, in entity.UpsertAccount) (err error) {
	ctx, span := s.startSpan(ctx, "UpsertAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpsertAccount, in.UserID, in.Name, in.Email, in.At)
	return s.mapError(err)
}
