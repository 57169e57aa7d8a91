package db

import (
	"context"

	"github.com/shandysiswandi/shopbite/internal/account/entity"
)

const queryGetAccountByID = `
SELECT user_id, name, email, created_at, updated_at
FROM account_users
WHERE user_id = $1
`

const queryListAccounts = `
SELECT user_id, name, email, created_at, updated_at
FROM account_users
ORDER BY created_at, user_id
LIMIT $1 OFFSET $2
`

func (s *DB) GetAccountByID(ctx context.Context, userID string) (acc *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByID")
	defer func() { s.endSpan(span, err) }()

	var out entity.Account
	row := s.conn.QueryRow(ctx, queryGetAccountByID, userID)
	if err = s.mapError(row.Scan(&out.UserID, &out.Name, &out.Email, &out.CreatedAt, &out.UpdatedAt)); err != nil {
		return nil, err
	}

	return &out, nil
}

func (s *DB) ListAccounts(ctx context.Context, limit, offset int32) (_ []entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "ListAccounts")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListAccounts, limit, offset)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.Account, 0, limit)
	for rows.Next() {
		var out entity.Account
		if err = rows.Scan(&out.UserID, &out.Name, &out.Email, &out.CreatedAt, &out.UpdatedAt); err != nil {
			return nil, s.mapError(err)
		}
		items = append(items, out)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}
