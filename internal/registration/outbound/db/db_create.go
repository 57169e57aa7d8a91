package db

import (
	"context"

	"github.com/shandysiswandi/shopbite/internal/registration/entity"
)

const queryCreateCredential = `
INSERT INTO user_credentials (id, name, email, password_hash, roles, enabled, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (s *DB) CreateCredential(ctx context.Context, in entity.NewCredential) (err error) {
	ctx, span := s.startSpan(ctx, "CreateCredential")
	defer func() { s.endSpan(span, err) }()

	roles := make([]string, 0, len(in.Roles))
	for _, r := range in.Roles {
		roles = append(roles, string(r))
	}

	_, err = s.conn.Exec(ctx, queryCreateCredential, in.ID, in.Name, in.Email, in.PasswordHash, roles, in.Enabled, in.CreatedAt)
	err = s.mapError(err)
	return err
}
