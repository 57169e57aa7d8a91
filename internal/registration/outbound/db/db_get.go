package db

import (
	"context"

	"github.com/shandysiswandi/shopbite/internal/registration/entity"
)

const queryGetCredentialByEmail = `
SELECT id, name, email, password_hash, roles, enabled, created_at
FROM user_credentials
WHERE email = $1
`

func (s *DB) GetCredentialByEmail(ctx context.Context, email string) (cred *entity.Credential, err error) {
	ctx, span := s.startSpan(ctx, "GetCredentialByEmail")
	defer func() { s.endSpan(span, err) }()

	var out entity.Credential
	var roles []string

	row := s.conn.QueryRow(ctx, queryGetCredentialByEmail, email)
	if err = s.mapError(row.Scan(&out.ID, &out.Name, &out.Email, &out.PasswordHash, &roles, &out.Enabled, &out.CreatedAt)); err != nil {
		return nil, err
	}

	out.Roles = make([]entity.Role, 0, len(roles))
	for _, r := range roles {
		out.Roles = append(out.Roles, entity.Role(r))
	}

	return &out, nil
}
