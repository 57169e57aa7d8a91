package db

import "context"

const queryDeleteCredential = `
DELETE FROM user_credentials
WHERE id = $1
`

func (s *DB) DeleteCredential(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteCredential")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryDeleteCredential, id)
	err = s.mapError(err)
	return err
}
