package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresJoinRepo はPostgreSQLを使用したニュースレター登録リポジトリ。
type PostgresJoinRepo struct {
	db *sql.DB
}

// NewPostgresJoinRepo はPostgresJoinRepoを生成する。
func NewPostgresJoinRepo(db *sql.DB) *PostgresJoinRepo {
	return &PostgresJoinRepo{db: db}
}

// Create はメールアドレスを登録する。
// email一意制約違反（23505）はErrDuplicateEmailに変換して返す。
func (r *PostgresJoinRepo) Create(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO community_join (email) VALUES ($1)`,
		email,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("メールアドレスの登録に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ JoinRepository = (*PostgresJoinRepo)(nil)
