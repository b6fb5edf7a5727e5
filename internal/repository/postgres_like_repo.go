package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/commune/internal/model"
)

// PostgresLikeRepo はPostgreSQLを使用したいいねリポジトリ。
type PostgresLikeRepo struct {
	db *sql.DB
}

// NewPostgresLikeRepo はPostgresLikeRepoを生成する。
func NewPostgresLikeRepo(db *sql.DB) *PostgresLikeRepo {
	return &PostgresLikeRepo{db: db}
}

// FindByUserAndPost は（ユーザー, 投稿）のいいねを取得する。見つからない場合はnilを返す。
func (r *PostgresLikeRepo) FindByUserAndPost(ctx context.Context, userID string, textPostID int64) (*model.Like, error) {
	like := &model.Like{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, text_post_id, user_id, created_at
		 FROM community_text_post_likes
		 WHERE user_id = $1 AND text_post_id = $2`,
		userID, textPostID,
	).Scan(&like.ID, &like.TextPostID, &like.UserID, &like.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("いいねの取得に失敗しました: %w", err)
	}

	return like, nil
}

// Create はいいねを作成する。
func (r *PostgresLikeRepo) Create(ctx context.Context, like *model.Like) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO community_text_post_likes (id, text_post_id, user_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		like.ID, like.TextPostID, like.UserID, like.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("いいねの作成に失敗しました: %w", err)
	}
	return nil
}

// Delete は（ユーザー, 投稿）のいいねを削除する。
func (r *PostgresLikeRepo) Delete(ctx context.Context, userID string, textPostID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM community_text_post_likes
		 WHERE user_id = $1 AND text_post_id = $2`,
		userID, textPostID,
	)
	if err != nil {
		return fmt.Errorf("いいねの削除に失敗しました: %w", err)
	}
	return nil
}

// CountByPost は投稿のいいね数を返す。
func (r *PostgresLikeRepo) CountByPost(ctx context.Context, textPostID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM community_text_post_likes WHERE text_post_id = $1`,
		textPostID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("いいね数の集計に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ LikeRepository = (*PostgresLikeRepo)(nil)
