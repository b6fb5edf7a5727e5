package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/commune/internal/model"
)

// PostgresSocialPostRepo はPostgreSQLを使用したソーシャル投稿リポジトリ。
// community_postsテーブルは外部の取り込みプロセスが書き込み、ここでは読み取り専用。
type PostgresSocialPostRepo struct {
	db *sql.DB
}

// NewPostgresSocialPostRepo はPostgresSocialPostRepoを生成する。
func NewPostgresSocialPostRepo(db *sql.DB) *PostgresSocialPostRepo {
	return &PostgresSocialPostRepo{db: db}
}

// ListAll は全ソーシャル投稿行をcreated_at降順で返す。
func (r *PostgresSocialPostRepo) ListAll(ctx context.Context) ([]model.SocialPostRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_type, link, author_name, author_email, created_at, updated_at
		 FROM community_posts
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ソーシャル投稿の一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var result []model.SocialPostRow
	for rows.Next() {
		var row model.SocialPostRow
		if err := rows.Scan(
			&row.ID, &row.PostType, &row.Link, &row.AuthorName,
			&row.AuthorEmail, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ソーシャル投稿の読み取りに失敗しました: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ソーシャル投稿の走査に失敗しました: %w", err)
	}

	return result, nil
}

// compile-time interface check
var _ SocialPostRepository = (*PostgresSocialPostRepo)(nil)
