package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/commune/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// ListByPost は投稿の全コメントをcreated_at昇順のフラットなリストで返す。
// ツリーへの再構築は呼び出し側で行う。
func (r *PostgresCommentRepo) ListByPost(ctx context.Context, textPostID int64) ([]*model.TextPostComment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text_post_id, user_id, parent_id, content, author_name, created_at
		 FROM community_text_post_comments
		 WHERE text_post_id = $1
		 ORDER BY created_at ASC`,
		textPostID,
	)
	if err != nil {
		return nil, fmt.Errorf("コメントの一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var result []*model.TextPostComment
	for rows.Next() {
		comment := &model.TextPostComment{}
		if err := rows.Scan(
			&comment.ID, &comment.TextPostID, &comment.UserID, &comment.ParentID,
			&comment.Content, &comment.AuthorName, &comment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("コメントの読み取りに失敗しました: %w", err)
		}
		result = append(result, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("コメントの走査に失敗しました: %w", err)
	}

	return result, nil
}

// Create はコメントを作成し、採番されたIDとcreated_atをセットして返す。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.TextPostComment) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO community_text_post_comments
		     (text_post_id, user_id, parent_id, content, author_name)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		comment.TextPostID, comment.UserID, comment.ParentID,
		comment.Content, comment.AuthorName,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}
	return nil
}

// CountByPost は投稿のコメント数を返す。
func (r *PostgresCommentRepo) CountByPost(ctx context.Context, textPostID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM community_text_post_comments WHERE text_post_id = $1`,
		textPostID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("コメント数の集計に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
