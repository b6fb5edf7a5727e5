package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/commune/internal/model"
)

// PostgresTextPostRepo はPostgreSQLを使用したテキスト投稿リポジトリ。
type PostgresTextPostRepo struct {
	db *sql.DB
}

// NewPostgresTextPostRepo はPostgresTextPostRepoを生成する。
func NewPostgresTextPostRepo(db *sql.DB) *PostgresTextPostRepo {
	return &PostgresTextPostRepo{db: db}
}

// ListPublished はpublished=trueの行をcreated_at降順で返す。
// slug欠落行の除外はここでは行わず、正規化層に委ねる。
func (r *PostgresTextPostRepo) ListPublished(ctx context.Context) ([]model.TextPostRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, excerpt, content, image_url, image_path,
		        published, views, slug, created_at
		 FROM community_text_posts
		 WHERE published = TRUE
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("テキスト投稿の一覧取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var result []model.TextPostRow
	for rows.Next() {
		var row model.TextPostRow
		if err := rows.Scan(
			&row.ID, &row.Title, &row.Excerpt, &row.Content,
			&row.ImageURL, &row.ImagePath,
			&row.Published, &row.Views, &row.Slug, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("テキスト投稿の読み取りに失敗しました: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("テキスト投稿の走査に失敗しました: %w", err)
	}

	return result, nil
}

// FindBySlug はslugでpublished=trueの行を取得する。見つからない場合はnilを返す。
func (r *PostgresTextPostRepo) FindBySlug(ctx context.Context, slug string) (*model.TextPostRow, error) {
	row := &model.TextPostRow{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, excerpt, content, image_url, image_path,
		        published, views, slug, created_at
		 FROM community_text_posts
		 WHERE slug = $1 AND published = TRUE`,
		slug,
	).Scan(
		&row.ID, &row.Title, &row.Excerpt, &row.Content,
		&row.ImageURL, &row.ImagePath,
		&row.Published, &row.Views, &row.Slug, &row.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("テキスト投稿の取得に失敗しました: %w", err)
	}

	return row, nil
}

// IncrementViews はslugで指定された公開済み投稿の閲覧数を1増やす。
// 読み取ってから書き戻すのではなく単一のUPDATEで加算する。
// 対象が存在しない場合はfalseを返す。
func (r *PostgresTextPostRepo) IncrementViews(ctx context.Context, slug string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE community_text_posts
		 SET views = views + 1
		 WHERE slug = $1 AND published = TRUE`,
		slug,
	)
	if err != nil {
		return false, fmt.Errorf("閲覧数の更新に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("更新行数の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// compile-time interface check
var _ TextPostRepository = (*PostgresTextPostRepo)(nil)
