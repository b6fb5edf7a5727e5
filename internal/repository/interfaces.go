// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/commune/internal/model"
)

// ErrDuplicateEmail はcommunity_joinのemail一意制約違反を表す。
// lib/pqのunique_violation（23505）をリポジトリ層でこのエラーに変換する。
var ErrDuplicateEmail = errors.New("email already registered")

// SocialPostRepository はソーシャル投稿（外部取り込み行）の読み取りインターフェース。
// このシステムからは読み取り専用で、作成・更新・削除は行わない。
type SocialPostRepository interface {
	// ListAll は全ソーシャル投稿行をcreated_at降順で返す。
	ListAll(ctx context.Context) ([]model.SocialPostRow, error)
}

// TextPostRepository はテキスト投稿の永続化インターフェース。
type TextPostRepository interface {
	// ListPublished はpublished=trueの行をcreated_at降順で返す。
	// slug欠落行の除外はリポジトリではなく正規化層で行う。
	ListPublished(ctx context.Context) ([]model.TextPostRow, error)

	// FindBySlug はslugでpublished=trueの行を取得する。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string) (*model.TextPostRow, error)

	// IncrementViews はslugで指定された投稿の閲覧数を1増やす。
	// 単一のUPDATE文で行い、読み取り+書き込みの2段階は踏まない。
	// 対象が存在しない場合はfalseを返す。
	IncrementViews(ctx context.Context, slug string) (bool, error)
}

// JoinRepository はニュースレター登録メールの永続化インターフェース。
type JoinRepository interface {
	// Create はメールアドレスを登録する。
	// email一意制約違反の場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, email string) error
}

// LikeRepository はいいねデータの永続化インターフェース。
type LikeRepository interface {
	// FindByUserAndPost は（ユーザー, 投稿）のいいねを取得する。見つからない場合はnilを返す。
	FindByUserAndPost(ctx context.Context, userID string, textPostID int64) (*model.Like, error)

	// Create はいいねを作成する。
	Create(ctx context.Context, like *model.Like) error

	// Delete は（ユーザー, 投稿）のいいねを削除する。
	Delete(ctx context.Context, userID string, textPostID int64) error

	// CountByPost は投稿のいいね数を返す。カウントは行数の集計で導出する。
	CountByPost(ctx context.Context, textPostID int64) (int, error)
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// ListByPost は投稿の全コメントをcreated_at昇順のフラットなリストで返す。
	// ツリー再構築は呼び出し側（comment.TreeBuilder）で行う。
	ListByPost(ctx context.Context, textPostID int64) ([]*model.TextPostComment, error)

	// Create はコメントを作成し、採番されたIDをセットして返す。
	Create(ctx context.Context, comment *model.TextPostComment) error

	// CountByPost は投稿のコメント数を返す。
	CountByPost(ctx context.Context, textPostID int64) (int, error)
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}
