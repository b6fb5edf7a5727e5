// Package model はドメインモデルを定義する。
package model

import "time"

// TextPostComment はテキスト投稿へのコメントを表す。
// ParentIDがnilの場合はトップレベルコメント、非nilの場合は
// トップレベルコメントへの返信を表す（ネストは2階層まで）。
// Repliesは永続化されず、読み取り時にツリー再構築で埋められる。
type TextPostComment struct {
	ID         int64              `json:"id"`
	TextPostID int64              `json:"textPostId"`
	UserID     string             `json:"userId"`
	ParentID   *int64             `json:"parentId"`
	Content    string             `json:"content"`
	AuthorName string             `json:"authorName"`
	CreatedAt  time.Time          `json:"createdAt"`
	Replies    []*TextPostComment `json:"replies"`
}

// Like は（ユーザー, テキスト投稿）のいいね関係を表す。
// 行の存在そのものが「いいね済み」を意味し、カウントは行数の集計で導出する。
type Like struct {
	ID         string
	TextPostID int64
	UserID     string
	CreatedAt  time.Time
}

// LikesResult はいいね数と現在ユーザーのいいね状態をまとめた結果。
type LikesResult struct {
	Count int  `json:"count"`
	Liked bool `json:"liked"`
}

// PostCounts は一覧カード向けのいいね数とコメント数。
type PostCounts struct {
	LikeCount    int `json:"likeCount"`
	CommentCount int `json:"commentCount"`
}
