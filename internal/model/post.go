// Package model はドメインモデルを定義する。
package model

import "time"

// Platform はソーシャル投稿の掲載元プラットフォームを表す。
type Platform string

const (
	// PlatformLinkedIn はLinkedIn投稿。
	PlatformLinkedIn Platform = "linkedin"
	// PlatformInstagram はInstagram投稿。
	PlatformInstagram Platform = "instagram"
	// PlatformTwitter はTwitter投稿。
	PlatformTwitter Platform = "twitter"
	// PlatformX はX（旧Twitter）投稿。フィルタ上はtwitterの別名として扱われる。
	PlatformX Platform = "x"
	// PlatformBlog は外部ブログ投稿。
	PlatformBlog Platform = "blog"
)

// validPlatforms はcommunity_postsテーブルのpost_type制約と一致する閉じた列挙。
var validPlatforms = map[Platform]bool{
	PlatformLinkedIn:  true,
	PlatformInstagram: true,
	PlatformTwitter:   true,
	PlatformX:         true,
	PlatformBlog:      true,
}

// IsValidPlatform は値がプラットフォーム列挙に含まれるかを判定する。
func IsValidPlatform(v string) bool {
	return validPlatforms[Platform(v)]
}

// 投稿判別子。UnifiedPostのTypeフィールドに設定される。
const (
	// PostTypeSocial は外部プラットフォーム由来の投稿を示す。
	PostTypeSocial = "social"
	// PostTypeText はローカル執筆の長文投稿を示す。
	PostTypeText = "text"
)

// Author はソーシャル投稿の著者表示情報を表す。
// Emailは保持されるがAPIレスポンスには含めない。
type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
	Email  string `json:"-"`
}

// SocialPost は外部プラットフォームで発見された投稿への参照を表す。
// ContentとImageは保存されず、投稿URLのリンクプレビューで都度解決される。
// このシステムからは読み取り専用で、変更も削除も行わない。
type SocialPost struct {
	ID          int64     `json:"id"`
	Platform    Platform  `json:"platform"`
	Author      Author    `json:"author"`
	Content     string    `json:"content,omitempty"`
	Image       string    `json:"image,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	ExternalURL string    `json:"externalUrl"`
	Type        string    `json:"type"` // 常に "social"
}

// SocialPostRow はcommunity_postsテーブルの生の行を表す。
// 正規化（検証 + SocialPostへの変換）前の形。
type SocialPostRow struct {
	ID          int64
	PostType    string
	Link        string
	AuthorName  string
	AuthorEmail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TextPost はローカル執筆の長文投稿を表す。
// Slugが公開アイデンティティであり、Slugを欠く行は全ての一覧から除外される。
type TextPost struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"` // サニタイズ済みHTML
	ImageURL    string    `json:"imageUrl,omitempty"`
	ImagePath   string    `json:"imagePath,omitempty"`
	Published   bool      `json:"published"`
	Views       int       `json:"views"`
	PublishedAt time.Time `json:"publishedAt"`
	Slug        string    `json:"slug"`
	Type        string    `json:"type,omitempty"` // フィード内では "text"
}

// TextPostRow はcommunity_text_postsテーブルの生の行を表す。
// ExcerptやSlug等のNULL許容カラムはポインタで受ける。
type TextPostRow struct {
	ID        int64
	Title     string
	Excerpt   *string
	Content   string // 未サニタイズのHTML
	ImageURL  *string
	ImagePath *string
	Published bool
	Views     int
	Slug      *string
	CreatedAt time.Time
}

// UnifiedPost はソーシャル投稿とテキスト投稿のタグ付き合併を表す。
// Typeフィールドで判別し、対応する側のポインタのみが非nilになる。
// マージステップの間だけ存在し、永続化されない。
type UnifiedPost struct {
	Type   string
	Social *SocialPost
	Text   *TextPost
}

// PublishedAt は判別タグに応じた投稿日時を返す。
func (p UnifiedPost) PublishedAt() time.Time {
	if p.Type == PostTypeSocial && p.Social != nil {
		return p.Social.PublishedAt
	}
	if p.Text != nil {
		return p.Text.PublishedAt
	}
	return time.Time{}
}
