// Package post は統合フィード（ソーシャル投稿 + テキスト投稿）の
// 正規化、マージ、フィルタリングを提供する。
package post

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/hitoshi/commune/internal/model"
)

// defaultAuthorRole はソーシャル投稿著者の表示ロール。
const defaultAuthorRole = "Community Member"

// NormalizeSocialRows は取り込み済みのソーシャル投稿行を表示用モデルに変換する。
// 条件を満たさない行は警告ログとともに除外し、残りを変換する。
// 1行の不良がフィード全体を壊さないことが不変条件。
func NormalizeSocialRows(rows []model.SocialPostRow) []model.SocialPost {
	result := make([]model.SocialPost, 0, len(rows))
	for _, row := range rows {
		post, ok := normalizeSocialRow(row)
		if !ok {
			continue
		}
		result = append(result, post)
	}
	return result
}

// normalizeSocialRow は1行を検証して表示用モデルに変換する。
// ゲート条件: linkが"http"で始まる、author_nameが空でない、
// post_typeがプラットフォーム列挙に含まれる。
func normalizeSocialRow(row model.SocialPostRow) (model.SocialPost, bool) {
	if !strings.HasPrefix(row.Link, "http") {
		slog.Warn("dropping social post with invalid link", "id", row.ID, "link", row.Link)
		return model.SocialPost{}, false
	}
	if strings.TrimSpace(row.AuthorName) == "" {
		slog.Warn("dropping social post with empty author", "id", row.ID)
		return model.SocialPost{}, false
	}
	if !model.IsValidPlatform(row.PostType) {
		slog.Warn("dropping social post with unknown platform", "id", row.ID, "post_type", row.PostType)
		return model.SocialPost{}, false
	}

	return model.SocialPost{
		ID:       row.ID,
		Platform: model.Platform(row.PostType),
		Author: model.Author{
			Name:   row.AuthorName,
			Avatar: synthesizeAvatarURL(row.AuthorName),
			Role:   defaultAuthorRole,
			Email:  row.AuthorEmail,
		},
		PublishedAt: row.CreatedAt,
		ExternalURL: row.Link,
		Type:        model.PostTypeSocial,
	}, true
}

// synthesizeAvatarURL は著者名からアバター画像URLを合成する。
// アバター画像は保存せず、ui-avatarsのオンデマンド生成に任せる。
func synthesizeAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=0f0f0f&color=fff"
}

// TextPostSanitizer はテキスト投稿本文のサニタイズインターフェース。
// security.ContentSanitizerServiceを抽象化してテスタビリティを向上させる。
type TextPostSanitizer interface {
	Sanitize(rawHTML string) string
}

// NormalizeTextRows は公開済みテキスト投稿行を表示用モデルに変換する。
// slugを欠く行は公開アイデンティティが無いため警告ログとともに除外する。
func NormalizeTextRows(rows []model.TextPostRow, sanitizer TextPostSanitizer) []model.TextPost {
	result := make([]model.TextPost, 0, len(rows))
	for _, row := range rows {
		post, ok := NormalizeTextRow(row, sanitizer)
		if !ok {
			continue
		}
		result = append(result, post)
	}
	return result
}

// NormalizeTextRow は1行を検証して表示用モデルに変換する。
func NormalizeTextRow(row model.TextPostRow, sanitizer TextPostSanitizer) (model.TextPost, bool) {
	if row.Slug == nil || strings.TrimSpace(*row.Slug) == "" {
		slog.Warn("dropping text post without slug", "id", row.ID, "title", row.Title)
		return model.TextPost{}, false
	}

	content := row.Content
	if sanitizer != nil {
		content = sanitizer.Sanitize(content)
	}

	post := model.TextPost{
		ID:          row.ID,
		Title:       row.Title,
		Content:     content,
		Published:   row.Published,
		Views:       row.Views,
		PublishedAt: row.CreatedAt,
		Slug:        *row.Slug,
		Type:        model.PostTypeText,
	}
	if row.Excerpt != nil {
		post.Excerpt = *row.Excerpt
	}
	if row.ImageURL != nil {
		post.ImageURL = *row.ImageURL
	}
	if row.ImagePath != nil {
		post.ImagePath = *row.ImagePath
	}

	return post, true
}
