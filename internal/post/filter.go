package post

import (
	"strings"

	"github.com/hitoshi/commune/internal/model"
)

// FilterFeed はプラットフォームフィルタと検索クエリをAND条件で適用する。
// 入力順を保ったまま条件を満たす投稿だけを返す。
//
// platform: "all"（または空）は全件、"blog"はテキスト投稿のみ、
// それ以外はプラットフォームが一致するソーシャル投稿のみ。
// "twitter"と"x"は同一プラットフォームの別名として相互にマッチする。
//
// query: 小文字化した部分文字列マッチ。ソーシャル投稿は本文と著者名、
// テキスト投稿はタイトル・抜粋・本文を対象にする。空クエリは全件マッチ。
func FilterFeed(posts []model.UnifiedPost, platform, query string) []model.UnifiedPost {
	platform = strings.ToLower(strings.TrimSpace(platform))
	query = strings.ToLower(strings.TrimSpace(query))

	result := make([]model.UnifiedPost, 0, len(posts))
	for _, p := range posts {
		if !matchesPlatform(p, platform) {
			continue
		}
		if !matchesQuery(p, query) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// matchesPlatform はプラットフォームフィルタの判定を行う。
func matchesPlatform(p model.UnifiedPost, platform string) bool {
	if platform == "" || platform == "all" {
		return true
	}
	if platform == "blog" {
		return p.Type == model.PostTypeText
	}
	if p.Type != model.PostTypeSocial || p.Social == nil {
		return false
	}

	postPlatform := strings.ToLower(string(p.Social.Platform))
	if postPlatform == platform {
		return true
	}
	// 旧名称twitterでの絞り込みは新名称xの投稿にもマッチする。
	// 逆方向は適用しない: xでの絞り込みはx投稿のみ。
	if platform == "twitter" && postPlatform == "x" {
		return true
	}
	return false
}

// matchesQuery は検索クエリの判定を行う。
func matchesQuery(p model.UnifiedPost, query string) bool {
	if query == "" {
		return true
	}

	switch p.Type {
	case model.PostTypeSocial:
		if p.Social == nil {
			return false
		}
		return strings.Contains(strings.ToLower(p.Social.Content), query) ||
			strings.Contains(strings.ToLower(p.Social.Author.Name), query)
	case model.PostTypeText:
		if p.Text == nil {
			return false
		}
		return strings.Contains(strings.ToLower(p.Text.Title), query) ||
			strings.Contains(strings.ToLower(p.Text.Excerpt), query) ||
			strings.Contains(strings.ToLower(p.Text.Content), query)
	}
	return false
}
