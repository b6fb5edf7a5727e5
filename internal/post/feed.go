package post

import (
	"sort"

	"github.com/hitoshi/commune/internal/model"
)

// MergeFeed はソーシャル投稿とテキスト投稿を1本のフィードにマージする。
// social→textの順で連結したうえで公開日時の降順に安定ソートする。
// 安定ソートのため、同時刻の投稿は連結順（social先勝ち）を保つ。
func MergeFeed(social []model.SocialPost, text []model.TextPost) []model.UnifiedPost {
	merged := make([]model.UnifiedPost, 0, len(social)+len(text))

	for i := range social {
		merged = append(merged, model.UnifiedPost{
			Type:   model.PostTypeSocial,
			Social: &social[i],
		})
	}
	for i := range text {
		merged = append(merged, model.UnifiedPost{
			Type: model.PostTypeText,
			Text: &text[i],
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt().After(merged[j].PublishedAt())
	})

	return merged
}
