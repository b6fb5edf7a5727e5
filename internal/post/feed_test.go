package post

import (
	"testing"
	"time"

	"github.com/hitoshi/commune/internal/model"
)

// 公開日時の降順にマージされることを検証
func TestMergeFeed_SortsByPublishedAtDesc(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	social := []model.SocialPost{
		{ID: 1, Platform: model.PlatformLinkedIn, PublishedAt: base.Add(1 * time.Hour), Type: model.PostTypeSocial},
		{ID: 2, Platform: model.PlatformBlog, PublishedAt: base.Add(3 * time.Hour), Type: model.PostTypeSocial},
	}
	text := []model.TextPost{
		{ID: 10, Slug: "a", PublishedAt: base.Add(2 * time.Hour), Type: model.PostTypeText},
	}

	merged := MergeFeed(social, text)

	if len(merged) != 3 {
		t.Fatalf("len(merged) = %d, want 3", len(merged))
	}

	// 期待順: social#2 (+3h), text#10 (+2h), social#1 (+1h)
	if merged[0].Social == nil || merged[0].Social.ID != 2 {
		t.Errorf("merged[0] = %+v, want social post 2", merged[0])
	}
	if merged[1].Text == nil || merged[1].Text.ID != 10 {
		t.Errorf("merged[1] = %+v, want text post 10", merged[1])
	}
	if merged[2].Social == nil || merged[2].Social.ID != 1 {
		t.Errorf("merged[2] = %+v, want social post 1", merged[2])
	}
}

// 同時刻の投稿では連結順（social先）が保たれることを検証
func TestMergeFeed_StableForEqualTimestamps(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	social := []model.SocialPost{
		{ID: 1, PublishedAt: ts, Type: model.PostTypeSocial},
	}
	text := []model.TextPost{
		{ID: 10, Slug: "same-time", PublishedAt: ts, Type: model.PostTypeText},
	}

	merged := MergeFeed(social, text)

	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2", len(merged))
	}
	if merged[0].Type != model.PostTypeSocial {
		t.Errorf("merged[0].Type = %q, want social first for equal timestamps", merged[0].Type)
	}
	if merged[1].Type != model.PostTypeText {
		t.Errorf("merged[1].Type = %q, want text second", merged[1].Type)
	}
}

// 片方が空でもマージできることを検証
func TestMergeFeed_EmptySources(t *testing.T) {
	if got := MergeFeed(nil, nil); len(got) != 0 {
		t.Errorf("MergeFeed(nil, nil) = %d posts, want 0", len(got))
	}

	text := []model.TextPost{{ID: 1, Slug: "only", PublishedAt: time.Now(), Type: model.PostTypeText}}
	merged := MergeFeed(nil, text)
	if len(merged) != 1 || merged[0].Text == nil {
		t.Errorf("MergeFeed(nil, text) = %+v, want single text post", merged)
	}
}
