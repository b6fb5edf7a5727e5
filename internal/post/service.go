package post

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/hitoshi/commune/internal/metrics"
	"github.com/hitoshi/commune/internal/model"
	"github.com/hitoshi/commune/internal/repository"
)

// Service は統合フィードとテキスト投稿の読み取りロジックを提供する。
type Service struct {
	socialRepo repository.SocialPostRepository
	textRepo   repository.TextPostRepository
	sanitizer  TextPostSanitizer
	metrics    metrics.MetricsCollector
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(
	socialRepo repository.SocialPostRepository,
	textRepo repository.TextPostRepository,
	sanitizer TextPostSanitizer,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		socialRepo: socialRepo,
		textRepo:   textRepo,
		sanitizer:  sanitizer,
		metrics:    collector,
	}
}

// ListFeed はソーシャル投稿とテキスト投稿をマージした統合フィードを返す。
// 両ソースを並行に取得し、片方の失敗は空リストに降格してもう片方だけで
// フィードを構成する。部分的な成功がゼロ件より常に優先される。
func (s *Service) ListFeed(ctx context.Context, platform, query string) ([]model.UnifiedPost, error) {
	var (
		wg         sync.WaitGroup
		socialRows []model.SocialPostRow
		textRows   []model.TextPostRow
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rows, err := s.socialRepo.ListAll(ctx)
		if err != nil {
			slog.Warn("social posts unavailable, serving feed without them", "error", err)
			return
		}
		socialRows = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := s.textRepo.ListPublished(ctx)
		if err != nil {
			slog.Warn("text posts unavailable, serving feed without them", "error", err)
			return
		}
		textRows = rows
	}()
	wg.Wait()

	social := NormalizeSocialRows(socialRows)
	text := NormalizeTextRows(textRows, s.sanitizer)

	if s.metrics != nil {
		s.metrics.RecordDroppedRows("social", len(socialRows)-len(social))
		s.metrics.RecordDroppedRows("text", len(textRows)-len(text))
	}

	merged := MergeFeed(social, text)
	if s.metrics != nil {
		s.metrics.RecordFeedMergeSize(len(merged))
	}

	return FilterFeed(merged, platform, query), nil
}

// ListTextPosts は公開済みテキスト投稿を新しい順に返す。
func (s *Service) ListTextPosts(ctx context.Context) ([]model.TextPost, error) {
	rows, err := s.textRepo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	posts := NormalizeTextRows(rows, s.sanitizer)
	if s.metrics != nil {
		s.metrics.RecordDroppedRows("text", len(rows)-len(posts))
	}
	return posts, nil
}

// GetTextPostBySlug はslugでテキスト投稿1件を取得する。
func (s *Service) GetTextPostBySlug(ctx context.Context, slug string) (*model.TextPost, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, model.NewBlankSlugError()
	}

	row, err := s.textRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, model.NewPostNotFoundError(slug)
	}

	post, ok := NormalizeTextRow(*row, s.sanitizer)
	if !ok {
		// 正規化で除外された行は404として扱う
		return nil, model.NewPostNotFoundError(slug)
	}

	return &post, nil
}

// IncrementViews はslugで指定された投稿の閲覧数を1増やす。
func (s *Service) IncrementViews(ctx context.Context, slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return model.NewBlankSlugError()
	}

	found, err := s.textRepo.IncrementViews(ctx, slug)
	if err != nil {
		return err
	}
	if !found {
		return model.NewPostNotFoundError(slug)
	}

	return nil
}
