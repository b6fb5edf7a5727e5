// Package engagement はテキスト投稿へのいいねと集計を提供する。
package engagement

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/commune/internal/model"
	"github.com/hitoshi/commune/internal/repository"
)

// Service はいいねのトグルと件数集計を提供する。
type Service struct {
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	textRepo    repository.TextPostRepository
}

// NewService はServiceを生成する。
func NewService(
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	textRepo repository.TextPostRepository,
) *Service {
	return &Service{
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		textRepo:    textRepo,
	}
}

// ToggleLike はユーザーのいいね状態を反転し、反転後の状態と件数を返す。
// 既にいいね済みなら解除、未いいねなら付与する。
// check-then-actの競合で二重トグルが起きた場合はDBの一意制約が最終防衛線になる。
func (s *Service) ToggleLike(ctx context.Context, slug string, user *model.User) (*model.LikesResult, error) {
	if user == nil {
		return nil, model.NewNotLoggedInError()
	}

	post, err := s.resolvePost(ctx, slug)
	if err != nil {
		return nil, err
	}

	existing, err := s.likeRepo.FindByUserAndPost(ctx, user.ID, post.ID)
	if err != nil {
		return nil, err
	}

	liked := false
	if existing != nil {
		if err := s.likeRepo.Delete(ctx, user.ID, post.ID); err != nil {
			return nil, err
		}
	} else {
		like := &model.Like{
			ID:         uuid.New().String(),
			TextPostID: post.ID,
			UserID:     user.ID,
			CreatedAt:  time.Now(),
		}
		if err := s.likeRepo.Create(ctx, like); err != nil {
			return nil, err
		}
		liked = true
	}

	count, err := s.likeRepo.CountByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("like toggled",
		slog.Int64("text_post_id", post.ID),
		slog.Bool("liked", liked),
		slog.Int("count", count),
	)

	return &model.LikesResult{Count: count, Liked: liked}, nil
}

// GetLikes はいいね件数と、指定ユーザーのいいね状態を返す。
// userはnil可（未ログイン時はLiked=false）。
func (s *Service) GetLikes(ctx context.Context, slug string, user *model.User) (*model.LikesResult, error) {
	post, err := s.resolvePost(ctx, slug)
	if err != nil {
		return nil, err
	}

	count, err := s.likeRepo.CountByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	liked := false
	if user != nil {
		existing, err := s.likeRepo.FindByUserAndPost(ctx, user.ID, post.ID)
		if err != nil {
			return nil, err
		}
		liked = existing != nil
	}

	return &model.LikesResult{Count: count, Liked: liked}, nil
}

// GetCounts は一覧カード向けにいいね数とコメント数をまとめて返す。
// 2つの集計クエリは並行に実行する。
func (s *Service) GetCounts(ctx context.Context, slug string) (*model.PostCounts, error) {
	post, err := s.resolvePost(ctx, slug)
	if err != nil {
		return nil, err
	}

	var (
		wg           sync.WaitGroup
		likeCount    int
		commentCount int
		likeErr      error
		commentErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		likeCount, likeErr = s.likeRepo.CountByPost(ctx, post.ID)
	}()
	go func() {
		defer wg.Done()
		commentCount, commentErr = s.commentRepo.CountByPost(ctx, post.ID)
	}()
	wg.Wait()

	if likeErr != nil {
		return nil, likeErr
	}
	if commentErr != nil {
		return nil, commentErr
	}

	return &model.PostCounts{LikeCount: likeCount, CommentCount: commentCount}, nil
}

// resolvePost はslugから投稿行を取得する。
func (s *Service) resolvePost(ctx context.Context, slug string) (*model.TextPostRow, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, model.NewBlankSlugError()
	}

	post, err := s.textRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(slug)
	}
	return post, nil
}
