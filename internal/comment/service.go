package comment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hitoshi/commune/internal/model"
	"github.com/hitoshi/commune/internal/repository"
)

// anonymousAuthorName は表示名を導出できないユーザーのフォールバック。
const anonymousAuthorName = "Anonymous"

// ContentSanitizer はコメント本文のサニタイズインターフェース。
type ContentSanitizer interface {
	Sanitize(rawHTML string) string
}

// Service はコメントの読み取りと投稿を提供する。
type Service struct {
	commentRepo repository.CommentRepository
	textRepo    repository.TextPostRepository
	sanitizer   ContentSanitizer
}

// NewService はServiceを生成する。
func NewService(
	commentRepo repository.CommentRepository,
	textRepo repository.TextPostRepository,
	sanitizer ContentSanitizer,
) *Service {
	return &Service{
		commentRepo: commentRepo,
		textRepo:    textRepo,
		sanitizer:   sanitizer,
	}
}

// GetTree はslugで指定された投稿のコメントを2階層ツリーで返す。
func (s *Service) GetTree(ctx context.Context, slug string) ([]*model.TextPostComment, error) {
	post, err := s.resolvePost(ctx, slug)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return BuildTree(comments), nil
}

// Add はslugで指定された投稿にコメントを追加する。
// parentIDを指定した場合は同一投稿のトップレベルコメントへの返信になる。
// 返信への返信（3階層目）は受け付けない。
func (s *Service) Add(ctx context.Context, slug string, user *model.User, content string, parentID *int64) (*model.TextPostComment, error) {
	if user == nil {
		return nil, model.NewNotLoggedInError()
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.NewEmptyContentError()
	}
	if s.sanitizer != nil {
		content = s.sanitizer.Sanitize(content)
	}

	post, err := s.resolvePost(ctx, slug)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if err := s.validateParent(ctx, post.ID, *parentID); err != nil {
			return nil, err
		}
	}

	newComment := &model.TextPostComment{
		TextPostID: post.ID,
		UserID:     user.ID,
		ParentID:   parentID,
		Content:    content,
		AuthorName: deriveAuthorName(user),
		Replies:    []*model.TextPostComment{},
	}

	if err := s.commentRepo.Create(ctx, newComment); err != nil {
		return nil, err
	}

	slog.Info("comment added",
		slog.Int64("text_post_id", post.ID),
		slog.Int64("comment_id", newComment.ID),
		slog.Bool("is_reply", parentID != nil),
	)

	return newComment, nil
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

// validateParent は返信先コメントの妥当性を検証する。
func (s *Service) validateParent(ctx context.Context, textPostID, parentID int64) error {
	comments, err := s.commentRepo.ListByPost(ctx, textPostID)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if c.ID == parentID {
			if c.ParentID != nil {
				// 返信への返信は2階層制限で拒否
				return model.NewInvalidParentError()
			}
			return nil
		}
	}
	return model.NewInvalidParentError()
}

// deriveAuthorName はコメントの表示名を導出する。
// ユーザー名 → メールのローカル部 → "Anonymous" の順でフォールバックする。
func deriveAuthorName(user *model.User) string {
	if name := strings.TrimSpace(user.Name); name != "" {
		return name
	}
	if at := strings.IndexByte(user.Email, '@'); at > 0 {
		return user.Email[:at]
	}
	return anonymousAuthorName
}
