package comment

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/commune/internal/model"
	"github.com/hitoshi/commune/internal/repository"
)

// --- モック定義 ---

type mockCommentRepo struct {
	listByPostFn  func(ctx context.Context, textPostID int64) ([]*model.TextPostComment, error)
	createFn      func(ctx context.Context, comment *model.TextPostComment) error
	countByPostFn func(ctx context.Context, textPostID int64) (int, error)
}

func (m *mockCommentRepo) ListByPost(ctx context.Context, textPostID int64) ([]*model.TextPostComment, error) {
	if m.listByPostFn != nil {
		return m.listByPostFn(ctx, textPostID)
	}
	return nil, nil
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *model.TextPostComment) error {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	return nil
}

func (m *mockCommentRepo) CountByPost(ctx context.Context, textPostID int64) (int, error) {
	if m.countByPostFn != nil {
		return m.countByPostFn(ctx, textPostID)
	}
	return 0, nil
}

type mockTextPostRepo struct {
	findBySlugFn func(ctx context.Context, slug string) (*model.TextPostRow, error)
}

func (m *mockTextPostRepo) ListPublished(ctx context.Context) ([]model.TextPostRow, error) {
	return nil, nil
}

func (m *mockTextPostRepo) FindBySlug(ctx context.Context, slug string) (*model.TextPostRow, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, nil
}

func (m *mockTextPostRepo) IncrementViews(ctx context.Context, slug string) (bool, error) {
	return false, nil
}

// --- compile-time interface checks ---
var _ repository.CommentRepository = (*mockCommentRepo)(nil)
var _ repository.TextPostRepository = (*mockTextPostRepo)(nil)

func existingPostRepo() *mockTextPostRepo {
	slug := "my-post"
	return &mockTextPostRepo{
		findBySlugFn: func(ctx context.Context, s string) (*model.TextPostRow, error) {
			if s == "my-post" {
				return &model.TextPostRow{ID: 10, Title: "t", Content: "c", Published: true, Slug: &slug}, nil
			}
			return nil, nil
		},
	}
}

func testUser() *model.User {
	return &model.User{ID: "user-id-1", Email: "jane@example.com", Name: "Jane"}
}

// --- テスト ---

// コメントツリーが取得できることを検証
func TestGetTree_ReturnsTree(t *testing.T) {
	parentID := int64(1)
	commentRepo := &mockCommentRepo{
		listByPostFn: func(ctx context.Context, textPostID int64) ([]*model.TextPostComment, error) {
			return []*model.TextPostComment{
				{ID: 1, TextPostID: textPostID, Content: "top"},
				{ID: 2, TextPostID: textPostID, ParentID: &parentID, Content: "reply"},
			}, nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), nil)

	tree, err := svc.GetTree(context.Background(), "my-post")
	if err != nil {
		t.Fatalf("GetTree() error = %v", err)
	}

	if len(tree) != 1 {
		t.Fatalf("len(tree) = %d, want 1", len(tree))
	}
	if len(tree[0].Replies) != 1 {
		t.Errorf("len(Replies) = %d, want 1", len(tree[0].Replies))
	}
}

// 未存在の投稿へのツリー取得は404になることを検証
func TestGetTree_PostNotFound(t *testing.T) {
	svc := NewService(&mockCommentRepo{}, existingPostRepo(), nil)

	_, err := svc.GetTree(context.Background(), "missing")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePostNotFound {
		t.Errorf("error = %v, want POST_NOT_FOUND", err)
	}
}

// コメントが投稿できることを検証
func TestAdd_CreatesComment(t *testing.T) {
	var created *model.TextPostComment
	commentRepo := &mockCommentRepo{
		createFn: func(ctx context.Context, comment *model.TextPostComment) error {
			comment.ID = 100
			created = comment
			return nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), nil)

	c, err := svc.Add(context.Background(), "my-post", testUser(), "  Nice post!  ", nil)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if created == nil {
		t.Fatal("expected comment to be created")
	}
	if c.Content != "Nice post!" {
		t.Errorf("Content = %q, want trimmed %q", c.Content, "Nice post!")
	}
	if c.TextPostID != 10 {
		t.Errorf("TextPostID = %d, want 10", c.TextPostID)
	}
	if c.UserID != "user-id-1" {
		t.Errorf("UserID = %q, want %q", c.UserID, "user-id-1")
	}
	if c.AuthorName != "Jane" {
		t.Errorf("AuthorName = %q, want %q", c.AuthorName, "Jane")
	}
}

// 未ログインではコメントできないことを検証
func TestAdd_NotLoggedIn(t *testing.T) {
	svc := NewService(&mockCommentRepo{}, existingPostRepo(), nil)

	_, err := svc.Add(context.Background(), "my-post", nil, "content", nil)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeNotLoggedIn {
		t.Errorf("error = %v, want NOT_LOGGED_IN", err)
	}
}

// 空白のみの本文は拒否されることを検証
func TestAdd_EmptyContent(t *testing.T) {
	svc := NewService(&mockCommentRepo{}, existingPostRepo(), nil)

	_, err := svc.Add(context.Background(), "my-post", testUser(), "   ", nil)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmptyContent {
		t.Errorf("error = %v, want EMPTY_CONTENT", err)
	}
}

// トップレベルコメントへの返信が作成できることを検証
func TestAdd_ReplyToTopLevel(t *testing.T) {
	parentID := int64(1)
	commentRepo := &mockCommentRepo{
		listByPostFn: func(ctx context.Context, textPostID int64) ([]*model.TextPostComment, error) {
			return []*model.TextPostComment{{ID: 1, TextPostID: textPostID, Content: "top"}}, nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), nil)

	c, err := svc.Add(context.Background(), "my-post", testUser(), "reply", &parentID)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if c.ParentID == nil || *c.ParentID != 1 {
		t.Errorf("ParentID = %v, want 1", c.ParentID)
	}
}

// 返信への返信（3階層目）は拒否されることを検証
func TestAdd_RejectsReplyToReply(t *testing.T) {
	topID := int64(1)
	replyID := int64(2)
	commentRepo := &mockCommentRepo{
		listByPostFn: func(ctx context.Context, textPostID int64) ([]*model.TextPostComment, error) {
			return []*model.TextPostComment{
				{ID: 1, TextPostID: textPostID, Content: "top"},
				{ID: 2, TextPostID: textPostID, ParentID: &topID, Content: "reply"},
			}, nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), nil)

	_, err := svc.Add(context.Background(), "my-post", testUser(), "deep reply", &replyID)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidParent {
		t.Errorf("error = %v, want INVALID_PARENT", err)
	}
}

// 存在しない親への返信は拒否されることを検証
func TestAdd_RejectsUnknownParent(t *testing.T) {
	missingID := int64(999)
	svc := NewService(&mockCommentRepo{}, existingPostRepo(), nil)

	_, err := svc.Add(context.Background(), "my-post", testUser(), "reply", &missingID)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidParent {
		t.Errorf("error = %v, want INVALID_PARENT", err)
	}
}

// 表示名の導出規則を検証
func TestDeriveAuthorName(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want string
	}{
		{"ユーザー名あり", &model.User{Name: "Jane", Email: "jane@example.com"}, "Jane"},
		{"名前なしはメールのローカル部", &model.User{Email: "jane.doe@example.com"}, "jane.doe"},
		{"名前もメールも無ければAnonymous", &model.User{}, "Anonymous"},
		{"空白のみの名前はフォールバック", &model.User{Name: "  ", Email: "ken@example.com"}, "ken"},
		{"ローカル部が空ならAnonymous", &model.User{Email: "@example.com"}, "Anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveAuthorName(tt.user); got != tt.want {
				t.Errorf("deriveAuthorName() = %q, want %q", got, tt.want)
			}
		})
	}
}
