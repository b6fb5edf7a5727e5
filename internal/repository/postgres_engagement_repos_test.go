package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/commune/internal/model"
)

// PostgresLikeRepoはLikeRepositoryインターフェースを満たすことを検証
func TestPostgresLikeRepo_ImplementsInterface(t *testing.T) {
	var _ LikeRepository = (*PostgresLikeRepo)(nil)
}

// PostgresCommentRepoはCommentRepositoryインターフェースを満たすことを検証
func TestPostgresCommentRepo_ImplementsInterface(t *testing.T) {
	var _ CommentRepository = (*PostgresCommentRepo)(nil)
}

// PostgresJoinRepoはJoinRepositoryインターフェースを満たすことを検証
func TestPostgresJoinRepo_ImplementsInterface(t *testing.T) {
	var _ JoinRepository = (*PostgresJoinRepo)(nil)
}

// NewPostgresLikeRepoが正しく初期化されることを検証
func TestNewPostgresLikeRepo_Initializes(t *testing.T) {
	repo := NewPostgresLikeRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresCommentRepoが正しく初期化されることを検証
func TestNewPostgresCommentRepo_Initializes(t *testing.T) {
	repo := NewPostgresCommentRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresJoinRepoが正しく初期化されることを検証
func TestNewPostgresJoinRepo_Initializes(t *testing.T) {
	repo := NewPostgresJoinRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// ErrDuplicateEmailがerrors.Isで判定できることを検証
func TestErrDuplicateEmail_Sentinel(t *testing.T) {
	if !errors.Is(ErrDuplicateEmail, ErrDuplicateEmail) {
		t.Error("errors.Is(ErrDuplicateEmail, ErrDuplicateEmail) = false, want true")
	}
	if errors.Is(errors.New("other"), ErrDuplicateEmail) {
		t.Error("unrelated error should not match ErrDuplicateEmail")
	}
}

// コメントモデルのparent_idがnil許容であることを検証
func TestPostgresCommentRepo_CommentModel_ParentID(t *testing.T) {
	top := &model.TextPostComment{
		ID:         1,
		TextPostID: 10,
		UserID:     "user-id-1",
		Content:    "トップレベルコメント",
		AuthorName: "Anonymous",
		CreatedAt:  time.Now(),
	}
	if top.ParentID != nil {
		t.Error("parent_id should be nil for top-level comments")
	}

	parentID := top.ID
	reply := &model.TextPostComment{
		ID:         2,
		TextPostID: 10,
		ParentID:   &parentID,
		Content:    "返信",
	}
	if reply.ParentID == nil || *reply.ParentID != 1 {
		t.Error("parent_id should reference the top-level comment")
	}
}

// Likeモデルのフィールドが正しく構築されることを検証
func TestPostgresLikeRepo_LikeModel_Fields(t *testing.T) {
	now := time.Now()
	like := &model.Like{
		ID:         "like-id-1",
		TextPostID: 10,
		UserID:     "user-id-1",
		CreatedAt:  now,
	}

	if like.TextPostID != 10 {
		t.Errorf("like.TextPostID = %d, want %d", like.TextPostID, 10)
	}
	if like.UserID != "user-id-1" {
		t.Errorf("like.UserID = %q, want %q", like.UserID, "user-id-1")
	}
}
