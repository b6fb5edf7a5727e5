package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/commune/internal/middleware"
	"github.com/hitoshi/commune/internal/model"
)

// LikeServiceInterface はいいね操作のインターフェース。
type LikeServiceInterface interface {
	// ToggleLike はいいねの付与・取り消しをトグルする。
	ToggleLike(ctx context.Context, slug string, user *model.User) (*model.LikesResult, error)
	// GetLikes はいいね数と現在ユーザーのいいね状態を返す。
	GetLikes(ctx context.Context, slug string, user *model.User) (*model.LikesResult, error)
}

// CommentServiceInterface はコメント操作のインターフェース。
type CommentServiceInterface interface {
	// GetTree は2階層のコメントツリーを返す。
	GetTree(ctx context.Context, slug string) ([]*model.TextPostComment, error)
	// Add はコメントまたは返信を追加する。
	Add(ctx context.Context, slug string, user *model.User, content string, parentID *int64) (*model.TextPostComment, error)
}

// EngagementHandler はいいね・コメントのHTTPハンドラー。
type EngagementHandler struct {
	likes    LikeServiceInterface
	comments CommentServiceInterface
}

// NewEngagementHandler はEngagementHandlerを生成する。
func NewEngagementHandler(likes LikeServiceInterface, comments CommentServiceInterface) *EngagementHandler {
	return &EngagementHandler{
		likes:    likes,
		comments: comments,
	}
}

// addCommentRequest はコメント追加リクエストのボディ。
type addCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parentId"`
}

// GetLikes はいいね数と現在ユーザーのいいね状態を返す。
// 匿名アクセスも許可され、その場合likedは常にfalse。
// GET /text-posts/{slug}/likes
func (h *EngagementHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	user := middleware.UserFromContext(r.Context())

	result, err := h.likes.GetLikes(r.Context(), slug, user)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// ToggleLike はいいねをトグルする。要ログイン。
// POST /text-posts/{slug}/likes
func (h *EngagementHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	user := middleware.UserFromContext(r.Context())

	result, err := h.likes.ToggleLike(r.Context(), slug, user)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":    true,
		"liked": result.Liked,
		"count": result.Count,
	})
}

// GetComments は2階層のコメントツリーを返す。
// GET /text-posts/{slug}/comments
func (h *EngagementHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	tree, err := h.comments.GetTree(r.Context(), slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tree)
}

// AddComment はコメントまたは返信を追加する。要ログイン。
// POST /text-posts/{slug}/comments
func (h *EngagementHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	user := middleware.UserFromContext(r.Context())

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.comments.Add(r.Context(), slug, user, req.Content, req.ParentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":      true,
		"comment": comment,
	})
}
