package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/commune/internal/model"
)

// TextPostServiceInterface はテキスト投稿ハンドラーが必要とするサービスインターフェース。
type TextPostServiceInterface interface {
	// ListTextPosts は公開済みテキスト投稿の一覧を新しい順で返す。
	ListTextPosts(ctx context.Context) ([]model.TextPost, error)
	// GetTextPostBySlug はスラッグで公開済みテキスト投稿を1件取得する。
	GetTextPostBySlug(ctx context.Context, slug string) (*model.TextPost, error)
	// IncrementViews は閲覧数を1加算する。
	IncrementViews(ctx context.Context, slug string) error
}

// CountsServiceInterface は一覧カード向けカウント取得のインターフェース。
type CountsServiceInterface interface {
	// GetCounts はいいね数とコメント数を返す。
	GetCounts(ctx context.Context, slug string) (*model.PostCounts, error)
}

// TextPostHandler はテキスト投稿のHTTPハンドラー。
type TextPostHandler struct {
	service TextPostServiceInterface
	counts  CountsServiceInterface
}

// NewTextPostHandler はTextPostHandlerを生成する。
func NewTextPostHandler(service TextPostServiceInterface, counts CountsServiceInterface) *TextPostHandler {
	return &TextPostHandler{
		service: service,
		counts:  counts,
	}
}

// List は公開済みテキスト投稿の一覧を返す。
// GET /text-posts
func (h *TextPostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListTextPosts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}

// Get はスラッグ指定でテキスト投稿を1件返す。
// GET /text-posts/{slug}
func (h *TextPostHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.service.GetTextPostBySlug(r.Context(), slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// IncrementViews は閲覧数を加算する。
// POST /text-posts/{slug}/views
func (h *TextPostHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.service.IncrementViews(r.Context(), slug); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// GetCounts はいいね数とコメント数を返す。
// GET /text-posts/{slug}/counts
func (h *TextPostHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	counts, err := h.counts.GetCounts(r.Context(), slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(counts)
}
