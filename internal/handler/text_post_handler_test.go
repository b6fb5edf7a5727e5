package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/commune/internal/model"
)

// --- モック定義 ---

type mockTextPostService struct {
	listFn           func(ctx context.Context) ([]model.TextPost, error)
	getBySlugFn      func(ctx context.Context, slug string) (*model.TextPost, error)
	incrementViewsFn func(ctx context.Context, slug string) error
}

func (m *mockTextPostService) ListTextPosts(ctx context.Context) ([]model.TextPost, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockTextPostService) GetTextPostBySlug(ctx context.Context, slug string) (*model.TextPost, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, nil
}

func (m *mockTextPostService) IncrementViews(ctx context.Context, slug string) error {
	if m.incrementViewsFn != nil {
		return m.incrementViewsFn(ctx, slug)
	}
	return nil
}

type mockCountsService struct {
	getCountsFn func(ctx context.Context, slug string) (*model.PostCounts, error)
}

func (m *mockCountsService) GetCounts(ctx context.Context, slug string) (*model.PostCounts, error) {
	if m.getCountsFn != nil {
		return m.getCountsFn(ctx, slug)
	}
	return &model.PostCounts{}, nil
}

// newTextPostRouter はスラッグ付きルートのテスト用ルーターを構成する。
func newTextPostRouter(h *TextPostHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/text-posts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Post("/views", h.IncrementViews)
			r.Get("/counts", h.GetCounts)
		})
	})
	return r
}

// --- テスト ---

func TestTextPostHandler_List_ReturnsPosts(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	h := NewTextPostHandler(&mockTextPostService{
		listFn: func(ctx context.Context) ([]model.TextPost, error) {
			return []model.TextPost{
				{ID: 1, Title: "First", Slug: "first", Published: true, PublishedAt: now},
				{ID: 2, Title: "Second", Slug: "second", Published: true, PublishedAt: now.Add(-time.Hour)},
			}, nil
		},
	}, &mockCountsService{})

	req := httptest.NewRequest(http.MethodGet, "/text-posts/", nil)
	w := httptest.NewRecorder()

	newTextPostRouter(h).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var posts []model.TextPost
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("posts count = %d, want 2", len(posts))
	}
	if posts[0].Slug != "first" {
		t.Errorf("posts[0].Slug = %q, want %q", posts[0].Slug, "first")
	}
}

func TestTextPostHandler_Get_ReturnsPost(t *testing.T) {
	var capturedSlug string
	h := NewTextPostHandler(&mockTextPostService{
		getBySlugFn: func(ctx context.Context, slug string) (*model.TextPost, error) {
			capturedSlug = slug
			return &model.TextPost{ID: 1, Title: "Hello", Slug: slug}, nil
		},
	}, &mockCountsService{})

	req := httptest.NewRequest(http.MethodGet, "/text-posts/hello-world", nil)
	w := httptest.NewRecorder()

	newTextPostRouter(h).ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if capturedSlug != "hello-world" {
		t.Errorf("slug = %q, want %q", capturedSlug, "hello-world")
	}
}

func TestTextPostHandler_Get_NotFound_Returns404(t *testing.T) {
	h := NewTextPostHandler(&mockTextPostService{
		getBySlugFn: func(ctx context.Context, slug string) (*model.TextPost, error) {
			return nil, model.NewPostNotFoundError(slug)
		},
	}, &mockCountsService{})

	req := httptest.NewRequest(http.MethodGet, "/text-posts/missing", nil)
	w := httptest.NewRecorder()

	newTextPostRouter(h).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	var result errorResponse
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Error != "Post not found: missing" {
		t.Errorf("error = %q, want %q", result.Error, "Post not found: missing")
	}
}

func TestTextPostHandler_IncrementViews_ReturnsSuccess(t *testing.T) {
	var capturedSlug string
	h := NewTextPostHandler(&mockTextPostService{
		incrementViewsFn: func(ctx context.Context, slug string) error {
			capturedSlug = slug
			return nil
		},
	}, &mockCountsService{})

	req := httptest.NewRequest(http.MethodPost, "/text-posts/hello/views", nil)
	w := httptest.NewRecorder()

	newTextPostRouter(h).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if capturedSlug != "hello" {
		t.Errorf("slug = %q, want %q", capturedSlug, "hello")
	}

	var result map[string]bool
	json.NewDecoder(resp.Body).Decode(&result)
	if !result["success"] {
		t.Errorf("success = %v, want true", result["success"])
	}
}

func TestTextPostHandler_GetCounts_ReturnsCounts(t *testing.T) {
	h := NewTextPostHandler(&mockTextPostService{}, &mockCountsService{
		getCountsFn: func(ctx context.Context, slug string) (*model.PostCounts, error) {
			return &model.PostCounts{LikeCount: 7, CommentCount: 3}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/text-posts/hello/counts", nil)
	w := httptest.NewRecorder()

	newTextPostRouter(h).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var counts model.PostCounts
	if err := json.NewDecoder(resp.Body).Decode(&counts); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if counts.LikeCount != 7 || counts.CommentCount != 3 {
		t.Errorf("counts = %+v, want {7 3}", counts)
	}
}
