package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/commune/internal/model"
)

// FeedServiceInterface はフィードハンドラーが必要とするサービスインターフェース。
type FeedServiceInterface interface {
	// ListFeed はフィルタ適用済みの統合フィードを返す。
	ListFeed(ctx context.Context, platform, query string) ([]model.UnifiedPost, error)
}

// FeedHandler は統合フィードのHTTPハンドラー。
type FeedHandler struct {
	service FeedServiceInterface
}

// NewFeedHandler はFeedHandlerを生成する。
func NewFeedHandler(service FeedServiceInterface) *FeedHandler {
	return &FeedHandler{service: service}
}

// ListPosts は統合フィードを返す。
// GET /posts?platform=all&q=
func (h *FeedHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	if platform == "" {
		platform = "all"
	}
	query := r.URL.Query().Get("q")

	posts, err := h.service.ListFeed(r.Context(), platform, query)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// タグ付き合併をフラットなJSON配列に展開する
	items := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		switch {
		case p.Type == model.PostTypeSocial && p.Social != nil:
			items = append(items, p.Social)
		case p.Text != nil:
			items = append(items, p.Text)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// --- ヘルパー関数 ---

// errorResponse は {error} 形式のエラーレスポンス。
type errorResponse struct {
	Error string `json:"error"`
}

// writeErrorResponse は {error} 形式でエラーレスポンスを書き込む。
func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// APIError以外のエラーは詳細をログのみに記録し、一般的なメッセージで500を返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr.Message)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	writeErrorResponse(w, http.StatusInternalServerError, "Internal server error")
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidEmail, model.ErrCodeInvalidURL, model.ErrCodeSSRFBlocked,
		model.ErrCodeBlankSlug, model.ErrCodeEmptyContent, model.ErrCodeInvalidParent:
		return http.StatusBadRequest
	case model.ErrCodeNotLoggedIn:
		return http.StatusUnauthorized
	case model.ErrCodePostNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateEmail:
		return http.StatusConflict
	case model.ErrCodeFetchFailed, model.ErrCodeEventsNotConfigured, model.ErrCodeEventsUpstream:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
