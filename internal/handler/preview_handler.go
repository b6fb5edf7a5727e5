package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/commune/internal/metrics"
	"github.com/hitoshi/commune/internal/model"
)

// PreviewServiceInterface はリンクプレビューハンドラーが必要とするサービスインターフェース。
type PreviewServiceInterface interface {
	// Fetch は対象URLのOG/Twitter Cardメタデータを抽出する。
	Fetch(ctx context.Context, rawURL string) (*model.LinkPreview, error)
}

// PreviewHandler はリンクプレビューのHTTPハンドラー。
type PreviewHandler struct {
	service   PreviewServiceInterface
	collector metrics.MetricsCollector
}

// NewPreviewHandler はPreviewHandlerを生成する。collectorはnil可。
func NewPreviewHandler(service PreviewServiceInterface, collector metrics.MetricsCollector) *PreviewHandler {
	return &PreviewHandler{
		service:   service,
		collector: collector,
	}
}

// previewRequest はリンクプレビューリクエストのボディ。
type previewRequest struct {
	URL string `json:"url"`
}

// Fetch はURLのプレビューメタデータを返す。
// POST /link-preview
func (h *PreviewHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid url")
		return
	}

	preview, err := h.service.Fetch(r.Context(), req.URL)
	if err != nil {
		if h.collector != nil {
			h.collector.RecordPreviewFailure(previewFailureReason(err))
		}
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordPreviewSuccess()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(preview)
}

// previewFailureReason はメトリクスラベル用の失敗理由を返す。
func previewFailureReason(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case model.ErrCodeInvalidURL:
			return "invalid_url"
		case model.ErrCodeSSRFBlocked:
			return "ssrf_blocked"
		case model.ErrCodeFetchFailed:
			return "fetch_failed"
		}
	}
	return "internal"
}
