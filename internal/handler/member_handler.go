package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/commune/internal/model"
)

// MemberServiceInterface はコミュニティ参加ハンドラーが必要とするサービスインターフェース。
type MemberServiceInterface interface {
	// Join はメールアドレスを検証して参加リストに登録する。
	Join(ctx context.Context, email string) error
}

// MemberHandler はコミュニティ参加のHTTPハンドラー。
type MemberHandler struct {
	service MemberServiceInterface
}

// NewMemberHandler はMemberHandlerを生成する。
func NewMemberHandler(service MemberServiceInterface) *MemberHandler {
	return &MemberHandler{service: service}
}

// joinRequest はコミュニティ参加リクエストのボディ。
type joinRequest struct {
	Email string `json:"email"`
}

// Join はメールアドレスを参加リストに登録する。
// POST /community-join
// レスポンスは {ok:true} または {ok:false, error} で、文言は固定。
func (h *MemberHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJoinError(w, http.StatusBadRequest, model.NewInvalidEmailError().Message)
		return
	}

	if err := h.service.Join(r.Context(), req.Email); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			writeJoinError(w, mapAPIErrorToHTTPStatus(apiErr), apiErr.Message)
			return
		}

		slog.Error("community join failed", slog.String("error", err.Error()))
		writeJoinError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// writeJoinError は {ok:false, error} 形式でエラーレスポンスを書き込む。
func writeJoinError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":    false,
		"error": message,
	})
}
