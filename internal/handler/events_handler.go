package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/commune/internal/model"
)

// EventsServiceInterface はイベントハンドラーが必要とするクライアントインターフェース。
type EventsServiceInterface interface {
	// FetchRaw はLuma APIのレスポンスボディをそのまま返す。
	FetchRaw(ctx context.Context) ([]byte, error)
	// ListUpcoming はサイドバー表示用の直近イベント一覧を返す。
	ListUpcoming(ctx context.Context) []model.Event
}

// EventsHandler はLumaイベントのHTTPハンドラー。
type EventsHandler struct {
	service EventsServiceInterface
}

// NewEventsHandler はEventsHandlerを生成する。
func NewEventsHandler(service EventsServiceInterface) *EventsHandler {
	return &EventsHandler{service: service}
}

// Raw はLuma APIのレスポンスをそのまま返す。
// GET /events
func (h *EventsHandler) Raw(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.FetchRaw(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Upcoming は直近イベントの簡約一覧を返す。取得失敗時は空配列。
// GET /events/upcoming
func (h *EventsHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	events := h.service.ListUpcoming(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}
