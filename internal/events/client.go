// Package events はLuma連携機能を提供する。
// カレンダーAPIの呼び出しとサイドバー向けの簡約リスト生成を含む。
package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hitoshi/commune/internal/model"
)

const (
	// defaultEndpoint はLumaカレンダーのイベント一覧APIのエンドポイント。
	defaultEndpoint = "https://api.lu.ma/public/v1/calendar/list-events"
	// lookbackWindow は進行中イベントを含めるための遡り幅。
	// 開始から24時間以内のイベントはまだ一覧に残す。
	lookbackWindow = 24 * time.Hour
	// maxUpcomingEvents はサイドバーに出す最大イベント数。
	maxUpcomingEvents = 5
)

// Client はLumaカレンダーAPIのクライアント。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	endpoint   string // テスト用にエンドポイントを差し替え可能

	// now はテスト用に時刻を差し替えるフック
	now func() time.Time
}

// NewClient はClientの新しいインスタンスを生成する。
// apiKeyが空の場合、呼び出しはEVENTS_NOT_CONFIGUREDエラーになる。
func NewClient(httpClient *http.Client, logger *slog.Logger, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		now:        time.Now,
	}
}

// FetchRaw はイベント一覧のレスポンスボディをそのまま返す。
// GET /events はLumaのJSONを加工せずクライアントへ中継するため、
// パースは行わずバイト列のまま返す。
func (c *Client) FetchRaw(ctx context.Context) ([]byte, error) {
	if c.apiKey == "" {
		return nil, model.NewEventsNotConfiguredError()
	}

	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, model.NewEventsUpstreamError()
	}

	q := reqURL.Query()
	q.Set("after", c.now().Add(-lookbackWindow).Format(time.RFC3339))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, model.NewEventsUpstreamError()
	}
	req.Header.Set("x-luma-api-key", c.apiKey)
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Lumaイベントの取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewEventsUpstreamError()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("LumaAPIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, model.NewEventsUpstreamError()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Lumaレスポンスの読み取りに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewEventsUpstreamError()
	}

	return body, nil
}

// ListUpcoming はサイドバー表示用の簡約イベントリストを返す。
// 最大5件。取得・パースのどの失敗でも空リストに降格し、エラーは返さない。
func (c *Client) ListUpcoming(ctx context.Context) []model.Event {
	body, err := c.FetchRaw(ctx)
	if err != nil {
		return []model.Event{}
	}

	var parsed model.LumaEventsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("Lumaレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return []model.Event{}
	}

	events := make([]model.Event, 0, maxUpcomingEvents)
	for _, entry := range parsed.Entries {
		if len(events) >= maxUpcomingEvents {
			break
		}
		events = append(events, mapEvent(entry.Event))
	}

	return events
}

// mapEvent はLumaのイベント構造を表示用モデルに変換する。
func mapEvent(e model.LumaEvent) model.Event {
	event := model.Event{
		ID:          e.APIID,
		Title:       e.Name,
		Description: e.Description,
		Date:        e.StartAt,
		ImageURL:    e.CoverURL,
		EventLink:   e.URL,
		Location:    "Online",
	}

	if start, err := time.Parse(time.RFC3339, e.StartAt); err == nil {
		event.Date = start.Format("Jan 2, 2006")
		event.Time = start.Format("3:04 PM")
	}

	if e.Location != nil && e.Location.Name != "" {
		event.Location = e.Location.Name
	}

	return event
}
