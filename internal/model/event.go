// Package model はドメインモデルを定義する。
package model

// LumaEvent はLuma APIのイベント構造を表す。
type LumaEvent struct {
	APIID       string `json:"api_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
	URL         string `json:"url"`
	Location    *struct {
		Name    string `json:"name,omitempty"`
		Address string `json:"address,omitempty"`
	} `json:"location,omitempty"`
}

// LumaEventsResponse はLuma APIのlist-eventsレスポンス構造を表す。
type LumaEventsResponse struct {
	Entries []struct {
		Event LumaEvent `json:"event"`
	} `json:"entries"`
}

// Event はサイドバー表示用に簡約したイベントモデル。
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	EventLink   string `json:"eventLink"`
	Location    string `json:"location,omitempty"`
}
