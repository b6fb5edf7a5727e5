// Package model はドメインモデルを定義する。
package model

// LinkPreview はURLから抽出したOpen Graph / Twitter Cardメタデータを表す。
// 永続化されず、リクエストごとにライブHTMLから計算される。
// URL以外の各フィールドはnull許容（見つからなかった場合はnil）。
type LinkPreview struct {
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	SiteName    *string `json:"siteName"`
}
