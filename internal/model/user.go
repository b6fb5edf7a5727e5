// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// いいね・コメントの主体で、OAuthサインイン時に自動作成される。
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部IdPとの紐付け情報を表す。
// 将来的に複数のIdP（Google, GitHub等）に対応可能な構造。
type Identity struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// JoinEntry はニュースレター登録のメールアドレス1件を表す。
// community_joinテーブルの行に対応し、emailは一意。
type JoinEntry struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}
