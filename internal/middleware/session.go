// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/commune/internal/model"
)

// SessionCookieName はセッションIDを保持するHTTP Only Cookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// currentUserContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var currentUserContextKey = contextKey("current_user")

// UserLoader はセッションIDから現在のユーザーを解決するインターフェース。
// auth.Serviceの部分集合として定義する。
type UserLoader interface {
	GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 認証済みユーザーをリクエストコンテキストに注入するミドルウェアを返す。
// 未認証リクエストには401と統一エラーフォーマットのJSONを返す。
// いいね・コメント等のエンゲージメント書き込みルートに適用する。
func NewSessionMiddleware(loader UserLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := resolveUser(loader, r)
			if user == nil {
				writeUnauthorizedResponse(w)
				return
			}

			ctx := ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewOptionalSessionMiddleware はセッションがあればユーザーをコンテキストに
// 注入し、無ければ匿名のまま通すミドルウェアを返す。
// いいね状態の読み取りのように「ログインしていれば個人化される」ルートに適用する。
func NewOptionalSessionMiddleware(loader UserLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := resolveUser(loader, r); user != nil {
				r = r.WithContext(ContextWithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveUser はCookieのセッションIDからユーザーを解決する。
// Cookie無し・セッション無効・検索エラーはすべてnil（匿名）に倒す。
func resolveUser(loader UserLoader, r *http.Request) *model.User {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	user, err := loader.GetCurrentUser(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("failed to resolve session user",
			slog.String("error", err.Error()),
		)
		return nil
	}
	return user
}

// writeUnauthorizedResponse は401と統一エラーフォーマットのJSONを書き込む。
func writeUnauthorizedResponse(w http.ResponseWriter) {
	apiErr := model.NewNotLoggedInError()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + apiErr.Message + `"}`))
}

// UserFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// 未認証（匿名）の場合はnilを返す。
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(currentUserContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// ContextWithUser はコンテキストにユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, currentUserContextKey, user)
}
