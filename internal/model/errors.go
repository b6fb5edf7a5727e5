// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（ユーザー向け文言）
	Category string // カテゴリ: auth, validation, content, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidEmail        = "INVALID_EMAIL"
	ErrCodeDuplicateEmail      = "DUPLICATE_EMAIL"
	ErrCodeInvalidURL          = "INVALID_URL"
	ErrCodeSSRFBlocked         = "SSRF_BLOCKED"
	ErrCodeFetchFailed         = "FETCH_FAILED"
	ErrCodePostNotFound        = "POST_NOT_FOUND"
	ErrCodeBlankSlug           = "BLANK_SLUG"
	ErrCodeEmptyContent        = "EMPTY_CONTENT"
	ErrCodeInvalidParent       = "INVALID_PARENT"
	ErrCodeNotLoggedIn         = "NOT_LOGGED_IN"
	ErrCodeEventsNotConfigured = "EVENTS_NOT_CONFIGURED"
	ErrCodeEventsUpstream      = "EVENTS_UPSTREAM"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
)

// NewInvalidEmailError はメールアドレス形式不正エラーを生成する。
// Messageはjoinエンドポイントのレスポンス文言としてそのまま使用される。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "Please enter a valid email address.",
		Category: "validation",
		Action:   "メールアドレスの形式（local@domain.tld、255文字以内）を確認してください。",
	}
}

// NewDuplicateEmailError は登録済みメールアドレスエラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "This email is already on the list.",
		Category: "validation",
		Action:   "別のメールアドレスを入力してください。",
	}
}

// NewInvalidURLError は無効なURLエラーを生成する。
// reasonにはユーザーに返す英語文言を指定する（"Invalid url" 等）。
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  reason,
		Category: "validation",
		Action:   "http:// または https:// で始まるURLを入力してください。",
	}
}

// NewSSRFBlockedError はSSRFブロックエラーを生成する。
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "URL is not allowed",
		Category: "validation",
		Action:   "公開されているWebサイトのURLを入力してください。ローカルネットワークやプライベートIPへのアクセスは許可されていません。",
	}
}

// NewFetchFailedError はプレビュー取得失敗エラーを生成する。
func NewFetchFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeFetchFailed,
		Message:  reason,
		Category: "content",
		Action:   "URLが正しいか確認し、しばらく待ってから再度お試しください。",
	}
}

// NewPostNotFoundError は記事未検出エラーを生成する。
func NewPostNotFoundError(slug string) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("Post not found: %s", slug),
		Category: "content",
		Action:   "記事のスラッグを確認してください。",
	}
}

// NewBlankSlugError はスラッグ未指定エラーを生成する。
func NewBlankSlugError() *APIError {
	return &APIError{
		Code:     ErrCodeBlankSlug,
		Message:  "Slug must not be blank",
		Category: "validation",
		Action:   "記事のスラッグを指定してください。",
	}
}

// NewEmptyContentError はコメント本文が空の場合のエラーを生成する。
func NewEmptyContentError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyContent,
		Message:  "Comment content must not be empty",
		Category: "validation",
		Action:   "コメント本文を入力してください。",
	}
}

// NewInvalidParentError は返信先コメントが不正な場合のエラーを生成する。
// 存在しない親、別記事のコメント、返信への返信（3階層目）で返す。
func NewInvalidParentError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidParent,
		Message:  "Parent comment not found",
		Category: "validation",
		Action:   "返信先のコメントを確認してください。",
	}
}

// NewNotLoggedInError は未ログインエラーを生成する。
func NewNotLoggedInError() *APIError {
	return &APIError{
		Code:     ErrCodeNotLoggedIn,
		Message:  "Not logged in",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
}

// NewEventsNotConfiguredError はイベントAPIキー未設定エラーを生成する。
func NewEventsNotConfiguredError() *APIError {
	return &APIError{
		Code:     ErrCodeEventsNotConfigured,
		Message:  "Events API not configured",
		Category: "system",
		Action:   "LUMA_API_KEYを設定してください。",
	}
}

// NewEventsUpstreamError はイベントAPI呼び出し失敗エラーを生成する。
func NewEventsUpstreamError() *APIError {
	return &APIError{
		Code:     ErrCodeEventsUpstream,
		Message:  "Failed to fetch events",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
