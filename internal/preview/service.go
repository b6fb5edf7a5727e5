package preview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/commune/internal/model"
)

// crawlerUserAgent はプレビュー取得時のUser-Agent。
// SNSクローラー向けに最適化されたOGメタデータを返させるため、
// Facebookのクローラーを名乗る。
const crawlerUserAgent = "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)"

// SSRFValidator はSSRF検証のインターフェース。
// security.SSRFGuardServiceを抽象化してテスタビリティを向上させる。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// ServiceConfig はプレビュー取得サービスの設定。
type ServiceConfig struct {
	FetchTimeout time.Duration // 外部フェッチのタイムアウト
	MaxBodySize  int64         // レスポンスボディの上限（バイト）
}

// Service はリンクプレビューの取得と抽出を提供する。
// プレビューは永続化せず、呼び出しごとに対象ページを1回だけフェッチする。
type Service struct {
	ssrfGuard SSRFValidator
	config    ServiceConfig

	// テスト用にオーバーライド可能なクライアント生成フック
	newClient func() *http.Client
}

// NewService はServiceを生成する。
func NewService(ssrfGuard SSRFValidator, config ServiceConfig) *Service {
	s := &Service{
		ssrfGuard: ssrfGuard,
		config:    config,
	}
	s.newClient = func() *http.Client {
		if s.ssrfGuard != nil {
			return s.ssrfGuard.NewSafeClient(s.config.FetchTimeout, s.config.MaxBodySize)
		}
		return &http.Client{Timeout: s.config.FetchTimeout}
	}
	return s
}

// Fetch は対象URLのHTMLを取得し、プレビューメタデータを抽出する。
// URL検証エラーはvalidationカテゴリ、フェッチ失敗はcontentカテゴリの
// APIErrorとして返し、ハンドラー側でHTTPステータスに変換される。
func (s *Service) Fetch(ctx context.Context, rawURL string) (*model.LinkPreview, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, model.NewInvalidURLError("Invalid url")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, model.NewInvalidURLError("URL must start with http/https")
	}

	if s.ssrfGuard != nil {
		if err := s.ssrfGuard.ValidateURL(rawURL); err != nil {
			slog.Warn("link preview blocked", "url", rawURL, "error", err)
			return nil, model.NewSSRFBlockedError()
		}
	}

	html, err := s.fetchHTML(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	meta := ExtractMeta(html)

	preview := &model.LinkPreview{
		URL:         rawURL,
		Title:       nilIfEmpty(meta.Title),
		Description: nilIfEmpty(meta.Description),
		SiteName:    nilIfEmpty(meta.SiteName),
	}
	if meta.Image != "" {
		resolved := resolveImageURL(rawURL, meta.Image)
		preview.Image = &resolved
	}

	return preview, nil
}

// fetchHTML は対象ページを1回フェッチしてボディを文字列で返す。
// リダイレクトはクライアントに追従させ、ボディは上限までで打ち切る。
func (s *Service) fetchHTML(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", model.NewInvalidURLError("Invalid url")
	}
	req.Header.Set("User-Agent", crawlerUserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.newClient().Do(req)
	if err != nil {
		slog.Warn("link preview fetch failed", "url", rawURL, "error", err)
		return "", model.NewFetchFailedError(fmt.Sprintf("Failed to fetch url: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("link preview fetch returned non-2xx", "url", rawURL, "status", resp.StatusCode)
		return "", model.NewFetchFailedError(fmt.Sprintf("Failed to fetch url: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.config.MaxBodySize))
	if err != nil {
		slog.Warn("link preview body read failed", "url", rawURL, "error", err)
		return "", model.NewFetchFailedError("Failed to read response body")
	}

	return string(body), nil
}

// resolveImageURL は相対画像URLをページURLを基準に絶対化する。
// httpで始まる値は既に絶対URLとみなし、再パースせずそのまま返す。
// どちらかのURLが不正な場合は抽出値をそのまま返す。
func resolveImageURL(pageURL, imageURL string) string {
	if strings.HasPrefix(imageURL, "http") {
		return imageURL
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return imageURL
	}
	ref, err := url.Parse(imageURL)
	if err != nil {
		return imageURL
	}
	return base.ResolveReference(ref).String()
}

// nilIfEmpty は空文字をnilポインタに変換する。
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
