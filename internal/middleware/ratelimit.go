package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	PublicRate      rate.Limit    // 公開書き込み（join, link-preview）のレート（req/sec）
	PublicBurst     int           // 公開書き込みのバーストサイズ
	EngagementRate  rate.Limit    // エンゲージメント書き込み（いいね・コメント）のレート（req/sec）
	EngagementBurst int           // エンゲージメント書き込みのバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// 公開書き込みはクライアントIPごとに60 req/min、
// エンゲージメント書き込みはユーザーごとに30 req/min。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		PublicRate:      rate.Limit(60.0 / 60.0), // 1 req/sec
		PublicBurst:     60,
		EngagementRate:  rate.Limit(30.0 / 60.0), // 0.5 req/sec
		EngagementBurst: 30,
		CleanupInterval: 5 * time.Minute,
	}
}

// keyedLimiter はキーごとのレートリミッターとアクセス時刻を保持する。
type keyedLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter は公開書き込みとエンゲージメント書き込みの2系統の
// レート制限を管理する。公開系はクライアントIP、エンゲージメント系は
// 認証済みユーザーIDをキーにする。
type RateLimiter struct {
	config RateLimiterConfig

	publicMu       sync.RWMutex
	publicLimiters map[string]*keyedLimiter

	engagementMu       sync.RWMutex
	engagementLimiters map[string]*keyedLimiter

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:             config,
		publicLimiters:     make(map[string]*keyedLimiter),
		engagementLimiters: make(map[string]*keyedLimiter),
		stopCh:             make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// PublicMiddleware は公開書き込みエンドポイント用のレート制限ミドルウェアを返す。
// 認証を要求しないため、クライアントIPをキーにする。
func (rl *RateLimiter) PublicMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := clientIPFromRequest(r)

			limiter := rl.getOrCreateLimiter(
				&rl.publicMu, rl.publicLimiters, clientIP,
				rl.config.PublicRate, rl.config.PublicBurst,
			)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.PublicRate)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", clientIP),
					slog.String("limit_type", "public"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// EngagementMiddleware はエンゲージメント書き込み用のレート制限ミドルウェアを返す。
// リクエストコンテキストに認証済みユーザーが必要（SessionMiddlewareの後に配置）。
func (rl *RateLimiter) EngagementMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeUnauthorizedResponse(w)
				return
			}

			limiter := rl.getOrCreateLimiter(
				&rl.engagementMu, rl.engagementLimiters, user.ID,
				rl.config.EngagementRate, rl.config.EngagementBurst,
			)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.EngagementRate)
				slog.Warn("rate limit exceeded",
					slog.String("user_id", user.ID),
					slog.String("limit_type", "engagement"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PublicLimiterCount は現在管理されている公開系リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) PublicLimiterCount() int {
	rl.publicMu.RLock()
	defer rl.publicMu.RUnlock()
	return len(rl.publicLimiters)
}

// EngagementLimiterCount は現在管理されているエンゲージメント系リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) EngagementLimiterCount() int {
	rl.engagementMu.RLock()
	defer rl.engagementMu.RUnlock()
	return len(rl.engagementLimiters)
}

// getOrCreateLimiter はキーに対応するリミッターを取得または作成する。
func (rl *RateLimiter) getOrCreateLimiter(
	mu *sync.RWMutex,
	limiters map[string]*keyedLimiter,
	key string,
	limit rate.Limit,
	burst int,
) *rate.Limiter {
	mu.RLock()
	kl, exists := limiters[key]
	mu.RUnlock()

	if exists {
		mu.Lock()
		kl.lastAccess = time.Now()
		mu.Unlock()
		return kl.limiter
	}

	mu.Lock()
	defer mu.Unlock()

	// ダブルチェック
	if kl, exists := limiters[key]; exists {
		kl.lastAccess = time.Now()
		return kl.limiter
	}

	limiter := rate.NewLimiter(limit, burst)
	limiters[key] = &keyedLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// clientIPFromRequest はレート制限キーに使うクライアントIPを取得する。
func clientIPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2

	now := time.Now()

	rl.publicMu.Lock()
	for key, kl := range rl.publicLimiters {
		if now.Sub(kl.lastAccess) > ttl {
			delete(rl.publicLimiters, key)
		}
	}
	rl.publicMu.Unlock()

	rl.engagementMu.Lock()
	for key, kl := range rl.engagementLimiters {
		if now.Sub(kl.lastAccess) > ttl {
			delete(rl.engagementLimiters, key)
		}
	}
	rl.engagementMu.Unlock()
}

// maxRetryAfterSec はRetry-Afterヘッダーの上限秒数。
// レートが0（補充なし）の場合もこの値に切り詰める。
const maxRetryAfterSec = 3600

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	// Retry-Afterの算出: 1トークンが補充されるまでの秒数。
	// レート0では除算が+Infになるため、変換前に上限へ切り詰める。
	retryAfterSec := maxRetryAfterSec
	if seconds := math.Ceil(1.0 / float64(r)); seconds < maxRetryAfterSec {
		retryAfterSec = int(seconds)
	}
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]string{
		"error": "Too many requests. Please try again later.",
	})
}
