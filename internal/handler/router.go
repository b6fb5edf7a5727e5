package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/commune/internal/metrics"
	"github.com/hitoshi/commune/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	UserLoader        middleware.UserLoader
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Collector         metrics.MetricsCollector
	Gatherer          prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// フィード・テキスト投稿
	FeedService     FeedServiceInterface
	TextPostService TextPostServiceInterface

	// エンゲージメント
	LikeService    LikeServiceInterface
	CommentService CommentServiceInterface
	CountsService  CountsServiceInterface

	// コミュニティ参加・プレビュー・イベント
	MemberService  MemberServiceInterface
	PreviewService PreviewServiceInterface
	EventsService  EventsServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging(+metrics)
//
// 読み取り系は匿名アクセス可（いいねGETはOptionalSessionでユーザーを注入）。
// エンゲージメントの書き込みは Session → RateLimit(Engagement)、
// 公開書き込み（join, link-preview）は RateLimit(Public) を通す。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	feedHandler := NewFeedHandler(deps.FeedService)
	textPostHandler := NewTextPostHandler(deps.TextPostService, deps.CountsService)
	engagementHandler := NewEngagementHandler(deps.LikeService, deps.CommentService)
	memberHandler := NewMemberHandler(deps.MemberService)
	previewHandler := NewPreviewHandler(deps.PreviewService, deps.Collector)
	eventsHandler := NewEventsHandler(deps.EventsService)

	// --- 運用エンドポイント ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証ルート（OAuthフロー） ---

	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 公開読み取りルート ---

	r.Get("/posts", feedHandler.ListPosts)
	r.Get("/events", eventsHandler.Raw)
	r.Get("/events/upcoming", eventsHandler.Upcoming)

	r.Route("/text-posts", func(r chi.Router) {
		r.Get("/", textPostHandler.List)

		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", textPostHandler.Get)
			r.Post("/views", textPostHandler.IncrementViews)
			r.Get("/counts", textPostHandler.GetCounts)
			r.Get("/comments", engagementHandler.GetComments)

			// いいねの読み取りはログイン状態でliked判定が変わる
			r.With(middleware.NewOptionalSessionMiddleware(deps.UserLoader)).
				Get("/likes", engagementHandler.GetLikes)

			// エンゲージメント書き込み: Session → RateLimit(Engagement)
			r.Group(func(r chi.Router) {
				r.Use(middleware.NewSessionMiddleware(deps.UserLoader))
				if deps.RateLimiter != nil {
					r.Use(deps.RateLimiter.EngagementMiddleware())
				}

				r.Post("/likes", engagementHandler.ToggleLike)
				r.Post("/comments", engagementHandler.AddComment)
			})
		})
	})

	// --- 公開書き込みルート（クライアントIPでレート制限） ---

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.PublicMiddleware())
		}

		r.Post("/community-join", memberHandler.Join)
		r.Post("/link-preview", previewHandler.Fetch)
	})

	return r
}
