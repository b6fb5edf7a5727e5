package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/commune/internal/auth"
	"github.com/hitoshi/commune/internal/comment"
	"github.com/hitoshi/commune/internal/config"
	"github.com/hitoshi/commune/internal/database"
	"github.com/hitoshi/commune/internal/engagement"
	"github.com/hitoshi/commune/internal/events"
	"github.com/hitoshi/commune/internal/handler"
	"github.com/hitoshi/commune/internal/logger"
	"github.com/hitoshi/commune/internal/member"
	"github.com/hitoshi/commune/internal/metrics"
	"github.com/hitoshi/commune/internal/middleware"
	"github.com/hitoshi/commune/internal/post"
	"github.com/hitoshi/commune/internal/preview"
	"github.com/hitoshi/commune/internal/repository"
	"github.com/hitoshi/commune/internal/security"
	"github.com/hitoshi/commune/internal/worker/cleanup"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	identRepo := repository.NewPostgresIdentityRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	socialRepo := repository.NewPostgresSocialPostRepo(db)
	textRepo := repository.NewPostgresTextPostRepo(db)
	joinRepo := repository.NewPostgresJoinRepo(db)
	likeRepo := repository.NewPostgresLikeRepo(db)
	commentRepo := repository.NewPostgresCommentRepo(db)

	// 3. セキュリティサービスの初期化
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewContentSanitizer()

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. ドメインサービスの初期化
	oauthProvider := auth.NewGoogleOAuthProvider(auth.GoogleOAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	authService := auth.NewService(
		oauthProvider, userRepo, identRepo, sessionRepo,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)

	postService := post.NewService(socialRepo, textRepo, sanitizer, collector)
	commentService := comment.NewService(commentRepo, textRepo, sanitizer)
	engagementService := engagement.NewService(likeRepo, commentRepo, textRepo)
	memberService := member.NewService(joinRepo)

	previewService := preview.NewService(ssrfGuard, preview.ServiceConfig{
		FetchTimeout: cfg.PreviewTimeout,
		MaxBodySize:  cfg.PreviewMaxSize,
	})

	eventsClient := events.NewClient(
		&http.Client{Timeout: cfg.EventsTimeout},
		slog.Default(),
		cfg.LumaAPIKey,
	)

	// 6. レート制限の構築（configはreq/min単位、rate.Limitはreq/sec単位）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.PublicRate = rate.Limit(float64(cfg.RateLimitPublic) / 60.0)
	rateLimiterCfg.PublicBurst = cfg.RateLimitPublic
	rateLimiterCfg.EngagementRate = rate.Limit(float64(cfg.RateLimitEngagement) / 60.0)
	rateLimiterCfg.EngagementBurst = cfg.RateLimitEngagement
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 7. ルーターの構築
	deps := &handler.RouterDeps{
		UserLoader:        authService,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),
		Collector:         collector,
		Gatherer:          registry,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			BaseURL:       cfg.BaseURL,
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		FeedService:     postService,
		TextPostService: postService,

		LikeService:    engagementService,
		CommentService: commentService,
		CountsService:  engagementService,

		MemberService:  memberService,
		PreviewService: previewService,
		EventsService:  eventsClient,
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はメンテナンスワーカーモードで起動する。
// 期限切れセッションの削除ジョブを日次で実行する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	// 2. クリーンアップジョブの初期化
	sessionRepo := repository.NewPostgresSessionRepo(db)
	sweepJob := cleanup.NewSessionSweepJob(sessionRepo, slog.Default())

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting")

	// 起動直後に1回実行
	if err := sweepJob.Run(ctx); err != nil {
		slog.Error("session sweep job failed", slog.String("error", err.Error()))
	}

	// セッションクリーンアップを日次で実行（ブロッキング）
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped gracefully")
			return nil
		case <-ticker.C:
			if err := sweepJob.Run(ctx); err != nil {
				slog.Error("session sweep job failed", slog.String("error", err.Error()))
			}
		}
	}
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
