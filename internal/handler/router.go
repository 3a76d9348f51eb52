package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/takumi/fukubukuro/internal/metrics"
	"github.com/takumi/fukubukuro/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionResolver   middleware.SessionResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	Logger            *slog.Logger
	MetricsCollector  middleware.HTTPMetricsCollector
	MetricsGatherer   prometheus.Gatherer

	// 認証
	IdentityService IdentityServiceInterface
	SessionService  SessionServiceInterface
	AuthConfig      AuthHandlerConfig

	// フードバッグ
	BagService BagServiceInterface

	// 予約
	BookingService BookingServiceInterface

	// 運用
	HealthChecker HealthChecker
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// グローバルなミドルウェアスタックの実行順序:
//
//	Recovery → RequestID → SecurityHeaders → CORS → Metrics → Logging
//
// 認証が必要なルートはさらに Session → CSRF → RateLimit(General) を通る。
// 認証ルート（/auth/*）と公開の閲覧ルートはセッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.MetricsCollector != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsCollector))
	}
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	authHandler := NewAuthHandler(deps.IdentityService, deps.SessionService, deps.AuthConfig)
	bagHandler := NewBagHandler(deps.BagService)
	bookingHandler := NewBookingHandler(deps.BookingService)

	// --- 認証不要のルート ---

	// 認証ルート
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// 公開の閲覧ルート
	r.Get("/api/bags", bagHandler.ListBags)
	r.Get("/api/bags/{id}", bagHandler.GetBag)

	// CSRFトークン取得
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// 運用エンドポイント
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionResolver))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// フードバッグ管理
		r.Post("/api/bags", bagHandler.CreateBag)
		r.Patch("/api/bags/{id}", bagHandler.UpdateBag)
		r.Delete("/api/bags/{id}", bagHandler.DeleteBag)

		// 予約（予約専用レート制限を追加）
		r.With(deps.RateLimiter.BookingMiddleware()).Post("/api/bags/{id}/bookings", bookingHandler.BookBag)
	})

	return r
}
