package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/hitoshi/secondlook/internal/config"
	"github.com/hitoshi/secondlook/internal/content"
	"github.com/hitoshi/secondlook/internal/handler"
	"github.com/hitoshi/secondlook/internal/logger"
	"github.com/hitoshi/secondlook/internal/metrics"
	"github.com/hitoshi/secondlook/internal/middleware"
	"github.com/hitoshi/secondlook/internal/security"
	"github.com/hitoshi/secondlook/internal/signup"
	"github.com/hitoshi/secondlook/internal/site"
	"github.com/hitoshi/secondlook/internal/store"
)

// shutdownTimeout はグレースフルシャットダウンの待ち時間の上限。
const shutdownTimeout = 30 * time.Second

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

	// 3. 設定されたログレベルを反映する
	logger.SetLevel(cfg.LogLevel)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。checkのレポートは標準出力に書き出す。
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
		slog.String("signup_store", string(cfg.SignupStore)),
	)

	switch cmd {
	case CommandCheck:
		return runCheck(cfg, os.Stdout)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はWebサーバーモードで起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg)
}

// serve は全依存関係をワイヤリングしてHTTPサーバーを起動し、ctxが終了するまで待つ。
func serve(ctx context.Context, cfg *config.Config) error {
	// 1. Redis接続
	client, err := connectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	// 2. メトリクス
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	// 3. コンテンツとページ描画
	repo := newContentRepository(cfg, collector)
	renderer, err := site.NewRenderer(cfg.SiteName, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to load page templates: %w", err)
	}

	// 4. メール登録
	signupService := signup.NewService(newSignupStore(cfg, client), slog.Default(), collector)

	// 5. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(cfg.RateLimitSignup))
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		TrustedProxies:    cfg.TrustedProxies,

		HealthChecker:  store.NewHealthChecker(client),
		Metrics:        collector,
		MetricsHandler: metrics.Handler(reg),

		SignupService: signupService,

		Content:              repo,
		Renderer:             renderer,
		BaseURL:              cfg.BaseURL,
		ContentReportEnabled: cfg.ContentReportEnabled,
	})

	// 6. HTTPサーバーの起動
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("web server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down web server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("web server stopped gracefully")
	return nil
}

// runCheck は全カテゴリのコンテンツを読み込み、品質レポートをoutにJSONで書き出す。
// 読み込みに失敗したファイルが1件でもあればエラーを返す。
func runCheck(cfg *config.Config, out io.Writer) error {
	info, err := os.Stat(cfg.ContentDir)
	if err != nil {
		return fmt.Errorf("content directory %q is not accessible: %w", cfg.ContentDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("content directory %q is not a directory", cfg.ContentDir)
	}

	report := newContentRepository(cfg, nil).Report()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	failed := 0
	for _, c := range report.Categories {
		failed += len(c.Failed)
	}
	if report.HasFailures() {
		return fmt.Errorf("content check failed: %d file(s) could not be loaded", failed)
	}

	slog.Info("content check passed")
	return nil
}

// runMigrate は従来方式のListに保存された登録データをSetへコピーする。
// 既にSetにあるアドレスは追加されないため、何度実行してもよい。
func runMigrate(cfg *config.Config) error {
	ctx := context.Background()

	client, err := connectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	slog.Info("migrating signups to set",
		slog.String("from", store.SignupListKey(cfg.SiteID)),
		slog.String("to", store.SignupSetKey(cfg.SiteID)),
	)

	added, err := store.NewSetStore(client, cfg.SiteID).MigrateFromList(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("signup migration completed", slog.Int64("added", added))
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

// connectRedis はRedisに接続し、疎通を確認したクライアントを返す。
func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client, err := store.Open(cfg.RedisURL, cfg.RedisTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open redis: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.RedisTimeout)
	defer cancel()

	if err := store.NewHealthChecker(client).PingContext(pingCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("redis connection established")
	return client, nil
}

// newContentRepository はコンテンツディレクトリを読むRepositoryを生成する。
func newContentRepository(cfg *config.Config, recorder content.LoadRecorder) *content.Repository {
	renderer := content.NewMarkdownRenderer(security.NewContentSanitizer())
	return content.NewRepository(os.DirFS(cfg.ContentDir), renderer, slog.Default(), recorder)
}

// newSignupStore は設定に応じた登録ストアを返す。
func newSignupStore(cfg *config.Config, client redis.Cmdable) signup.Store {
	if cfg.SignupStore == config.SignupStoreList {
		return store.NewListStore(client, cfg.SiteID)
	}
	return store.NewSetStore(client, cfg.SiteID)
}
