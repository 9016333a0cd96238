package config

import (
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// SignupStoreKind はメール登録の保存方式を表す。
type SignupStoreKind string

const (
	// SignupStoreSet はRedisのSetに保存する方式。SADDで重複判定を原子的に行う。
	SignupStoreSet SignupStoreKind = "set"
	// SignupStoreList は従来のList+カウンタ方式。重複判定は線形走査で行う。
	SignupStoreList SignupStoreKind = "list"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
// 各コンポーネントには生成時にこの値を渡し、コンポーネント側で環境変数を読まない。
type Config struct {
	// Redis
	RedisURL     string
	RedisTimeout time.Duration

	// Site
	SiteID   string
	SiteName string
	BaseURL  string

	// Content
	ContentDir string
	// ContentReportEnabled が真の場合のみ品質レポートをHTTPで公開する
	ContentReportEnabled bool

	// Signup
	SignupStore     SignupStoreKind
	RateLimitSignup int

	// Server
	ServerPort string
	// TrustedProxies はX-Forwarded-Forを信用する直前のプロキシのアドレス範囲
	TrustedProxies []netip.Prefix

	// CORS
	CORSAllowedOrigin string

	// Logging
	LogLevel slog.Level
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定、または値が不正な場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.RedisURL = os.Getenv("REDIS_URL")
	if cfg.RedisURL == "" {
		missing = append(missing, "REDIS_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.RedisTimeout = getEnvDuration("REDIS_TIMEOUT", 5*time.Second)
	cfg.SiteID = getEnvString("SITE_ID", "secondlook")
	cfg.SiteName = getEnvString("SITE_NAME", "SecondLook")
	cfg.BaseURL = strings.TrimRight(getEnvString("BASE_URL", "https://secondlook.ai"), "/")
	cfg.ContentDir = getEnvString("CONTENT_DIR", "content")
	cfg.RateLimitSignup = getEnvInt("RATE_LIMIT_SIGNUP", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.ContentReportEnabled = getEnvBool("CONTENT_REPORT_ENABLED", false)

	proxies, err := parseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}
	cfg.TrustedProxies = proxies
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", cfg.BaseURL)

	store := SignupStoreKind(strings.ToLower(getEnvString("SIGNUP_STORE", string(SignupStoreSet))))
	switch store {
	case SignupStoreSet, SignupStoreList:
		cfg.SignupStore = store
	default:
		return nil, fmt.Errorf("invalid SIGNUP_STORE %q: must be %q or %q", store, SignupStoreSet, SignupStoreList)
	}

	level, err := parseLogLevel(getEnvString("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

// parseTrustedProxies はカンマ区切りのCIDRまたはIPアドレスを解釈する。
// 単一のIPアドレスはそのアドレスだけを含む範囲として扱う。
func parseTrustedProxies(v string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, field := range strings.Split(v, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if strings.Contains(field, "/") {
			p, err := netip.ParsePrefix(field)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", field, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(field)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", field, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// parseLogLevel はLOG_LEVELの値をslog.Levelに変換する。
func parseLogLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
	}
	return level, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
