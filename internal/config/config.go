package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Storage   StorageConfig   `yaml:"storage"`
	Chat      ChatConfig      `yaml:"chat"`
	Realtime  RealtimeConfig  `yaml:"realtime"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Translate TranslateConfig `yaml:"translate"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
	MigrationsDir   string        `yaml:"migrations_dir"     env:"DATABASE_MIGRATIONS_DIR"     env-default:"./migrations"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"         env:"AUTH_JWT_SECRET"         env-required:"true"`
	JWTIssuer        string        `yaml:"jwt_issuer"         env:"AUTH_JWT_ISSUER"         env-default:"teamhub"`
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl"   env:"AUTH_ACCESS_TOKEN_TTL"   env-default:"15m"`
	RefreshTokenTTL  time.Duration `yaml:"refresh_token_ttl"  env:"AUTH_REFRESH_TOKEN_TTL"  env-default:"720h"`
	PasswordHashCost int           `yaml:"password_hash_cost" env:"AUTH_PASSWORD_HASH_COST" env-default:"12"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// StorageConfig holds object storage settings.
type StorageConfig struct {
	RootDir          string        `yaml:"root_dir"           env:"STORAGE_ROOT_DIR"           env-default:"./data/storage"`
	PublicBaseURL    string        `yaml:"public_base_url"    env:"STORAGE_PUBLIC_BASE_URL"    env-default:"http://localhost:8080"`
	SigningSecret    string        `yaml:"signing_secret"     env:"STORAGE_SIGNING_SECRET"     env-required:"true"`
	SignedURLTTL     time.Duration `yaml:"signed_url_ttl"     env:"STORAGE_SIGNED_URL_TTL"     env-default:"1h"`
	VoiceBucket      string        `yaml:"voice_bucket"       env:"STORAGE_VOICE_BUCKET"       env-default:"voice-messages"`
	AttachmentBucket string        `yaml:"attachment_bucket"  env:"STORAGE_ATTACHMENT_BUCKET"  env-default:"message-attachments"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"   env:"STORAGE_MAX_UPLOAD_BYTES"   env-default:"26214400"`
}

// ChatConfig holds messaging parameters.
type ChatConfig struct {
	PageSize                int           `yaml:"page_size"                  env:"CHAT_PAGE_SIZE"                  env-default:"50"`
	MaxPageSize             int           `yaml:"max_page_size"              env:"CHAT_MAX_PAGE_SIZE"              env-default:"200"`
	MaxMessageLength        int           `yaml:"max_message_length"         env:"CHAT_MAX_MESSAGE_LENGTH"         env-default:"4000"`
	TypingTTL               time.Duration `yaml:"typing_ttl"                 env:"CHAT_TYPING_TTL"                 env-default:"5s"`
	TypingThrottle          time.Duration `yaml:"typing_throttle"            env:"CHAT_TYPING_THROTTLE"            env-default:"2s"`
	SoftDeleteRetentionDays int           `yaml:"soft_delete_retention_days" env:"CHAT_SOFT_DELETE_RETENTION_DAYS" env-default:"30"`
}

// RealtimeConfig holds websocket hub settings.
type RealtimeConfig struct {
	SendBuffer     int           `yaml:"send_buffer"      env:"REALTIME_SEND_BUFFER"      env-default:"256"`
	PingInterval   time.Duration `yaml:"ping_interval"    env:"REALTIME_PING_INTERVAL"    env-default:"30s"`
	WriteTimeout   time.Duration `yaml:"write_timeout"    env:"REALTIME_WRITE_TIMEOUT"    env-default:"10s"`
	MaxMessageSize int64         `yaml:"max_message_size" env:"REALTIME_MAX_MESSAGE_SIZE" env-default:"65536"`
}

// RateLimitConfig holds request rate limits.
type RateLimitConfig struct {
	AuthPerMinute   int           `yaml:"auth_per_minute"  env:"RATELIMIT_AUTH_PER_MINUTE" env-default:"20"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATELIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// TranslateConfig holds the message translation endpoint. An empty endpoint
// selects the pass-through stub.
type TranslateConfig struct {
	Endpoint string        `yaml:"endpoint" env:"TRANSLATE_ENDPOINT"`
	APIKey   string        `yaml:"api_key"  env:"TRANSLATE_API_KEY"`
	Timeout  time.Duration `yaml:"timeout"  env:"TRANSLATE_TIMEOUT"  env-default:"10s"`
}
