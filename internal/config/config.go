package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type ServerSettings struct {
	Port string
}

type DatabaseSettings struct {
	DSN string
}

type JwtSettings struct {
	Issuer   string
	Audience string
	Key      string
	Lifetime time.Duration
}

func (s JwtSettings) Validate() error {
	if s.Issuer == "" || s.Audience == "" {
		return errors.New("jwt issuer and audience must be configured")
	}
	if len(s.Key) < 32 {
		return errors.New("jwt signing key must be at least 32 bytes")
	}
	if s.Lifetime <= 0 {
		return errors.New("jwt token lifetime must be positive")
	}
	return nil
}

type FileUploadSettings struct {
	MaxFileSizeInBytes int64
	AllowedExtensions  []string
	MaxRecordsPerFile  int
}

func (s FileUploadSettings) IsValidExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range s.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (s FileUploadSettings) IsValidFileSize(size int64) bool {
	return size > 0 && size <= s.MaxFileSizeInBytes
}

type CorsSettings struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

type RateLimitSettings struct {
	PermitLimit       int
	Window            time.Duration
	UploadPermitLimit int
	UploadWindow      time.Duration
}

type Settings struct {
	Server     ServerSettings
	Database   DatabaseSettings
	Jwt        JwtSettings
	FileUpload FileUploadSettings
	Cors       CorsSettings
	RateLimit  RateLimitSettings
	SeedDB     bool
}

// Load reads settings from the environment and validates the ones that must
// not fall back to a default, such as the JWT signing key.
func Load() (*Settings, error) {
	s := &Settings{
		Server: ServerSettings{
			Port: envOr("PORT", "8080"),
		},
		Database: DatabaseSettings{
			DSN: os.Getenv("DATABASE_URL"),
		},
		Jwt: JwtSettings{
			Issuer:   envOr("JWT_ISSUER", "accounts-balance-viewer"),
			Audience: envOr("JWT_AUDIENCE", "accounts-balance-viewer-web"),
			Key:      os.Getenv("JWT_KEY"),
			Lifetime: time.Duration(envIntOr("JWT_LIFETIME_MINUTES", 120)) * time.Minute,
		},
		FileUpload: FileUploadSettings{
			MaxFileSizeInBytes: int64(envIntOr("UPLOAD_MAX_FILE_SIZE_MB", 10)) * 1024 * 1024,
			AllowedExtensions:  []string{".csv", ".tsv", ".txt", ".xlsx", ".xls"},
			MaxRecordsPerFile:  envIntOr("UPLOAD_MAX_RECORDS", 10000),
		},
		Cors: CorsSettings{
			AllowedOrigins:   splitNonEmpty(envOr("CORS_ALLOWED_ORIGINS", "http://localhost:4200")),
			AllowCredentials: true,
		},
		RateLimit: RateLimitSettings{
			PermitLimit:       envIntOr("RATE_LIMIT_PERMITS", 100),
			Window:            time.Duration(envIntOr("RATE_LIMIT_WINDOW_MINUTES", 1)) * time.Minute,
			UploadPermitLimit: envIntOr("RATE_LIMIT_UPLOAD_PERMITS", 10),
			UploadWindow:      time.Duration(envIntOr("RATE_LIMIT_UPLOAD_WINDOW_MINUTES", 5)) * time.Minute,
		},
		SeedDB: envOr("SEED_DB", "false") == "true",
	}

	if s.Database.DSN == "" {
		return nil, errors.New("DATABASE_URL must be configured")
	}
	if err := s.Jwt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid jwt settings: %w", err)
	}
	return s, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
