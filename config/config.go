package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config stores the application configuration. Values come from the
// environment (optionally via a .env file) with sensible defaults.
type Config struct {
	AppName    string
	ListenAddr string

	// Security
	JWTSecret          string
	TokenExpiryMinutes int

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis (cache + rate limiting)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// File storage. Backend is "local" or "minio".
	StorageBackend string
	UploadDir      string // base directory for local storage
	SongUploadDir  string // UploadDir/songs
	CoverUploadDir string // UploadDir/covers
	WatchUploads   bool   // log out-of-band changes to the local store

	// MinIO (used when StorageBackend is "minio")
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Uploads
	MaxUploadSizeMB  int
	AllowedAudioExts []string

	// Rate limiting
	RateLimitEnabled bool
	RateLimitPerMin  int

	// Logging
	LogLevel      string
	LogOutputPath string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override variables already set in the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	uploadBase := getEnv("UPLOAD_DIR", "uploads")

	return &Config{
		AppName:    getEnv("APP_NAME", "gspotify"),
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenExpiryMinutes: getEnvInt("TOKEN_EXPIRY_MINUTES", 30),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // no hardcoded default for the password
		DBName:     getEnv("DB_NAME", "gspotify"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		UploadDir:      uploadBase,
		SongUploadDir:  filepath.Join(uploadBase, "songs"),
		CoverUploadDir: filepath.Join(uploadBase, "covers"),
		WatchUploads:   getEnvBool("WATCH_UPLOADS", false),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "gspotify-music-files"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		MaxUploadSizeMB:  getEnvInt("MAX_UPLOAD_SIZE_MB", 50),
		AllowedAudioExts: splitList(getEnv("ALLOWED_AUDIO_EXTS", ".mp3,.wav,.flac,.aac,.ogg")),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", false),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MIN", 100),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogOutputPath: getEnv("LOG_OUTPUT_PATH", ""),
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
